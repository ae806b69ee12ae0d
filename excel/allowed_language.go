package excel

import (
	"fmt"
	"math"
	"strings"

	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/wire"
)

const (
	// TableVersion is the version byte written at the start of every table.
	// Decode reads the byte but does not interpret it.
	TableVersion = 0

	// VoiceRowType is the row type value marking a voice row.
	// Text rows carry no row type at all.
	VoiceRowType = 1

	maxStringLen = math.MaxUint8
	maxCount     = math.MaxInt8
)

// Kind distinguishes the text and voice variants of a row.
type Kind uint8

const (
	// KindText matches rows with no row type.
	KindText Kind = iota
	// KindVoice matches rows whose row type is VoiceRowType.
	KindVoice
)

// String returns "text" or "voice".
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVoice:
		return "voice"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// AllowedLanguageRow is one sparse row of the AllowedLanguage table.
//
// A nil field is absent on the wire. LanguageList follows the same rule: nil
// means absent, while a non-nil empty slice is present with zero items.
type AllowedLanguageRow struct {
	Area            *string
	RowType         *uint8
	LanguageList    []string
	DefaultLanguage *string
}

// Mask returns the presence bitmask that prefixes the row on the wire.
func (r *AllowedLanguageRow) Mask() uint8 {
	var mask uint8
	for i := range rowFields {
		if rowFields[i].present(r) {
			mask |= 1 << rowFields[i].bit
		}
	}
	return mask
}

// AreaName returns the row's area, or "" when the area is absent.
func (r *AllowedLanguageRow) AreaName() string {
	if r.Area == nil {
		return ""
	}
	return *r.Area
}

// IsText reports whether the row is a text row.
func (r *AllowedLanguageRow) IsText() bool {
	return r.RowType == nil
}

// IsVoice reports whether the row is a voice row.
func (r *AllowedLanguageRow) IsVoice() bool {
	return r.RowType != nil && *r.RowType == VoiceRowType
}

// Kind returns the row's kind. ok is false when the row type is neither
// absent nor VoiceRowType.
func (r *AllowedLanguageRow) Kind() (kind Kind, ok bool) {
	switch {
	case r.IsText():
		return KindText, true
	case r.IsVoice():
		return KindVoice, true
	default:
		return 0, false
	}
}

// Matches reports whether the row has the given area and kind.
func (r *AllowedLanguageRow) Matches(area string, kind Kind) bool {
	if r.Area == nil || *r.Area != area {
		return false
	}
	switch kind {
	case KindText:
		return r.IsText()
	case KindVoice:
		return r.IsVoice()
	default:
		return false
	}
}

// SetLanguage makes code the row's default and only allowed language.
func (r *AllowedLanguageRow) SetLanguage(code string) {
	r.DefaultLanguage = &code
	r.LanguageList = []string{code}
}

// Find returns a pointer to the first row matching area and kind, or an error
// wrapping ErrRowNotFound.
func Find(rows []AllowedLanguageRow, area string, kind Kind) (*AllowedLanguageRow, error) {
	for i := range rows {
		if rows[i].Matches(area, kind) {
			return &rows[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s AllowedLanguageRow", designtype.ErrRowNotFound, strings.ToUpper(area), kind)
}

// Decode parses a complete table.
//
// Either every row is returned or an error wrapping ErrFormat; a row whose
// declared fields run past the end of data fails with ErrTruncatedRow. Bytes
// after the last row are ignored, as are mask bits above bit 3.
func Decode(data []byte) ([]AllowedLanguageRow, error) {
	r := wire.NewReader(data)

	if _, err := r.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: table version: %w", designtype.ErrTruncatedRow, err)
	}
	n, err := readCount(r)
	if err != nil {
		return nil, fmt.Errorf("row count: %w", err)
	}

	rows := make([]AllowedLanguageRow, n)
	for i := range rows {
		if err := decodeRow(r, &rows[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return rows, nil
}

func decodeRow(r *wire.Reader, row *AllowedLanguageRow) error {
	mask, err := r.Uint8()
	if err != nil {
		return fmt.Errorf("%w: mask: %w", designtype.ErrTruncatedRow, err)
	}
	for i := range rowFields {
		f := &rowFields[i]
		if mask&(1<<f.bit) == 0 {
			continue
		}
		if err := f.decode(r, row); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}

// Encode serializes rows into a complete table.
//
// Every row is written with a mask computed from its present fields followed
// by exactly those fields. Strings longer than 255 bytes and lists or row
// sets with more than 127 items fail with ErrFieldTooLong.
func Encode(rows []AllowedLanguageRow) ([]byte, error) {
	e := &encoder{buf: make([]byte, 0, 16*len(rows)+2)}
	e.writeByte(TableVersion)
	if err := e.writeCount(len(rows)); err != nil {
		return nil, fmt.Errorf("row count: %w", err)
	}
	for i := range rows {
		if err := encodeRow(e, &rows[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return e.buf, nil
}

func encodeRow(e *encoder, row *AllowedLanguageRow) error {
	e.writeByte(row.Mask())
	for i := range rowFields {
		f := &rowFields[i]
		if !f.present(row) {
			continue
		}
		if err := f.encode(e, row); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}
