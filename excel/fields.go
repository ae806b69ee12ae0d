package excel

import (
	"fmt"

	"github.com/meigma/designpatch/internal/designtype"
	"github.com/meigma/designpatch/internal/varint"
	"github.com/meigma/designpatch/internal/wire"
)

// rowField binds one presence bit to the field it guards. Encode and Decode
// both walk rowFields in order, so the bit order and the field order on the
// wire cannot diverge.
type rowField struct {
	bit     uint8
	name    string
	present func(*AllowedLanguageRow) bool
	encode  func(*encoder, *AllowedLanguageRow) error
	decode  func(*wire.Reader, *AllowedLanguageRow) error
}

var rowFields = [...]rowField{
	{
		bit:     0,
		name:    "area",
		present: func(row *AllowedLanguageRow) bool { return row.Area != nil },
		encode:  func(e *encoder, row *AllowedLanguageRow) error { return e.writeString(*row.Area) },
		decode: func(r *wire.Reader, row *AllowedLanguageRow) error {
			s, err := readString(r)
			if err != nil {
				return err
			}
			row.Area = &s
			return nil
		},
	},
	{
		bit:     1,
		name:    "row type",
		present: func(row *AllowedLanguageRow) bool { return row.RowType != nil },
		encode: func(e *encoder, row *AllowedLanguageRow) error {
			e.writeByte(*row.RowType)
			return nil
		},
		decode: func(r *wire.Reader, row *AllowedLanguageRow) error {
			b, err := r.Uint8()
			if err != nil {
				return fmt.Errorf("%w: %w", designtype.ErrTruncatedRow, err)
			}
			row.RowType = &b
			return nil
		},
	},
	{
		bit:     2,
		name:    "language list",
		present: func(row *AllowedLanguageRow) bool { return row.LanguageList != nil },
		encode:  func(e *encoder, row *AllowedLanguageRow) error { return e.writeStrings(row.LanguageList) },
		decode: func(r *wire.Reader, row *AllowedLanguageRow) error {
			list, err := readStrings(r)
			if err != nil {
				return err
			}
			row.LanguageList = list
			return nil
		},
	},
	{
		bit:     3,
		name:    "default language",
		present: func(row *AllowedLanguageRow) bool { return row.DefaultLanguage != nil },
		encode:  func(e *encoder, row *AllowedLanguageRow) error { return e.writeString(*row.DefaultLanguage) },
		decode: func(r *wire.Reader, row *AllowedLanguageRow) error {
			s, err := readString(r)
			if err != nil {
				return err
			}
			row.DefaultLanguage = &s
			return nil
		},
	},
}

func readString(r *wire.Reader) (string, error) {
	n, err := r.Uint8()
	if err != nil {
		return "", fmt.Errorf("%w: string length: %w", designtype.ErrTruncatedRow, err)
	}
	p, err := r.Bytes(int(n))
	if err != nil {
		return "", fmt.Errorf("%w: string of %d bytes, %d available", designtype.ErrTruncatedRow, n, r.Len())
	}
	return string(p), nil
}

func readStrings(r *wire.Reader) ([]string, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, n)
	for i := range n {
		s, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		list = append(list, s)
	}
	return list, nil
}

func readCount(r *wire.Reader) (int, error) {
	n, err := varint.ReadInt8(r)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative count %d", designtype.ErrMalformedVarint, n)
	}
	return int(n), nil
}

// encoder accumulates an encoded table.
type encoder struct {
	buf []byte
}

func (e *encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) writeCount(n int) error {
	if n > maxCount {
		return fmt.Errorf("%w: count %d exceeds %d", designtype.ErrFieldTooLong, n, maxCount)
	}
	e.buf = varint.AppendInt8(e.buf, int8(n)) //nolint:gosec // bounded above
	return nil
}

func (e *encoder) writeString(s string) error {
	if len(s) > maxStringLen {
		return fmt.Errorf("%w: string of %d bytes exceeds %d", designtype.ErrFieldTooLong, len(s), maxStringLen)
	}
	e.buf = append(e.buf, byte(len(s)))
	e.buf = append(e.buf, s...)
	return nil
}

func (e *encoder) writeStrings(list []string) error {
	if err := e.writeCount(len(list)); err != nil {
		return err
	}
	for _, s := range list {
		if err := e.writeString(s); err != nil {
			return err
		}
	}
	return nil
}
