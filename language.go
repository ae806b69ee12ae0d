package designpatch

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/meigma/designpatch/excel"
)

// Areas with an AllowedLanguage row pair.
const (
	AreaOverseas = "os"
	AreaChina    = "cn"
)

var validLanguages = []string{"cn", "en", "kr", "jp"}

// ValidLanguages returns the language codes the client ships with.
func ValidLanguages() []string {
	return slices.Clone(validLanguages)
}

// ValidateLanguage reports whether code is one of ValidLanguages.
func ValidateLanguage(code string) error {
	if !slices.Contains(validLanguages, code) {
		return fmt.Errorf("%w %q: must be one of %s", ErrInvalidLanguage, code, strings.Join(validLanguages, ", "))
	}
	return nil
}

// Instruction sets the language of the row matching Area and Kind.
type Instruction struct {
	Area     string
	Kind     excel.Kind
	Language string
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s %s=%s", in.Area, in.Kind, in.Language)
}

// DefaultInstructions returns the four instructions that switch both areas
// to the given text and voice languages.
func DefaultInstructions(text, voice string) []Instruction {
	return []Instruction{
		{Area: AreaOverseas, Kind: excel.KindText, Language: text},
		{Area: AreaChina, Kind: excel.KindVoice, Language: voice},
		{Area: AreaOverseas, Kind: excel.KindVoice, Language: voice},
		{Area: AreaChina, Kind: excel.KindText, Language: text},
	}
}

// Languages is a text and voice language pair.
type Languages struct {
	Text  string
	Voice string
}

// Instructions returns DefaultInstructions for the pair.
func (l Languages) Instructions() []Instruction {
	return DefaultInstructions(l.Text, l.Voice)
}

// ParseLanguageFlag parses a language pair of the form "0en,1jp", where the
// leading digit selects text (0) or voice (1). Both must be given exactly
// once. A "-lang:" or "lang:" prefix is accepted.
func ParseLanguageFlag(s string) (Languages, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "lang:")

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Languages{}, fmt.Errorf("%w %q: expected format 0en,1jp", ErrInvalidLanguageFlag, s)
	}

	var langs Languages
	for _, part := range parts {
		if len(part) < 3 {
			return Languages{}, fmt.Errorf("%w %q: expected a type digit and a language code", ErrInvalidLanguageFlag, part)
		}
		kind, code := part[:1], part[1:]
		if err := ValidateLanguage(code); err != nil {
			return Languages{}, err
		}
		switch kind {
		case "0":
			langs.Text = code
		case "1":
			langs.Voice = code
		default:
			return Languages{}, fmt.Errorf("%w %q: type must be 0 (text) or 1 (voice)", ErrInvalidLanguageFlag, part)
		}
	}

	if langs.Text == "" {
		return Languages{}, fmt.Errorf("%w: missing text language (0)", ErrInvalidLanguageFlag)
	}
	if langs.Voice == "" {
		return Languages{}, fmt.Errorf("%w: missing voice language (1)", ErrInvalidLanguageFlag)
	}
	return langs, nil
}

func validateInstructions(instructions []Instruction) error {
	if len(instructions) == 0 {
		return errors.New("no instructions")
	}
	for _, in := range instructions {
		if err := ValidateLanguage(in.Language); err != nil {
			return fmt.Errorf("instruction %s: %w", in, err)
		}
		if in.Kind != excel.KindText && in.Kind != excel.KindVoice {
			return fmt.Errorf("instruction %s: unknown row kind", in)
		}
	}
	return nil
}
