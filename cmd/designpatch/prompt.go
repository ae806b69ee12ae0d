package main

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/meigma/designpatch"
)

// promptLanguages asks for the voice language, then the text language.
func promptLanguages() (designpatch.Languages, error) {
	voice, err := selectLanguage("What language should be used for voice?")
	if err != nil {
		return designpatch.Languages{}, err
	}
	text, err := selectLanguage("What language should be used for text?")
	if err != nil {
		return designpatch.Languages{}, err
	}
	return designpatch.Languages{Text: text, Voice: voice}, nil
}

func selectLanguage(label string) (string, error) {
	sel := promptui.Select{
		Label: label,
		Items: designpatch.ValidLanguages(),
	}
	_, code, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("select language: %w", err)
	}
	if err := designpatch.ValidateLanguage(code); err != nil {
		return "", err
	}
	return code, nil
}
