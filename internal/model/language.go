// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"golang.org/x/text/language"
)

// Translation services selectable in the language settings.
const (
	TranslationServiceGoogle    = "google"
	TranslationServiceDeepL     = "deepl"
	TranslationServiceMicrosoft = "microsoft"
)

// Language is a site language the public pages can be offered in.
type Language struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	Active    bool   `json:"active"`
}

// LanguageSettings holds the supported languages and the translation service setup.
type LanguageSettings struct {
	Languages []Language `json:"languages"`
	APIKey    string     `json:"apiKey"`
	Service   string     `json:"service"`
}

// Find returns the index of the language with code, or -1.
func (s LanguageSettings) Find(code string) int {
	for i, l := range s.Languages {
		if l.Code == code {
			return i
		}
	}
	return -1
}

// Default returns the default language, if one is set.
func (s LanguageSettings) Default() (Language, bool) {
	for _, l := range s.Languages {
		if l.IsDefault {
			return l, true
		}
	}
	return Language{}, false
}

// ValidateNewLanguage checks a language about to be added to s.
func (s LanguageSettings) ValidateNewLanguage(code, name string) error {
	v := &ValidationError{}
	if code == "" || strings.TrimSpace(name) == "" {
		v.Add("code", "Both language code and name are required")
		return v
	}
	if _, err := language.Parse(code); err != nil {
		v.Add("code", "Invalid language code")
		return v
	}
	if s.Find(code) >= 0 {
		v.Add("code", "Language code already exists")
	}
	return v.Err()
}

// IsValidTranslationService reports whether service is supported.
func IsValidTranslationService(service string) bool {
	switch service {
	case TranslationServiceGoogle, TranslationServiceDeepL, TranslationServiceMicrosoft:
		return true
	}
	return false
}

// CheckLanguageSettings verifies stored language settings: codes parse,
// codes are unique, and at most one language is the default.
func CheckLanguageSettings(s LanguageSettings) error {
	v := &ValidationError{}
	seen := make(map[string]bool, len(s.Languages))
	defaults := 0
	for _, l := range s.Languages {
		if _, err := language.Parse(l.Code); err != nil {
			v.Add("languages", "invalid language code "+l.Code)
		}
		if seen[l.Code] {
			v.Add("languages", "duplicate language code "+l.Code)
		}
		seen[l.Code] = true
		if l.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		v.Add("languages", "more than one default language")
	}
	return v.Err()
}
