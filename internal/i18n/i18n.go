// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n picks the language a public page is served in from the
// languages enabled in the admin console.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/olegiv/instaview-go/internal/model"
)

// FallbackLanguage is used when no language is configured at all.
const FallbackLanguage = "en"

// Negotiate returns the code of the active language that best matches
// preferred, an Accept-Language header or a single language code. The
// default language is returned when nothing matches.
func Negotiate(preferred string, settings model.LanguageSettings) string {
	codes := candidates(settings)
	if len(codes) == 0 {
		return FallbackLanguage
	}

	tags := make([]language.Tag, 0, len(codes))
	for _, c := range codes {
		tags = append(tags, language.Make(c))
	}

	wanted, _, err := language.ParseAcceptLanguage(preferred)
	if err != nil || len(wanted) == 0 {
		tag, err := language.Parse(preferred)
		if err != nil {
			return codes[0]
		}
		wanted = []language.Tag{tag}
	}

	_, idx, confidence := language.NewMatcher(tags).Match(wanted...)
	if confidence == language.No || idx < 0 || idx >= len(codes) {
		return codes[0]
	}
	return codes[idx]
}

// candidates lists the active language codes with the default first.
func candidates(settings model.LanguageSettings) []string {
	codes := make([]string, 0, len(settings.Languages))
	if def, ok := settings.Default(); ok && def.Active {
		codes = append(codes, def.Code)
	}
	for _, l := range settings.Languages {
		if l.Active && !l.IsDefault {
			codes = append(codes, l.Code)
		}
	}
	return codes
}
