// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and input format checks.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// whitespaceRegex matches runs of whitespace
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// nonWordRegex matches characters that are neither word characters nor hyphens
	nonWordRegex = regexp.MustCompile(`[^\w-]+`)
	// pageSlugRegex matches characters not allowed in a page slug
	pageSlugRegex = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// toASCII strips accents and transliterates the remaining non-ASCII runes.
func toASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return unidecode.Unidecode(result)
}

// Slugify derives a blog post slug from a title.
// Whitespace becomes "-", "&" becomes "-and-", other non-word characters are
// dropped and repeated hyphens collapse. The result is idempotent:
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	result := strings.ToLower(strings.TrimSpace(toASCII(s)))
	result = whitespaceRegex.ReplaceAllString(result, "-")
	result = strings.ReplaceAll(result, "&", "-and-")
	result = nonWordRegex.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// NormalizeSlug normalizes an admin-entered page slug: lowercase ASCII
// letters, digits and single hyphens, with no leading or trailing hyphen.
func NormalizeSlug(s string) string {
	result := strings.ToLower(toASCII(s))
	result = pageSlugRegex.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// DeriveSlug returns the slug a post should carry after its title changes
// from previousTitle to newTitle. A slug that is empty or still equal to
// Slugify(previousTitle) follows the title; anything else was edited by hand
// and is kept.
func DeriveSlug(currentSlug, previousTitle, newTitle string) string {
	if currentSlug == "" || currentSlug == Slugify(previousTitle) {
		return Slugify(newTitle)
	}
	return currentSlug
}

// IsValidPostSlug reports whether s is a blog post slug in Slugify form.
// Leading and trailing hyphens are tolerated so stored slugs such as
// "tips-and-" stay valid when their post is edited.
func IsValidPostSlug(s string) bool {
	core := strings.Trim(s, "-")
	return core != "" && Slugify(core) == core
}

// IsValidSlug checks if a string is a valid page slug.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Check if it only contains lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// Check that it doesn't start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
