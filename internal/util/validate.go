// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net/mail"
	"net/url"
	"strings"
)

// MaxURLLength is the maximum accepted length for configured URLs.
const MaxURLLength = 2048

// IsValidHTTPURL reports whether s is an absolute http or https URL with a host.
func IsValidHTTPURL(s string) bool {
	if s == "" || len(s) > MaxURLLength {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidAssetURL reports whether s can be used as an image or icon reference:
// either an absolute http(s) URL or a site-relative path such as /favicon.ico.
func IsValidAssetURL(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return len(s) <= MaxURLLength && !strings.ContainsAny(s, " \t\r\n\\")
	}
	return IsValidHTTPURL(s)
}

// IsValidEmail reports whether s is a bare email address.
func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && addr.Name == ""
}
