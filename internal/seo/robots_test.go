// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
)

func TestGenerateRobots(t *testing.T) {
	got := GenerateRobots(RobotsConfig{SiteURL: "https://instaview.example/"})

	for _, want := range []string{
		"User-agent: *\n",
		"Disallow: /admin\n",
		"Disallow: /api\n",
		"Allow: /\n",
		"Sitemap: https://instaview.example/sitemap.xml\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateRobotsDisallowAll(t *testing.T) {
	got := GenerateRobots(RobotsConfig{SiteURL: "https://instaview.example", DisallowAll: true})

	if got != "User-agent: *\nDisallow: /\n" {
		t.Errorf("robots.txt = %q", got)
	}
}

func TestGenerateRobotsExtraPaths(t *testing.T) {
	got := GenerateRobots(RobotsConfig{DisallowPaths: []string{"/drafts"}})

	if !strings.Contains(got, "Disallow: /drafts\n") {
		t.Errorf("extra path missing:\n%s", got)
	}
	if strings.Contains(got, "Sitemap:") {
		t.Error("sitemap line written without a site URL")
	}
}
