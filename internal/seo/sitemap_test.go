// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"

	"github.com/olegiv/instaview-go/internal/model"
)

func TestGenerateSitemap(t *testing.T) {
	modified := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	posts := []model.BlogPost{
		{Slug: "live", Status: model.PostStatusPublished, PublishDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), LastModified: &modified},
		{Slug: "hidden", Status: model.PostStatusDraft},
	}
	pages := []model.Page{
		{Slug: "about", CreatedAt: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC)},
	}

	data, err := GenerateSitemap("https://instaview.example/", posts, pages)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}
	xml := string(data)

	if !strings.HasPrefix(xml, "<?xml") {
		t.Error("missing XML header")
	}
	for _, want := range []string{
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		"<loc>https://instaview.example/</loc>",
		"<loc>https://instaview.example/blog</loc>",
		"<loc>https://instaview.example/blog/live</loc>",
		"<lastmod>2024-03-01T00:00:00Z</lastmod>",
		"<loc>https://instaview.example/page/about</loc>",
		"<lastmod>2023-05-05T00:00:00Z</lastmod>",
	} {
		if !strings.Contains(xml, want) {
			t.Errorf("sitemap missing %s", want)
		}
	}
	if strings.Contains(xml, "hidden") {
		t.Error("draft post listed in sitemap")
	}
}

func TestSitemapBuilderEmpty(t *testing.T) {
	b := NewSitemapBuilder("https://instaview.example")
	if len(b.urls) != 0 {
		t.Fatalf("urls length = %d, want 0", len(b.urls))
	}
	b.AddHomepage()
	if len(b.urls) != 2 {
		t.Errorf("urls after AddHomepage = %d, want 2", len(b.urls))
	}
	if b.urls[0].Priority != "1.0" || b.urls[0].ChangeFreq != ChangeFreqDaily {
		t.Errorf("homepage entry = %+v", b.urls[0])
	}
}
