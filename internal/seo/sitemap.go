// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder builds sitemap XML from site content.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the landing page and the blog index.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/blog", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
	)
}

// AddPost adds a blog post. Drafts are skipped.
func (b *SitemapBuilder) AddPost(post model.BlogPost) {
	if !post.IsPublished() {
		return
	}
	lastMod := post.PublishDate
	if post.LastModified != nil {
		lastMod = *post.LastModified
	}
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/blog/" + post.Slug,
		LastMod:    formatLastMod(lastMod),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	})
}

// AddPage adds a custom page.
func (b *SitemapBuilder) AddPage(page model.Page) {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/page/" + page.Slug,
		LastMod:    formatLastMod(page.CreatedAt),
		ChangeFreq: ChangeFreqMonthly,
		Priority:   "0.6",
	})
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds a sitemap of the landing page, published posts and pages.
func GenerateSitemap(siteURL string, posts []model.BlogPost, pages []model.Page) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	for _, p := range posts {
		builder.AddPost(p)
	}
	for _, p := range pages {
		builder.AddPage(p)
	}
	return builder.Build()
}

func formatLastMod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
