// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds head metadata, structured data, the sitemap and
// robots.txt for the public site.
package seo

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/olegiv/instaview-go/internal/model"
)

// Meta holds all SEO meta tag data for a page.
type Meta struct {
	Title         string // Page title (for <title> tag)
	Description   string // Meta description
	Keywords      string // Meta keywords
	Favicon       string // Icon link href
	Logo          string // Site logo, may be empty
	Canonical     string // Canonical URL
	OGTitle       string // Open Graph title
	OGDescription string // Open Graph description
	OGImage       string // Open Graph image URL (absolute)
	OGType        string // Open Graph type (website, article)
	OGSiteName    string // Open Graph site name
	OGURL         string // Open Graph URL
	Robots        string // Robots directive
	TwitterCard   string // Twitter card type
	JSONLD        template.JS
}

// SiteConfig combines the stored SEO settings with the public base URL.
type SiteConfig struct {
	SiteURL  string
	Settings model.SeoSettings
}

func (c SiteConfig) base() Meta {
	return Meta{
		Title:         c.Settings.Title,
		Description:   c.Settings.Description,
		Keywords:      c.Settings.Keywords,
		Favicon:       c.Settings.Favicon,
		Logo:          c.Settings.Logo,
		OGTitle:       c.Settings.Title,
		OGDescription: c.Settings.Description,
		OGType:        "website",
		OGSiteName:    c.Settings.Title,
		Robots:        "index,follow",
		TwitterCard:   "summary_large_image",
	}
}

// HomeMeta returns the metadata of the landing page.
func HomeMeta(site SiteConfig) Meta {
	meta := site.base()
	meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/"
	meta.OGURL = meta.Canonical
	if site.Settings.Logo != "" {
		meta.OGImage = makeAbsoluteURL(site.Settings.Logo, site.SiteURL)
	}
	meta.JSONLD = marshalJSONLD(WebSiteSchema{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        site.Settings.Title,
		URL:         meta.Canonical,
		Description: site.Settings.Description,
	})
	return meta
}

// BlogMeta returns the metadata of the blog index.
func BlogMeta(site SiteConfig) Meta {
	meta := site.base()
	meta.Title = "Blog | " + site.Settings.Title
	meta.OGTitle = meta.Title
	meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/blog"
	meta.OGURL = meta.Canonical
	return meta
}

// PostMeta returns the metadata of a blog post page.
func PostMeta(post model.BlogPost, site SiteConfig) Meta {
	meta := site.base()
	meta.Title = post.Title + " | InstaView Blog"
	meta.OGTitle = post.Title
	meta.OGType = "article"

	if post.Excerpt != "" {
		meta.Description = post.Excerpt
	} else if post.Content != "" {
		meta.Description = truncateText(stripHTML(post.Content), 160)
	}
	meta.OGDescription = meta.Description
	if len(post.Keywords) > 0 {
		meta.Keywords = strings.Join(post.Keywords, ", ")
	}
	if post.FeaturedImage != "" {
		meta.OGImage = makeAbsoluteURL(post.FeaturedImage, site.SiteURL)
	}

	meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/blog/" + post.Slug
	meta.OGURL = meta.Canonical
	meta.JSONLD = BuildArticleSchema(post, site)
	return meta
}

// PageMeta returns the metadata of a custom page.
func PageMeta(page model.Page, site SiteConfig) Meta {
	meta := site.base()
	meta.Title = page.Title + " | " + site.Settings.Title
	meta.OGTitle = page.Title
	if desc := truncateText(stripHTML(page.Content), 160); desc != "" {
		meta.Description = desc
		meta.OGDescription = desc
	}
	meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/page/" + page.Slug
	meta.OGURL = meta.Canonical
	return meta
}

// ContactMeta returns the metadata of the contact page.
func ContactMeta(site SiteConfig) Meta {
	meta := site.base()
	meta.Title = "Contact Us | " + site.Settings.Title
	meta.OGTitle = meta.Title
	meta.Canonical = strings.TrimSuffix(site.SiteURL, "/") + "/contact"
	meta.OGURL = meta.Canonical
	return meta
}

// NotFoundMeta returns metadata for a missing post or page.
func NotFoundMeta(site SiteConfig) Meta {
	meta := site.base()
	meta.Title = "Not Found | " + site.Settings.Title
	meta.OGTitle = meta.Title
	meta.Robots = "noindex,nofollow"
	return meta
}

// ArticleSchema represents JSON-LD BlogPosting structured data.
type ArticleSchema struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Image            string        `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	Keywords         string        `json:"keywords,omitempty"`
	Author           *PersonSchema `json:"author,omitempty"`
	Publisher        *OrgSchema    `json:"publisher,omitempty"`
	MainEntityOfPage string        `json:"mainEntityOfPage,omitempty"`
}

// PersonSchema represents JSON-LD Person structured data.
type PersonSchema struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// OrgSchema represents JSON-LD Organization structured data.
type OrgSchema struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	Logo *ImageSchema `json:"logo,omitempty"`
}

// ImageSchema represents JSON-LD ImageObject structured data.
type ImageSchema struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// WebSiteSchema represents JSON-LD WebSite structured data for the homepage.
type WebSiteSchema struct {
	Context     string `json:"@context"`
	Type        string `json:"@type"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// BuildArticleSchema creates JSON-LD BlogPosting structured data for a post.
func BuildArticleSchema(post model.BlogPost, site SiteConfig) template.JS {
	article := ArticleSchema{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         post.Title,
		Description:      post.Excerpt,
		Keywords:         strings.Join(post.Keywords, ", "),
		MainEntityOfPage: strings.TrimSuffix(site.SiteURL, "/") + "/blog/" + post.Slug,
	}

	if post.FeaturedImage != "" {
		article.Image = makeAbsoluteURL(post.FeaturedImage, site.SiteURL)
	}
	if !post.PublishDate.IsZero() {
		article.DatePublished = post.PublishDate.Format(time.RFC3339)
	}
	if post.LastModified != nil {
		article.DateModified = post.LastModified.Format(time.RFC3339)
	}
	if post.Author != "" {
		article.Author = &PersonSchema{Type: "Person", Name: post.Author}
	}

	article.Publisher = &OrgSchema{Type: "Organization", Name: site.Settings.Title}
	if site.Settings.Logo != "" {
		article.Publisher.Logo = &ImageSchema{
			Type: "ImageObject",
			URL:  makeAbsoluteURL(site.Settings.Logo, site.SiteURL),
		}
	}

	return marshalJSONLD(article)
}

// marshalJSONLD marshals structured data to JSON-LD script tag content.
func marshalJSONLD(v any) template.JS {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return template.JS(data)
}

// stripHTML removes HTML tags from a string.
func stripHTML(html string) string {
	var result strings.Builder
	inTag := false
	for _, r := range html {
		if r == '<' {
			inTag = true
			continue
		}
		if r == '>' {
			inTag = false
			result.WriteRune(' ')
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}

// truncateText truncates text to maxLen bytes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(truncated) + "..."
}

// makeAbsoluteURL ensures a URL is absolute by prepending site URL if needed.
func makeAbsoluteURL(url, siteURL string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	siteURL = strings.TrimSuffix(siteURL, "/")
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return siteURL + url
}
