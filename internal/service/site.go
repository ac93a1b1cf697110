// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service resolves what the public site renders from the content
// repositories. Every call reads the repositories again, so admin edits are
// visible on the next request.
package service

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/i18n"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/seo"
)

// ErrNotFound is returned when no published post or page matches a slug.
var ErrNotFound = content.ErrNotFound

// PostView is a blog post ready for template rendering.
type PostView struct {
	model.BlogPost
	Body template.HTML
	Meta seo.Meta
}

// PageView is a custom page ready for template rendering.
type PageView struct {
	model.Page
	Body template.HTML
	Meta seo.Meta
}

// AdSlot is the rendered ad for one location. Code is empty when no
// enabled unit is placed there.
type AdSlot struct {
	Location model.Location
	Code     template.HTML
}

// SiteOptions configures a SiteService.
type SiteOptions struct {
	// SiteURL is the public base URL used for canonical links.
	SiteURL string
	// SanitizeHTML passes post and page bodies through a UGC policy.
	// Ad code is always rendered as stored.
	SanitizeHTML bool
	// Markdown renders post and page bodies as Markdown. Inline HTML is
	// kept, so HTML bodies render unchanged.
	Markdown bool
	// Languages supplies the site languages pages are negotiated against.
	// Pages are served in English when nil.
	Languages content.LanguageStore
	// Contact supplies the public contact form. The stock form is used
	// when nil.
	Contact content.ContactStore
}

// SiteService resolves posts, pages, ads and metadata for public rendering.
type SiteService struct {
	pages     content.PageStore
	posts     content.PostStore
	ads       content.AdStore
	seo       content.SeoStore
	languages content.LanguageStore
	contact   content.ContactStore
	siteURL   string
	sanitizer *bluemonday.Policy
	markdown  goldmark.Markdown
}

// NewSiteService creates a SiteService over the given repositories.
func NewSiteService(pages content.PageStore, posts content.PostStore, ads content.AdStore, seoStore content.SeoStore, opts SiteOptions) *SiteService {
	s := &SiteService{
		pages:     pages,
		posts:     posts,
		ads:       ads,
		seo:       seoStore,
		languages: opts.Languages,
		contact:   opts.Contact,
		siteURL:   opts.SiteURL,
	}
	if opts.Markdown {
		s.markdown = goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	if opts.SanitizeHTML {
		s.sanitizer = bluemonday.UGCPolicy()
		s.sanitizer.AllowElements("figure", "figcaption")
		s.sanitizer.RequireNoFollowOnLinks(true)
	}
	return s
}

// SiteConfig returns the current SEO settings paired with the base URL.
func (s *SiteService) SiteConfig(ctx context.Context) seo.SiteConfig {
	return seo.SiteConfig{SiteURL: s.siteURL, Settings: s.seo.Get(ctx)}
}

// Language returns the code of the site language a page is served in for
// preferred, usually the Accept-Language header.
func (s *SiteService) Language(ctx context.Context, preferred string) string {
	if s.languages == nil {
		return i18n.FallbackLanguage
	}
	return i18n.Negotiate(preferred, s.languages.Get(ctx))
}

// body converts stored HTML into template HTML. Content is authored by
// trusted admins and is injected verbatim unless sanitizing is enabled.
func (s *SiteService) body(raw string) template.HTML {
	if s.markdown != nil {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(raw), &buf); err != nil {
			slog.Warn("markdown conversion failed, rendering raw body", "error", err)
		} else {
			raw = buf.String()
		}
	}
	if s.sanitizer != nil {
		raw = s.sanitizer.Sanitize(raw)
	}
	return template.HTML(raw)
}

// PublishedPosts returns published posts, newest first.
func (s *SiteService) PublishedPosts(ctx context.Context) []PostView {
	site := s.SiteConfig(ctx)
	posts := s.posts.Published(ctx)
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{BlogPost: p, Body: s.body(p.Content), Meta: seo.PostMeta(p, site)})
	}
	return views
}

// Post returns the published post with slug. Drafts are never returned.
func (s *SiteService) Post(ctx context.Context, slug string) (PostView, error) {
	for _, p := range s.posts.Published(ctx) {
		if p.Slug == slug {
			return PostView{BlogPost: p, Body: s.body(p.Content), Meta: seo.PostMeta(p, s.SiteConfig(ctx))}, nil
		}
	}
	return PostView{}, ErrNotFound
}

// Page returns the custom page with slug.
func (s *SiteService) Page(ctx context.Context, slug string) (PageView, error) {
	page, err := s.pages.GetBySlug(ctx, slug)
	if err != nil {
		return PageView{}, ErrNotFound
	}
	return PageView{Page: page, Body: s.body(page.Content), Meta: seo.PageMeta(page, s.SiteConfig(ctx))}, nil
}

// Pages returns all custom pages, for navigation and the sitemap.
func (s *SiteService) Pages(ctx context.Context) []model.Page {
	return s.pages.GetAll(ctx)
}

// Ad returns the code of the first enabled unit at location, or "" when
// nothing should render there.
func (s *SiteService) Ad(ctx context.Context, location model.Location) template.HTML {
	units := s.ads.ForLocation(ctx, location)
	if len(units) == 0 {
		return ""
	}
	return template.HTML(units[0].Code)
}

// AdSlots returns one slot per location, in page order.
func (s *SiteService) AdSlots(ctx context.Context) map[model.Location]AdSlot {
	slots := make(map[model.Location]AdSlot, len(model.Locations()))
	for _, loc := range model.Locations() {
		slots[loc] = AdSlot{Location: loc}
	}
	for _, u := range s.ads.GetAll(ctx) {
		slot, ok := slots[u.Location]
		if !ok || !u.Enabled || slot.Code != "" {
			continue
		}
		slot.Code = template.HTML(u.Code)
		slots[u.Location] = slot
	}
	return slots
}

// HomeMeta returns the landing page metadata.
func (s *SiteService) HomeMeta(ctx context.Context) seo.Meta {
	return seo.HomeMeta(s.SiteConfig(ctx))
}

// BlogMeta returns the blog index metadata.
func (s *SiteService) BlogMeta(ctx context.Context) seo.Meta {
	return seo.BlogMeta(s.SiteConfig(ctx))
}

// NotFoundMeta returns metadata for the not-found page.
func (s *SiteService) NotFoundMeta(ctx context.Context) seo.Meta {
	return seo.NotFoundMeta(s.SiteConfig(ctx))
}

// Sitemap renders sitemap.xml for the published content.
func (s *SiteService) Sitemap(ctx context.Context) ([]byte, error) {
	return seo.GenerateSitemap(s.siteURL, s.posts.Published(ctx), s.pages.GetAll(ctx))
}
