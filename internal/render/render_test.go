// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/seo"
	"github.com/olegiv/instaview-go/internal/service"
	"github.com/olegiv/instaview-go/web"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	r, err := New(templatesFS)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestNewParsesAllPages(t *testing.T) {
	r := testRenderer(t)
	for _, name := range []string{PageHome, PageBlog, PagePost, PageCustom, PageNotFound} {
		if _, ok := r.pages[name]; !ok {
			t.Errorf("page %q not parsed", name)
		}
	}
}

func TestRenderHomeWithAdSlots(t *testing.T) {
	r := testRenderer(t)
	slots := map[model.Location]service.AdSlot{}
	for _, loc := range model.Locations() {
		slots[loc] = service.AdSlot{Location: loc}
	}
	slots[model.LocationAfterFeatures] = service.AdSlot{
		Location: model.LocationAfterFeatures,
		Code:     template.HTML(`<script>window.adsLoaded = true;</script>`),
	}

	rec := httptest.NewRecorder()
	err := r.Render(rec, http.StatusOK, PageHome, PageData{
		Meta: seo.Meta{Title: "InstaView", Description: "View stories", OGType: "website", TwitterCard: "summary"},
		Site: model.SeoSettings{Title: "InstaView"},
		Ads:  AdSlots(slots),
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>InstaView</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(body, `<script>window.adsLoaded = true;</script>`) {
		t.Error("ad code should render verbatim")
	}
	if n := strings.Count(body, `class="ad-slot"`); n != 1 {
		t.Errorf("rendered %d ad slots, want 1", n)
	}
	if !strings.Contains(body, "&copy; 2026 InstaView") {
		t.Error("missing footer year")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderPostBodyIsTrusted(t *testing.T) {
	r := testRenderer(t)
	post := service.PostView{
		BlogPost: model.BlogPost{Title: "Privacy Tips", Slug: "privacy-tips", Author: "Admin", PublishDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)},
		Body:     template.HTML("<h2>Stay safe</h2>"),
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, http.StatusOK, PagePost, PageData{Meta: seo.Meta{Title: post.Title}, Post: &post}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2>Stay safe</h2>") {
		t.Error("post body should be injected as HTML")
	}
	if !strings.Contains(body, "Apr 2, 2026") {
		t.Error("missing formatted publish date")
	}
}

func TestRenderEscapesPlainFields(t *testing.T) {
	r := testRenderer(t)
	page := service.PageView{Page: model.Page{Title: "<b>About</b>", Slug: "about"}, Body: "ok"}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, http.StatusOK, PageCustom, PageData{Page: &page}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(rec.Body.String(), "<h1><b>About</b></h1>") {
		t.Error("page title must be escaped")
	}
}

func TestRenderNotFoundStatus(t *testing.T) {
	r := testRenderer(t)
	rec := httptest.NewRecorder()
	if err := r.Render(rec, http.StatusNotFound, PageNotFound, PageData{Meta: seo.Meta{Robots: "noindex,nofollow"}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `content="noindex,nofollow"`) {
		t.Error("missing robots meta")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := testRenderer(t)
	if err := r.Render(httptest.NewRecorder(), http.StatusOK, "missing", PageData{}); err == nil {
		t.Error("Render should fail for an unknown template")
	}
}

func TestRenderAd(t *testing.T) {
	r := testRenderer(t)

	rec := httptest.NewRecorder()
	if err := r.RenderAd(rec, service.AdSlot{Location: model.LocationAfterFAQ, Code: "<ins>ad</ins>"}); err != nil {
		t.Fatalf("RenderAd: %v", err)
	}
	want := `<div class="ad-slot" data-location="After FAQ"><ins>ad</ins></div>`
	if got := rec.Body.String(); got != want {
		t.Errorf("RenderAd = %q, want %q", got, want)
	}

	rec = httptest.NewRecorder()
	if err := r.RenderAd(rec, service.AdSlot{Location: model.LocationAfterFAQ}); err != nil {
		t.Fatalf("RenderAd: %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("empty slot rendered %q", rec.Body.String())
	}
}
