// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/instaview-go/internal/model"
)

func ptr[T any](v T) *T {
	return &v
}

func TestHome_RendersAdSlots(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.repos.Ads.Update(ctx, "3", model.AdUnitPatch{Code: ptr(`<div id="features-ad"></div>`)})
	require.NoError(t, err)
	_, err = app.repos.Ads.Update(ctx, "5", model.AdUnitPatch{Code: ptr(`<div id="faq-ad"></div>`)})
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<div id="features-ad"></div>`)
	assert.Contains(t, body, `<div id="faq-ad"></div>`)
	assert.Contains(t, body, "<title>InstaView - Anonymous Instagram Stories Viewer</title>")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHome_DisabledUnitEmptiesOnlyItsSlot(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	_, err := app.repos.Ads.Update(ctx, "3", model.AdUnitPatch{Code: ptr(`<div id="features-ad"></div>`)})
	require.NoError(t, err)
	_, err = app.repos.Ads.Update(ctx, "5", model.AdUnitPatch{Code: ptr(`<div id="faq-ad"></div>`)})
	require.NoError(t, err)
	_, err = app.repos.Ads.Toggle(ctx, "5")
	require.NoError(t, err)

	body := app.do(http.MethodGet, "/", nil).Body.String()
	assert.NotContains(t, body, "faq-ad")
	assert.Contains(t, body, "features-ad")

	assert.Equal(t, http.StatusNoContent, app.do(http.MethodGet, "/ads/After%20FAQ", nil).Code)

	rec := app.do(http.MethodGet, "/ads/After%20Features", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-location="After Features"`)
	assert.Contains(t, rec.Body.String(), `<div id="features-ad"></div>`)
}

func TestAd_UnknownLocation(t *testing.T) {
	app := newTestApp(t)
	assert.Equal(t, http.StatusNoContent, app.do(http.MethodGet, "/ads/Sidebar", nil).Code)
}

func TestBlog_ListsOnlyPublishedPosts(t *testing.T) {
	app := newTestApp(t)
	_, err := app.repos.Posts.Save(context.Background(), model.BlogPost{
		Title:   "Unfinished Draft",
		Content: "<p>wip</p>",
		Author:  "Admin",
		Status:  model.PostStatusDraft,
	})
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/blog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "How to View Instagram Stories Anonymously")
	assert.Contains(t, body, "Instagram Privacy Features You Should Know About")
	assert.NotContains(t, body, "Unfinished Draft")

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/blog/unfinished-draft", nil).Code)
}

func TestPost(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/blog/instagram-privacy-features", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h2>Key Privacy Features</h2>")
	assert.Contains(t, body, `<link rel="canonical" href="`+testSiteURL+`/blog/instagram-privacy-features">`)

	rec = app.do(http.MethodGet, "/blog/no-such-post", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestCustomPage(t *testing.T) {
	app := newTestApp(t)
	page, err := app.repos.Pages.Save(context.Background(), model.Page{
		Title:   "Privacy Tips",
		Content: "<p>Keep your account private.</p>",
	})
	require.NoError(t, err)
	require.Equal(t, "privacy-tips", page.Slug)

	rec := app.do(http.MethodGet, "/page/privacy-tips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<p>Keep your account private.</p>")
	assert.Contains(t, rec.Body.String(), `href="/page/privacy-tips"`)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/page/missing", nil).Code)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/does/not/exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestTrailingSlashRedirect(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/blog/", nil)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog", rec.Header().Get("Location"))
}

func TestSitemapAndRobots(t *testing.T) {
	app := newTestApp(t)
	_, err := app.repos.Pages.Save(context.Background(), model.Page{Title: "About", Content: "<p>about</p>"})
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), testSiteURL+"/blog/instagram-privacy-features")
	assert.Contains(t, rec.Body.String(), testSiteURL+"/page/about")

	rec = app.do(http.MethodGet, "/robots.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Disallow: /admin\n")
	assert.Contains(t, rec.Body.String(), "Sitemap: "+testSiteURL+"/sitemap.xml")
}

func TestFavicon(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/favicon.ico", nil).Code)

	_, err := app.repos.Seo.Update(context.Background(), model.SeoSettingsPatch{Favicon: ptr("https://cdn.example/icon.png")})
	require.NoError(t, err)

	rec := app.do(http.MethodGet, "/favicon.ico", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://cdn.example/icon.png", rec.Header().Get("Location"))
}

func TestStaticFiles(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(http.MethodGet, "/static/site.css", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=604800", rec.Header().Get("Cache-Control"))
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		upstream error
		wantCode int
		wantErr  string
	}{
		{
			name:     "stories",
			body:     map[string]string{"endpoint": "stories", "username": "natgeo"},
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown endpoint",
			body:     map[string]string{"endpoint": "followers", "username": "natgeo"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_endpoint",
		},
		{
			name:     "invalid username",
			body:     map[string]string{"endpoint": "stories", "username": "not a user!"},
			wantCode: http.StatusBadRequest,
			wantErr:  "invalid_username",
		},
		{
			name:     "malformed body",
			body:     "{not json",
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
		{
			name:     "upstream failure",
			body:     map[string]string{"endpoint": "posts", "username": "natgeo"},
			upstream: errors.New("connection refused"),
			wantCode: http.StatusBadGateway,
			wantErr:  "fetch_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			app.fetcher.err = tt.upstream

			rec := app.do(http.MethodPost, "/api/instagram", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, decodeError(t, rec).Error.Code)
				return
			}
			var data map[string][]any
			decodeData(t, rec, &data)
			assert.Contains(t, data, "stories")
		})
	}
}

func TestHome_NegotiatesLanguage(t *testing.T) {
	app := newTestApp(t)

	rec := app.doWithHeaders(http.MethodGet, "/", nil, map[string]string{"Accept-Language": "es-MX,es;q=0.9,en;q=0.5"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="es">`)

	rec = app.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<html lang="en">`)
}
