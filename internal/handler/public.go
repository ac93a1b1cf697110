// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/instaview-go/internal/fetcher"
	"github.com/olegiv/instaview-go/internal/logging"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/render"
	"github.com/olegiv/instaview-go/internal/seo"
	"github.com/olegiv/instaview-go/internal/service"
)

// PublicHandler serves the public site pages and the content fetch endpoint.
type PublicHandler struct {
	site     *service.SiteService
	renderer *render.Renderer
	fetcher  fetcher.ContentFetcher
	robots   seo.RobotsConfig
}

// NewPublicHandler creates a new public handler.
func NewPublicHandler(site *service.SiteService, renderer *render.Renderer, f fetcher.ContentFetcher, robots seo.RobotsConfig) *PublicHandler {
	return &PublicHandler{
		site:     site,
		renderer: renderer,
		fetcher:  f,
		robots:   robots,
	}
}

// pageData fills the fields every page template needs.
func (h *PublicHandler) pageData(r *http.Request, meta seo.Meta) render.PageData {
	ctx := r.Context()
	return render.PageData{
		Lang:  h.site.Language(ctx, r.Header.Get("Accept-Language")),
		Meta:  meta,
		Site:  h.site.SiteConfig(ctx).Settings,
		Pages: h.site.Pages(ctx),
	}
}

func (h *PublicHandler) render(w http.ResponseWriter, status int, name string, data render.PageData) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, h.site.HomeMeta(r.Context()))
	data.Ads = render.AdSlots(h.site.AdSlots(r.Context()))
	h.render(w, http.StatusOK, render.PageHome, data)
}

// Blog handles GET /blog.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, h.site.BlogMeta(r.Context()))
	data.Posts = h.site.PublishedPosts(r.Context())
	h.render(w, http.StatusOK, render.PageBlog, data)
}

// Post handles GET /blog/{slug}.
func (h *PublicHandler) Post(w http.ResponseWriter, r *http.Request) {
	post, err := h.site.Post(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	data := h.pageData(r, post.Meta)
	data.Post = &post
	h.render(w, http.StatusOK, render.PagePost, data)
}

// Page handles GET /page/{slug}.
func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.site.Page(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.NotFound(w, r)
		return
	}
	data := h.pageData(r, page.Meta)
	data.Page = &page
	h.render(w, http.StatusOK, render.PageCustom, data)
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, render.PageNotFound, h.pageData(r, h.site.NotFoundMeta(r.Context())))
}

// Ad handles GET /ads/{location}. It writes 204 when nothing is placed there.
func (h *PublicHandler) Ad(w http.ResponseWriter, r *http.Request) {
	loc := model.Location(chi.URLParam(r, "location"))
	if !loc.IsValid() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	code := h.site.Ad(r.Context(), loc)
	if code == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := h.renderer.RenderAd(w, service.AdSlot{Location: loc, Code: code}); err != nil {
		slog.Error("render ad failed", "location", loc, "error", err)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *PublicHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	data, err := h.site.Sitemap(r.Context())
	if err != nil {
		slog.Error("sitemap generation failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *PublicHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.robots)))
}

// Favicon handles GET /favicon.ico by redirecting to the configured favicon.
func (h *PublicHandler) Favicon(w http.ResponseWriter, r *http.Request) {
	favicon := h.site.SiteConfig(r.Context()).Settings.Favicon
	if favicon == "" || favicon == "/favicon.ico" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, favicon, http.StatusFound)
}

// maxContactFormSize limits the body of POST /contact.
const maxContactFormSize = 64 << 10

// Contact handles GET /contact.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	form := h.site.ContactForm(r.Context())
	data := h.pageData(r, h.site.ContactMeta(r.Context()))
	data.Contact = &form
	h.render(w, http.StatusOK, render.PageContact, data)
}

// SubmitContact handles POST /contact. A rejected submission re-renders the
// form with its errors and a 422.
func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactFormSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	values := make(map[string]string, len(r.PostForm))
	for name := range r.PostForm {
		values[name] = r.PostForm.Get(name)
	}

	status := http.StatusOK
	form, err := h.site.SubmitContact(r.Context(), values)
	if err != nil {
		if _, ok := model.AsValidationError(err); !ok {
			slog.Error("contact submission failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		status = http.StatusUnprocessableEntity
	}

	data := h.pageData(r, h.site.ContactMeta(r.Context()))
	data.Contact = &form
	h.render(w, status, render.PageContact, data)
}

// fetchRequest is the body of POST /api/instagram.
type fetchRequest struct {
	Endpoint string `json:"endpoint"`
	Username string `json:"username"`
}

// Fetch handles POST /api/instagram.
func (h *PublicHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	data, err := h.fetcher.Fetch(r.Context(), fetcher.Endpoint(req.Endpoint), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, fetcher.ErrInvalidEndpoint):
			writeJSONError(w, http.StatusBadRequest, "invalid_endpoint", "Unknown endpoint")
		case errors.Is(err, fetcher.ErrInvalidUsername):
			writeJSONError(w, http.StatusBadRequest, "invalid_username", "Invalid Instagram username")
		case r.Context().Err() != nil:
			writeJSONError(w, http.StatusGatewayTimeout, "fetch_cancelled", "Request cancelled")
		default:
			slog.Warn("content fetch failed",
				"category", logging.EventCategoryFetch,
				"endpoint", req.Endpoint,
				"username", req.Username,
				"error", err)
			writeJSONError(w, http.StatusBadGateway, "fetch_failed", "Could not fetch content")
		}
		return
	}
	writeData(w, http.StatusOK, data)
}
