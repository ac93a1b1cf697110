// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/instaview-go/internal/auth"
	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/logging"
	"github.com/olegiv/instaview-go/internal/middleware"
	"github.com/olegiv/instaview-go/internal/model"
	"github.com/olegiv/instaview-go/internal/session"
	"github.com/olegiv/instaview-go/internal/transfer"
	"github.com/olegiv/instaview-go/internal/util"
)

const (
	// defaultEventLimit is the number of events returned when no limit is given.
	defaultEventLimit = 50
	// maxImportSize caps content import bodies.
	maxImportSize = 10 << 20
)

// AdminHandler serves the admin login and the admin JSON API.
type AdminHandler struct {
	repos      *content.Repositories
	sm         *scs.SessionManager
	creds      *auth.Credentials
	protection *middleware.LoginProtection
	events     *logging.EventLog
	exporter   *transfer.Exporter
	importer   *transfer.Importer
}

// NewAdminHandler creates a new admin handler. A nil creds disables login.
// siteURL is recorded in content exports.
func NewAdminHandler(repos *content.Repositories, sm *scs.SessionManager, creds *auth.Credentials, protection *middleware.LoginProtection, events *logging.EventLog, siteURL string) *AdminHandler {
	return &AdminHandler{
		repos:      repos,
		sm:         sm,
		creds:      creds,
		protection: protection,
		events:     events,
		exporter:   transfer.NewExporter(repos, siteURL, slog.Default()),
		importer:   transfer.NewImporter(repos, slog.Default()),
	}
}

// loginRequest is the body of POST /admin/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.creds == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "admin_disabled", "Admin login is not configured")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.protection != nil {
		if locked, remaining := h.protection.IsAccountLocked(req.Username); locked {
			w.Header().Set("Retry-After", strconv.Itoa(int(remaining.Seconds())+1))
			writeJSONError(w, http.StatusTooManyRequests, "account_locked", "Too many failed attempts. Try again later.")
			return
		}
	}

	if !h.creds.Verify(req.Username, req.Password) {
		slog.Warn("failed admin login", "category", logging.EventCategoryAuth, "username", req.Username)
		if h.protection != nil {
			h.protection.RecordFailedAttempt(req.Username)
		}
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}

	if h.protection != nil {
		h.protection.RecordSuccessfulLogin(req.Username)
	}
	if err := session.Login(r.Context(), h.sm); err != nil {
		logAndInternalError(w, "renew session", "error", err)
		return
	}
	slog.Info("admin logged in", "username", req.Username)
	writeData(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sm); err != nil {
		logAndInternalError(w, "destroy session", "error", err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// Session handles GET /admin/session.
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]bool{"authenticated": session.IsAdmin(r.Context(), h.sm)})
}

// Pages

// ListPages handles GET /admin/api/pages.
func (h *AdminHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Pages.GetAll(r.Context()))
}

// GetPage handles GET /admin/api/pages/{id}.
func (h *AdminHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.repos.Pages.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "get page")
		return
	}
	writeData(w, http.StatusOK, page)
}

// CreatePage handles POST /admin/api/pages.
func (h *AdminHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var page model.Page
	if !decodeJSON(w, r, &page) {
		return
	}
	page.ID = ""
	saved, err := h.repos.Pages.Save(r.Context(), page)
	if err != nil {
		writeStoreError(w, err, "create page")
		return
	}
	slog.Info("page created", "id", saved.ID, "slug", saved.Slug)
	writeData(w, http.StatusCreated, saved)
}

// UpdatePage handles PUT /admin/api/pages/{id}.
func (h *AdminHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.repos.Pages.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "get page")
		return
	}

	var page model.Page
	if !decodeJSON(w, r, &page) {
		return
	}
	page.ID = id
	page.CreatedAt = existing.CreatedAt

	saved, err := h.repos.Pages.Save(r.Context(), page)
	if err != nil {
		writeStoreError(w, err, "update page")
		return
	}
	writeData(w, http.StatusOK, saved)
}

// DeletePage handles DELETE /admin/api/pages/{id}.
func (h *AdminHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.repos.Pages.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "delete page")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Posts

// ListPosts handles GET /admin/api/posts. Drafts are included.
func (h *AdminHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Posts.GetAll(r.Context()))
}

// GetPost handles GET /admin/api/posts/{id}.
func (h *AdminHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.repos.Posts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "get post")
		return
	}
	writeData(w, http.StatusOK, post)
}

// CreatePost handles POST /admin/api/posts.
func (h *AdminHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post model.BlogPost
	if !decodeJSON(w, r, &post) {
		return
	}
	post.ID = ""
	post.LastModified = nil
	saved, err := h.repos.Posts.Save(r.Context(), post)
	if err != nil {
		writeStoreError(w, err, "create post")
		return
	}
	slog.Info("post created", "id", saved.ID, "slug", saved.Slug, "status", saved.Status)
	writeData(w, http.StatusCreated, saved)
}

// UpdatePost handles PUT /admin/api/posts/{id}.
func (h *AdminHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.repos.Posts.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "get post")
		return
	}

	var post model.BlogPost
	if !decodeJSON(w, r, &post) {
		return
	}
	post.ID = id
	if post.PublishDate.IsZero() {
		post.PublishDate = existing.PublishDate
	}

	saved, err := h.repos.Posts.Save(r.Context(), post)
	if err != nil {
		writeStoreError(w, err, "update post")
		return
	}
	writeData(w, http.StatusOK, saved)
}

// DeletePost handles DELETE /admin/api/posts/{id}.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.repos.Posts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// slugRequest is the body of POST /admin/api/posts/slug.
type slugRequest struct {
	Slug          string `json:"slug"`
	PreviousTitle string `json:"previousTitle"`
	Title         string `json:"title"`
}

// PostSlug handles POST /admin/api/posts/slug. It returns the slug the
// editor should show after the title changes.
func (h *AdminHandler) PostSlug(w http.ResponseWriter, r *http.Request) {
	var req slugRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"slug": util.DeriveSlug(req.Slug, req.PreviousTitle, req.Title),
	})
}

// Ad units

// ListAdUnits handles GET /admin/api/ad-units.
func (h *AdminHandler) ListAdUnits(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Ads.GetAll(r.Context()))
}

// ReplaceAdUnits handles PUT /admin/api/ad-units.
func (h *AdminHandler) ReplaceAdUnits(w http.ResponseWriter, r *http.Request) {
	var units []model.AdUnit
	if !decodeJSON(w, r, &units) {
		return
	}
	if err := h.repos.Ads.SaveAll(r.Context(), units); err != nil {
		writeStoreError(w, err, "save ad units")
		return
	}
	writeData(w, http.StatusOK, h.repos.Ads.GetAll(r.Context()))
}

// UpdateAdUnit handles PATCH /admin/api/ad-units/{id}.
func (h *AdminHandler) UpdateAdUnit(w http.ResponseWriter, r *http.Request) {
	var patch model.AdUnitPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	unit, err := h.repos.Ads.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err, "update ad unit")
		return
	}
	writeData(w, http.StatusOK, unit)
}

// ToggleAdUnit handles POST /admin/api/ad-units/{id}/toggle.
func (h *AdminHandler) ToggleAdUnit(w http.ResponseWriter, r *http.Request) {
	unit, err := h.repos.Ads.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "toggle ad unit")
		return
	}
	slog.Info("ad unit toggled", "id", unit.ID, "enabled", unit.Enabled)
	writeData(w, http.StatusOK, unit)
}

// Admin settings

// GetAdminSettings handles GET /admin/api/settings.
func (h *AdminHandler) GetAdminSettings(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Ads.GetSettings(r.Context()))
}

// UpdateAdminSettings handles PATCH /admin/api/settings.
func (h *AdminHandler) UpdateAdminSettings(w http.ResponseWriter, r *http.Request) {
	var patch model.AdminSettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	settings, err := h.repos.Ads.UpdateSettings(r.Context(), patch)
	if err != nil {
		writeStoreError(w, err, "update admin settings")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// SEO settings

// GetSeo handles GET /admin/api/seo.
func (h *AdminHandler) GetSeo(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Seo.Get(r.Context()))
}

// UpdateSeo handles PATCH /admin/api/seo.
func (h *AdminHandler) UpdateSeo(w http.ResponseWriter, r *http.Request) {
	var patch model.SeoSettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	settings, err := h.repos.Seo.Update(r.Context(), patch)
	if err != nil {
		writeStoreError(w, err, "update seo settings")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// API configuration

// GetAPIConfig handles GET /admin/api/api-config.
func (h *AdminHandler) GetAPIConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.APIConfig.Get(r.Context()))
}

// UpdateAPIConfig handles PATCH /admin/api/api-config.
func (h *AdminHandler) UpdateAPIConfig(w http.ResponseWriter, r *http.Request) {
	var patch model.APIConfigPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	cfg, err := h.repos.APIConfig.Update(r.Context(), patch)
	if err != nil {
		writeStoreError(w, err, "update api config")
		return
	}
	slog.Info("api config updated", "category", logging.EventCategoryConfig, "backend", cfg.BackendEnabled())
	writeData(w, http.StatusOK, cfg)
}

// Languages

// GetLanguages handles GET /admin/api/languages.
func (h *AdminHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Languages.Get(r.Context()))
}

// addLanguageRequest is the body of POST /admin/api/languages.
type addLanguageRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AddLanguage handles POST /admin/api/languages.
func (h *AdminHandler) AddLanguage(w http.ResponseWriter, r *http.Request) {
	var req addLanguageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := h.repos.Languages.Add(r.Context(), req.Code, req.Name)
	if err != nil {
		writeStoreError(w, err, "add language")
		return
	}
	writeData(w, http.StatusCreated, settings)
}

// ToggleLanguage handles POST /admin/api/languages/{code}/toggle.
func (h *AdminHandler) ToggleLanguage(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repos.Languages.ToggleActive(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, err, "toggle language")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// SetDefaultLanguage handles POST /admin/api/languages/{code}/default.
func (h *AdminHandler) SetDefaultLanguage(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repos.Languages.SetDefault(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, err, "set default language")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// DeleteLanguage handles DELETE /admin/api/languages/{code}.
func (h *AdminHandler) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repos.Languages.Delete(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeStoreError(w, err, "delete language")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// translationServiceRequest is the body of PUT /admin/api/languages/service.
type translationServiceRequest struct {
	Service string `json:"service"`
	APIKey  string `json:"apiKey"`
}

// SaveTranslationService handles PUT /admin/api/languages/service.
func (h *AdminHandler) SaveTranslationService(w http.ResponseWriter, r *http.Request) {
	var req translationServiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := h.repos.Languages.SaveService(r.Context(), req.Service, req.APIKey)
	if err != nil {
		writeStoreError(w, err, "save translation service")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// Contact settings

// GetContact handles GET /admin/api/contact.
func (h *AdminHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.repos.Contact.Get(r.Context()))
}

// UpdateContact handles PATCH /admin/api/contact.
func (h *AdminHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var patch model.ContactSettingsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	settings, err := h.repos.Contact.Update(r.Context(), patch)
	if err != nil {
		writeStoreError(w, err, "update contact settings")
		return
	}
	writeData(w, http.StatusOK, settings)
}

// Events

// Events handles GET /admin/api/events?limit=N.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSONError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	events := []logging.Event{}
	if h.events != nil {
		events = append(events, h.events.Recent(limit)...)
	}
	writeData(w, http.StatusOK, events)
}

// Export / import

// Export handles GET /admin/api/export?posts=all|published|draft&secrets=true.
// The export is sent as a JSON attachment that Import accepts unchanged.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	opts := transfer.DefaultExportOptions()
	q := r.URL.Query()
	switch status := q.Get("posts"); status {
	case "":
	case transfer.PostStatusAll, transfer.PostStatusPublished, transfer.PostStatusDraft:
		opts.PostStatus = status
	default:
		writeJSONError(w, http.StatusBadRequest, "bad_request", "posts must be all, published or draft")
		return
	}
	opts.IncludeSecrets = q.Get("secrets") == "true"

	data, err := h.exporter.Export(r.Context(), opts)
	if err != nil {
		logAndInternalError(w, "export content", "error", err)
		return
	}

	filename := "instaview-export-" + data.ExportedAt.Format("20060102-150405") + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, data)
}

// Import handles POST /admin/api/import?dry_run=true&conflict=skip|overwrite.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	opts := transfer.DefaultImportOptions()
	q := r.URL.Query()
	opts.DryRun = q.Get("dry_run") == "true"
	if c := q.Get("conflict"); c != "" {
		opts.ConflictStrategy = transfer.ConflictStrategy(c)
		if !opts.ConflictStrategy.IsValid() {
			writeJSONError(w, http.StatusBadRequest, "bad_request", "conflict must be skip or overwrite")
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	var data transfer.ExportData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return
	}

	result, err := h.importer.Import(r.Context(), &data, opts)
	if errors.Is(err, transfer.ErrInvalidImport) {
		middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "import_invalid", "Import data is invalid", importErrorDetails(result.Errors))
		return
	}
	if err != nil {
		logAndInternalError(w, "import content", "error", err)
		return
	}

	if !opts.DryRun {
		slog.Info("content imported from admin console",
			"category", logging.EventCategoryContent,
			"created", result.TotalCreated(),
			"updated", result.TotalUpdated(),
			"skipped", result.TotalSkipped())
	}
	writeData(w, http.StatusOK, result)
}

// importErrorDetails keys import errors by entity, and by id when known.
func importErrorDetails(errs []transfer.ImportError) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		key := e.Entity
		if e.ID != "" {
			key += "/" + e.ID
		}
		if prev, ok := details[key]; ok {
			details[key] = prev + "; " + e.Message
			continue
		}
		details[key] = e.Message
	}
	return details
}
