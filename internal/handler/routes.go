// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/instaview-go/internal/middleware"
)

// staticMaxAge is the Cache-Control max-age of files under /static/.
const staticMaxAge = 7 * 24 * time.Hour

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Public   *PublicHandler
	Admin    *AdminHandler
	Health   *HealthHandler
	Sessions *scs.SessionManager

	// StaticFS is served under /static/. It may be nil.
	StaticFS fs.FS

	Security    middleware.SecurityHeadersConfig
	CSRF        middleware.CSRFConfig
	Login       *middleware.LoginProtection
	FetchLimit  *middleware.ClientRateLimiter
	RequestTime time.Duration
}

// NewRouter builds the application router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	if cfg.RequestTime > 0 {
		r.Use(chimw.Timeout(cfg.RequestTime))
	}
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(cfg.Security))
	r.Use(cfg.Sessions.LoadAndSave)

	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Liveness)

	pub := cfg.Public
	r.Get("/", pub.Home)
	r.Get("/blog", pub.Blog)
	r.Get("/blog/{slug}", pub.Post)
	r.Get("/page/{slug}", pub.Page)
	r.Get("/ads/{location}", pub.Ad)
	r.Get("/sitemap.xml", pub.Sitemap)
	r.Get("/robots.txt", pub.Robots)
	r.Get("/favicon.ico", pub.Favicon)
	r.Get("/contact", pub.Contact)
	r.With(middleware.CSRF(cfg.CSRF)).Post("/contact", pub.SubmitContact)
	r.NotFound(pub.NotFound)

	fetch := r.With()
	if cfg.FetchLimit != nil {
		fetch = r.With(cfg.FetchLimit.Middleware())
	}
	fetch.Post("/api/instagram", pub.Fetch)

	if cfg.StaticFS != nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(cfg.StaticFS)))
		r.Handle("/static/*", middleware.StaticCache(staticMaxAge)(static))
	}

	adm := cfg.Admin
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(cfg.CSRF))

		login := r.With()
		if cfg.Login != nil {
			login = r.With(cfg.Login.Middleware())
		}
		login.Post("/login", adm.Login)
		r.Post("/logout", adm.Logout)
		r.Get("/session", adm.Session)

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(cfg.Sessions))

			r.Get("/pages", adm.ListPages)
			r.Post("/pages", adm.CreatePage)
			r.Get("/pages/{id}", adm.GetPage)
			r.Put("/pages/{id}", adm.UpdatePage)
			r.Delete("/pages/{id}", adm.DeletePage)

			r.Get("/posts", adm.ListPosts)
			r.Post("/posts", adm.CreatePost)
			r.Post("/posts/slug", adm.PostSlug)
			r.Get("/posts/{id}", adm.GetPost)
			r.Put("/posts/{id}", adm.UpdatePost)
			r.Delete("/posts/{id}", adm.DeletePost)

			r.Get("/ad-units", adm.ListAdUnits)
			r.Put("/ad-units", adm.ReplaceAdUnits)
			r.Patch("/ad-units/{id}", adm.UpdateAdUnit)
			r.Post("/ad-units/{id}/toggle", adm.ToggleAdUnit)

			r.Get("/settings", adm.GetAdminSettings)
			r.Patch("/settings", adm.UpdateAdminSettings)

			r.Get("/seo", adm.GetSeo)
			r.Patch("/seo", adm.UpdateSeo)

			r.Get("/api-config", adm.GetAPIConfig)
			r.Patch("/api-config", adm.UpdateAPIConfig)

			r.Get("/languages", adm.GetLanguages)
			r.Post("/languages", adm.AddLanguage)
			r.Put("/languages/service", adm.SaveTranslationService)
			r.Post("/languages/{code}/toggle", adm.ToggleLanguage)
			r.Post("/languages/{code}/default", adm.SetDefaultLanguage)
			r.Delete("/languages/{code}", adm.DeleteLanguage)

			r.Get("/contact", adm.GetContact)
			r.Patch("/contact", adm.UpdateContact)

			r.Get("/events", adm.Events)
			r.Get("/export", adm.Export)
			r.Post("/import", adm.Import)
		})
	})

	return r
}
