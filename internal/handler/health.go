// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/instaview-go/internal/cache"
	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/session"
	"github.com/olegiv/instaview-go/internal/version"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// healthProbeKey is written to the cache by each health check.
const healthProbeKey = "health:probe"

// HealthHandler handles health check requests.
type HealthHandler struct {
	store     *kvstore.Store
	cache     cache.Cache
	sm        *scs.SessionManager
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler. c may be nil.
func NewHealthHandler(store *kvstore.Store, c cache.Cache, sm *scs.SessionManager, info version.Info) *HealthHandler {
	return &HealthHandler{
		store:     store,
		cache:     c,
		sm:        sm,
		version:   info.Resolve(),
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the full health response shown to admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. Admin sessions get the individual checks.
// A store without a backend still serves defaults, so it reports degraded
// rather than failing.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"storage": h.checkStorage(),
		"cache":   h.checkCache(r.Context()),
	}

	overall := statusHealthy
	for _, c := range checks {
		if c.Status != statusHealthy {
			overall = statusDegraded
		}
	}

	if !h.isAdmin(r) {
		writeJSON(w, http.StatusOK, HealthStatusPublic{Status: overall})
		return
	}

	writeJSON(w, http.StatusOK, HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Version,
		Checks:    checks,
	})
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (h *HealthHandler) checkStorage() Check {
	if !h.store.Available() {
		return Check{Status: statusDegraded, Message: "no persistent storage, serving defaults"}
	}
	return Check{Status: statusHealthy}
}

func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: statusHealthy, Message: "disabled"}
	}
	start := time.Now()
	if err := h.cache.Set(ctx, healthProbeKey, []byte("ok"), time.Minute); err != nil {
		return Check{Status: statusDegraded, Message: err.Error()}
	}
	if _, err := h.cache.Get(ctx, healthProbeKey); err != nil {
		return Check{Status: statusDegraded, Message: err.Error()}
	}
	return Check{Status: statusHealthy, Latency: time.Since(start).String()}
}

// isAdmin checks the session without requiring the session middleware to
// have run. SCS panics when no session is loaded into the context.
func (h *HealthHandler) isAdmin(r *http.Request) (admin bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			admin = false
		}
	}()
	return session.IsAdmin(r.Context(), h.sm)
}
