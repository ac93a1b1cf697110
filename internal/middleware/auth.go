// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin authentication,
// rate limiting and response hardening.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/instaview-go/internal/session"
)

// RequireAdmin rejects requests whose session does not carry the admin flag.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAdmin(r.Context(), sm) {
				slog.Debug("admin access denied", "method", r.Method, "path", r.URL.Path)
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Admin login required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
