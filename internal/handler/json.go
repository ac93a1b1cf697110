// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the public site, the
// content fetch endpoint and the admin JSON API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/middleware"
	"github.com/olegiv/instaview-go/internal/model"
)

// maxBodySize caps admin and fetch request bodies.
const maxBodySize = 1 << 20

// Response is the standard JSON response wrapper.
type Response struct {
	Data any `json:"data"`
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData writes data wrapped in a Response.
func writeData(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, Response{Data: data})
}

// writeJSONError writes an error in the standard envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	middleware.WriteAPIError(w, statusCode, code, message, nil)
}

// decodeJSON reads a JSON body into dst. It writes a 400 and returns false
// when the body is missing or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body")
		return false
	}
	return true
}

// writeStoreError maps a repository error to a response. Validation
// failures become 422 with per-field details.
func writeStoreError(w http.ResponseWriter, err error, action string) {
	if ve, ok := model.AsValidationError(err); ok {
		middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, content.ErrSlugTaken):
		middleware.WriteAPIError(w, http.StatusUnprocessableEntity, "validation_failed", "Validation failed",
			map[string]string{"slug": "Slug already in use"})
	case errors.Is(err, content.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", "Not found")
	default:
		logAndInternalError(w, action, "error", err)
	}
}

// logAndInternalError logs an error and writes a JSON 500.
func logAndInternalError(w http.ResponseWriter, action string, args ...any) {
	slog.Error(action+" failed", args...)
	writeJSONError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}
