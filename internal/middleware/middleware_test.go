// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/instaview-go/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return apiErr
}

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusUnprocessableEntity, "validation_failed", "Invalid input", map[string]string{"slug": "Slug is required"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	apiErr := decodeAPIError(t, rec)
	if apiErr.Error.Code != "validation_failed" || apiErr.Error.Details["slug"] != "Slug is required" {
		t.Errorf("body = %+v", apiErr)
	}
}

func TestRequireAdmin(t *testing.T) {
	sm := session.New(nil, true)

	protected := sm.LoadAndSave(RequireAdmin(sm)(okHandler))
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/pages", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}
	if apiErr := decodeAPIError(t, rec); apiErr.Error.Code != "unauthorized" {
		t.Errorf("error code = %q", apiErr.Error.Code)
	}

	login := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := session.Login(r.Context(), sm); err != nil {
			t.Errorf("Login: %v", err)
		}
	}))
	rec = httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/api/pages", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}

func TestClientRateLimiter(t *testing.T) {
	rl := NewClientRateLimiter(0.001, 2)
	h := rl.Middleware()(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/instagram", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/instagram", nil)
	req.RemoteAddr = "198.51.100.1:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 3, LockoutDuration: time.Minute, AttemptWindow: time.Hour})
	defer lp.Close()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	if got := lp.RemainingAttempts("admin"); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
	lp.RecordFailedAttempt("admin")
	lp.RecordFailedAttempt("admin")
	if got := lp.RemainingAttempts("admin"); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt("admin")
	if !locked || d != time.Minute {
		t.Fatalf("third failure: locked=%v d=%v", locked, d)
	}
	if locked, _ := lp.IsAccountLocked("admin"); !locked {
		t.Error("account should be locked")
	}

	now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked("admin"); locked {
		t.Error("lock should have expired")
	}

	// Second lockout doubles the duration.
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt("admin")
	}
	if locked, d := lp.RecordFailedAttempt("admin"); !locked || d != 2*time.Minute {
		t.Errorf("second lockout: locked=%v d=%v", locked, d)
	}

	lp.RecordSuccessfulLogin("admin")
	if locked, _ := lp.IsAccountLocked("admin"); locked {
		t.Error("successful login should clear the lock")
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	defer lp.Close()
	h := lp.Middleware()(okHandler)

	send := func(method string) int {
		req := httptest.NewRequest(method, "/admin/login", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send(http.MethodPost); code != http.StatusOK {
		t.Errorf("first POST = %d", code)
	}
	if code := send(http.MethodPost); code != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", code)
	}
	if code := send(http.MethodGet); code != http.StatusOK {
		t.Errorf("GET should not be limited, got %d", code)
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	cfg := DefaultCSRFConfig([]byte("12345678901234567890123456789012"), false)
	h := CSRF(cfg)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/pages", strings.NewReader("{}"))
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-site POST status = %d, want 403", rec.Code)
	}
	if apiErr := decodeAPIError(t, rec); apiErr.Error.Code != "csrf_failed" {
		t.Errorf("error code = %q", apiErr.Error.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/api/pages", strings.NewReader("{}"))
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want 200", rec.Code)
	}
}

func TestDefaultCSRFConfig(t *testing.T) {
	if got := DefaultCSRFConfig(nil, true).TrustedOrigins; len(got) != 2 || strings.HasPrefix(got[0], "http") {
		t.Errorf("dev TrustedOrigins = %v, want host:port values", got)
	}
	if got := DefaultCSRFConfig(nil, false).TrustedOrigins; len(got) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if got := rec.Header().Get("Strict-Transport-Security") != ""; got != tt.wantHSTS {
				t.Errorf("HSTS present = %v, want %v", got, tt.wantHSTS)
			}
			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.HasPrefix(csp, "default-src 'self'; script-src") {
				t.Errorf("CSP = %q", csp)
			}
			if !strings.Contains(csp, "object-src 'none'") {
				t.Errorf("CSP missing object-src: %q", csp)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff")
			}
			if rec.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
				t.Error("missing X-Frame-Options")
			}
		})
	}
}
