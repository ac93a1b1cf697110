// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTAVIEW_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/instaview.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/instaview.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.StoreBackend != StoreSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, StoreSQLite)
	}
	if cfg.CacheBackend != "memory" {
		t.Errorf("CacheBackend = %q, want memory", cfg.CacheBackend)
	}
	if cfg.SanitizeHTML {
		t.Error("SanitizeHTML should default to false")
	}
	if cfg.AdminEnabled() {
		t.Error("AdminEnabled() should be false without a password hash")
	}
	if got := cfg.CacheTTLDuration(); got != 5*time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want 5m", got)
	}
	if got := cfg.MockDelay(); got != 500*time.Millisecond {
		t.Errorf("MockDelay() = %v, want 500ms", got)
	}
	if cfg.DemoMode {
		t.Error("DemoMode should default to false")
	}
	if got := cfg.DemoResetInterval(); got != 24*time.Hour {
		t.Errorf("DemoResetInterval() = %v, want 24h", got)
	}
}

func TestLoad_DemoResetHoursMustBePositive(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTAVIEW_SESSION_SECRET", testSecret)
	setEnv(t, "INSTAVIEW_DEMO_MODE", "true")
	setEnv(t, "INSTAVIEW_DEMO_RESET_HOURS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a zero demo reset interval")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTAVIEW_SESSION_SECRET", testSecret)
	setEnv(t, "INSTAVIEW_SERVER_HOST", "0.0.0.0")
	setEnv(t, "INSTAVIEW_SERVER_PORT", "3000")
	setEnv(t, "INSTAVIEW_ENV", "production")
	setEnv(t, "INSTAVIEW_SITE_URL", "https://instaview.example/")
	setEnv(t, "INSTAVIEW_STORE", "redis")
	setEnv(t, "INSTAVIEW_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "INSTAVIEW_SANITIZE_HTML", "true")
	setEnv(t, "INSTAVIEW_FETCH_RETRIES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true for production")
	}
	if cfg.SiteURL != "https://instaview.example" {
		t.Errorf("SiteURL = %q, want trailing slash trimmed", cfg.SiteURL)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if !cfg.SanitizeHTML {
		t.Error("SanitizeHTML = false, want true")
	}
	if cfg.FetchRetries != 5 {
		t.Errorf("FetchRetries = %d, want 5", cfg.FetchRetries)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail when INSTAVIEW_SESSION_SECRET is not set")
	}
}

func TestLoad_SessionSecretTooShort(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty", ""},
		{"short", "short"},
		{"31_bytes", "1234567890123456789012345678901"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "INSTAVIEW_SESSION_SECRET", tt.secret)

			if _, err := Load(); err == nil {
				t.Fatalf("Load() should fail with %d-byte secret", len(tt.secret))
			}
		})
	}
}

func TestLoad_WeakSecretRejected(t *testing.T) {
	os.Clearenv()
	setEnv(t, "INSTAVIEW_SESSION_SECRET", knownWeakSecrets[0])

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a known default secret")
	}
}

func TestLoad_InvalidBackends(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"INSTAVIEW_STORE": "postgres"}},
		{"redis store without url", map[string]string{"INSTAVIEW_STORE": "redis"}},
		{"unknown cache", map[string]string{"INSTAVIEW_CACHE": "memcached"}},
		{"redis cache without url", map[string]string{"INSTAVIEW_CACHE": "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "INSTAVIEW_SESSION_SECRET", testSecret)
			for k, v := range tt.env {
				setEnv(t, k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("Load() should fail")
			}
		})
	}
}

func TestConfig_AdminEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"both set", Config{AdminUsername: "admin", AdminPasswordHash: "$argon2id$..."}, true},
		{"no hash", Config{AdminUsername: "admin"}, false},
		{"no username", Config{AdminPasswordHash: "$argon2id$..."}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.AdminEnabled(); got != tt.want {
				t.Errorf("AdminEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnopqrstuvwxyzabcdef", false},
		{"abcdefghijklmnopqrstuvwxyz123456", false},
		{"Abcdefghijklmnopqrstuvwxyz123456", true},
		{testSecret, true},
	}

	for _, tt := range tests {
		t.Run(tt.secret, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
