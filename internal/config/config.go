// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Storage backends for the content store.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"INSTAVIEW_DB_PATH" envDefault:"./data/instaview.db"`
	SessionSecret string `env:"INSTAVIEW_SESSION_SECRET,required"`
	ServerHost    string `env:"INSTAVIEW_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"INSTAVIEW_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"INSTAVIEW_ENV" envDefault:"development"`
	LogLevel      string `env:"INSTAVIEW_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"INSTAVIEW_SITE_URL" envDefault:"http://localhost:8080"`

	// Content store
	StoreBackend string `env:"INSTAVIEW_STORE" envDefault:"sqlite"` // sqlite, redis or memory
	RedisURL     string `env:"INSTAVIEW_REDIS_URL"`
	RedisPrefix  string `env:"INSTAVIEW_REDIS_PREFIX" envDefault:"instaview:"`

	// Fetch result cache
	CacheBackend string `env:"INSTAVIEW_CACHE" envDefault:"memory"` // memory or redis
	CachePrefix  string `env:"INSTAVIEW_CACHE_PREFIX" envDefault:"instaview:cache:"`
	CacheTTL     int    `env:"INSTAVIEW_CACHE_TTL" envDefault:"300"` // seconds
	CacheMaxSize int    `env:"INSTAVIEW_CACHE_MAX_SIZE" envDefault:"1000"`

	// Admin credentials
	AdminUsername     string `env:"INSTAVIEW_ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash string `env:"INSTAVIEW_ADMIN_PASSWORD_HASH"` // argon2id encoded hash

	// Rendering
	SanitizeHTML bool `env:"INSTAVIEW_SANITIZE_HTML" envDefault:"false"`
	Markdown     bool `env:"INSTAVIEW_MARKDOWN" envDefault:"false"`

	// Content fetching
	FetchTimeout   int     `env:"INSTAVIEW_FETCH_TIMEOUT" envDefault:"15"` // seconds per attempt
	FetchRate      float64 `env:"INSTAVIEW_FETCH_RATE" envDefault:"2"`     // requests per second, 0 = unlimited
	FetchBurst     int     `env:"INSTAVIEW_FETCH_BURST" envDefault:"4"`
	FetchRetries   uint64  `env:"INSTAVIEW_FETCH_RETRIES" envDefault:"2"`
	MockDelayMilli int     `env:"INSTAVIEW_MOCK_DELAY_MS" envDefault:"500"`

	// Demo mode
	DemoMode       bool `env:"INSTAVIEW_DEMO_MODE" envDefault:"false"`
	DemoResetHours int  `env:"INSTAVIEW_DEMO_RESET_HOURS" envDefault:"24"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AdminEnabled reports whether admin credentials are configured.
func (c Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPasswordHash != ""
}

// CacheTTLDuration returns the fetch cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// FetchTimeoutDuration returns the per-attempt fetch timeout.
func (c Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout) * time.Second
}

// MockDelay returns the artificial delay of mock content.
func (c Config) MockDelay() time.Duration {
	return time.Duration(c.MockDelayMilli) * time.Millisecond
}

// DemoResetInterval returns how often demo mode resets the content.
func (c Config) DemoResetInterval() time.Duration {
	return time.Duration(c.DemoResetHours) * time.Hour
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("INSTAVIEW_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("INSTAVIEW_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("INSTAVIEW_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch cfg.StoreBackend {
	case StoreSQLite, StoreMemory:
	case StoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("INSTAVIEW_STORE=redis requires INSTAVIEW_REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("INSTAVIEW_STORE must be one of sqlite, redis, memory; got %q", cfg.StoreBackend)
	}

	switch cfg.CacheBackend {
	case "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("INSTAVIEW_CACHE=redis requires INSTAVIEW_REDIS_URL")
		}
	default:
		return nil, fmt.Errorf("INSTAVIEW_CACHE must be memory or redis; got %q", cfg.CacheBackend)
	}

	if cfg.DemoMode && cfg.DemoResetHours <= 0 {
		return nil, fmt.Errorf("INSTAVIEW_DEMO_RESET_HOURS must be positive, got %d", cfg.DemoResetHours)
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
