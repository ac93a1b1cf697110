// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/instaview-go/internal/auth"
	"github.com/olegiv/instaview-go/internal/cache"
	"github.com/olegiv/instaview-go/internal/config"
	"github.com/olegiv/instaview-go/internal/content"
	"github.com/olegiv/instaview-go/internal/demo"
	"github.com/olegiv/instaview-go/internal/fetcher"
	"github.com/olegiv/instaview-go/internal/handler"
	"github.com/olegiv/instaview-go/internal/kvstore"
	"github.com/olegiv/instaview-go/internal/logging"
	"github.com/olegiv/instaview-go/internal/middleware"
	"github.com/olegiv/instaview-go/internal/render"
	"github.com/olegiv/instaview-go/internal/scheduler"
	"github.com/olegiv/instaview-go/internal/seo"
	"github.com/olegiv/instaview-go/internal/service"
	"github.com/olegiv/instaview-go/internal/session"
	"github.com/olegiv/instaview-go/internal/store"
	"github.com/olegiv/instaview-go/internal/version"
	"github.com/olegiv/instaview-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its argon2id hash")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "InstaView - anonymous Instagram viewer site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_STORE                Content store: sqlite|redis|memory (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_DB_PATH              SQLite database path (default: ./data/instaview.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_REDIS_URL            Redis URL for the redis store or cache\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_SITE_URL             Public base URL for canonical links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_ADMIN_PASSWORD_HASH  Admin password hash (see -hash-password)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTAVIEW_DEMO_MODE            Reset content to defaults periodically (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if *hashPassword {
		if err := printPasswordHash(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// printPasswordHash reads one line from stdin and prints its hash.
func printPasswordHash() error {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("password must not be empty")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, _ = fmt.Println(hash)
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// openStore opens the configured content store. db is non-nil only for the
// sqlite backend and is shared with the session store.
func openStore(cfg *config.Config) (*kvstore.Store, *sql.DB, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		slog.Warn("using in-memory content store; admin edits are lost on restart", "category", logging.EventCategoryConfig)
		return kvstore.New(kvstore.NewMemoryBackend()), nil, nil

	case config.StoreRedis:
		opts := kvstore.DefaultRedisOptions()
		opts.URL = cfg.RedisURL
		opts.Prefix = cfg.RedisPrefix
		backend, err := kvstore.NewRedisBackend(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis store: %w", err)
		}
		slog.Info("redis content store ready", "prefix", opts.Prefix)
		return kvstore.New(backend), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing database: %w", err)
	}
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return kvstore.New(kvstore.NewSQLiteBackend(db)), db, nil
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// WARN and above are also kept in memory for /admin/api/events.
	events := logging.NewEventLog(logging.DefaultCapacity)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, events)))

	kv, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("error closing content store", "error", err)
		}
		if db != nil {
			if err := db.Close(); err != nil {
				slog.Error("error closing database connection", "error", err)
			}
		}
	}()

	repos := content.NewRepositories(kv)

	jobs := scheduler.New(slog.Default())
	if cfg.DemoMode {
		if _, err := demo.ResetIfNeeded(context.Background(), kv, cfg.DemoResetInterval(), time.Now()); err != nil {
			return fmt.Errorf("demo reset: %w", err)
		}
		if err := jobs.Register("demo-reset", "@every 1h", demo.Job(kv, cfg.DemoResetInterval())); err != nil {
			return fmt.Errorf("scheduling demo reset: %w", err)
		}
		slog.Warn("demo mode enabled; content resets periodically", "category", logging.EventCategoryConfig, "interval", cfg.DemoResetInterval())
	}
	jobs.Start()
	defer jobs.Stop()

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	var creds *auth.Credentials
	if cfg.AdminEnabled() {
		creds, err = auth.NewCredentials(cfg.AdminUsername, cfg.AdminPasswordHash)
		if err != nil {
			return fmt.Errorf("admin credentials: %w", err)
		}
		if auth.NeedsRehash(cfg.AdminPasswordHash) {
			slog.Warn("admin password hash uses outdated parameters; regenerate it with -hash-password", "category", logging.EventCategoryAuth)
		}
	} else {
		slog.Warn("INSTAVIEW_ADMIN_PASSWORD_HASH is not set; admin login is disabled", "category", logging.EventCategoryConfig)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.Type = cfg.CacheBackend
	cacheCfg.RedisURL = cfg.RedisURL
	cacheCfg.Prefix = cfg.CachePrefix
	cacheCfg.DefaultTTL = cfg.CacheTTLDuration()
	cacheCfg.MaxSize = cfg.CacheMaxSize
	fetchCache, err := cache.New(cacheCfg)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = fetchCache.Close() }()
	slog.Info("fetch cache initialized", "type", cacheCfg.Type, "ttl", cacheCfg.DefaultTTL)

	selector := fetcher.NewSelector(repos.APIConfig, fetcher.NewMock(cfg.MockDelay()), fetcher.BackendOptions{
		Timeout:    cfg.FetchTimeoutDuration(),
		RatePerSec: cfg.FetchRate,
		Burst:      cfg.FetchBurst,
		MaxRetries: cfg.FetchRetries,
	})
	contentFetcher := fetcher.NewCached(selector, fetchCache, cfg.CacheTTLDuration(), selector.Source)

	site := service.NewSiteService(repos.Pages, repos.Posts, repos.Ads, repos.Seo, service.SiteOptions{
		SiteURL:      cfg.SiteURL,
		SanitizeHTML: cfg.SanitizeHTML,
		Markdown:     cfg.Markdown,
		Languages:    repos.Languages,
		Contact:      repos.Contact,
	})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(templatesFS)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Close()

	router := handler.NewRouter(handler.RouterConfig{
		Public: handler.NewPublicHandler(site, renderer, contentFetcher, seo.RobotsConfig{
			SiteURL:     cfg.SiteURL,
			DisallowAll: cfg.IsDevelopment(),
		}),
		Admin:       handler.NewAdminHandler(repos, sessionManager, creds, loginProtection, events, cfg.SiteURL),
		Health:      handler.NewHealthHandler(kv, fetchCache, sessionManager, info),
		Sessions:    sessionManager,
		StaticFS:    staticFS,
		Security:    middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment()),
		CSRF:        middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()),
		Login:       loginProtection,
		FetchLimit:  middleware.NewClientRateLimiter(1, 10),
		RequestTime: 30*time.Second + cfg.FetchTimeoutDuration(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Resolve().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
