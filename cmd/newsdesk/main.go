// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/cache"
	"github.com/newsdesk/newsdesk-go/internal/config"
	"github.com/newsdesk/newsdesk-go/internal/geoip"
	"github.com/newsdesk/newsdesk-go/internal/handler/api"
	"github.com/newsdesk/newsdesk-go/internal/logging"
	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/scheduler"
	"github.com/newsdesk/newsdesk-go/internal/session"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Newsdesk - newsroom story workflow service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_DB_PATH               SQLite database path (default: ./data/newsdesk.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_REDIS_URL             Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_GEOIP_DB_PATH         GeoLite2-Country.mmdb path for audit geolocation (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEWSDESK_AUDIT_RETENTION_DAYS  Audit record retention in days, 0 keeps forever (default: 365)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("newsdesk %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit trail
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit trail log forwarding enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// GeoIP lookup for audit records, optional
	var geo *geoip.Lookup
	if cfg.GeoIPEnabled() {
		geo, err = geoip.NewLookup(cfg.GeoIPDBPath)
		if err != nil {
			slog.Warn("geoip disabled", "path", cfg.GeoIPDBPath, "error", err)
		} else {
			defer func() { _ = geo.Close() }()
			slog.Info("geoip enabled", "path", cfg.GeoIPDBPath)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	cacheType := "memory"
	if cfg.UseRedisCache() {
		cacheType = "redis"
	}
	appCache, err := cache.New(cache.Config{
		Type:       cacheType,
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()
	slog.Info("cache initialized", "type", cacheType)

	languages := cache.NewLanguageCache(appCache, store.New(db))

	recorder := audit.NewRecorder(geo, logger)
	engine := workflow.New(db, recorder, logger)

	sched := scheduler.New(db, engine, logger,
		time.Duration(cfg.AuditRetentionDays)*24*time.Hour)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	apiHandler := api.NewHandler(db, engine, recorder, languages, sessionManager, logger)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", apiHandler.Status)
		r.Post("/login", apiHandler.Login(loginProtection))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))

			r.Post("/logout", apiHandler.Logout)
			r.Get("/me", apiHandler.Me)
			r.Get("/languages", apiHandler.ListLanguages)

			r.Get("/stories", apiHandler.ListStories)
			r.Post("/stories", apiHandler.CreateStory)
			r.Get("/stories/{id}", apiHandler.GetStory)
			r.Get("/stories/{id}/rendered", apiHandler.GetRenderedStory)
			r.Post("/stories/{id}/transitions", apiHandler.ApplyTransition)
			r.Get("/stories/{id}/translations", apiHandler.ListStoryTranslationRequests)

			r.Get("/translations/mine", apiHandler.ListMyTranslationRequests)
			r.Get("/translations/{id}", apiHandler.GetTranslationRequest)
			r.Post("/translations/{id}/transitions", apiHandler.ApplyTranslationTransition)

			// Editorial metadata and audit trails are for sub-editors
			// and above
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSubEditor())
				r.Post("/stories/{id}/classifications", apiHandler.AddStoryClassification)
				r.Put("/stories/{id}/category", apiHandler.SetStoryCategory)
				r.Get("/stories/{id}/audit", apiHandler.ListStoryAudit)
				r.Get("/translations/{id}/audit", apiHandler.ListTranslationAudit)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
