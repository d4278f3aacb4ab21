// Copyright (c) 2026 Oleg Ivanchenko
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

	"github.com/olegiv/agenda-go/internal/ai"
	"github.com/olegiv/agenda-go/internal/cache"
	"github.com/olegiv/agenda-go/internal/config"
	"github.com/olegiv/agenda-go/internal/geoip"
	"github.com/olegiv/agenda-go/internal/handler"
	"github.com/olegiv/agenda-go/internal/logging"
	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/scheduler"
	"github.com/olegiv/agenda-go/internal/service"
	"github.com/olegiv/agenda-go/internal/session"
	"github.com/olegiv/agenda-go/internal/store"
	"github.com/olegiv/agenda-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "agenda - session and event management service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_SESSION_SECRET  Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_DB_PATH         SQLite database path (default: ./data/agenda.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_REDIS_URL       Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_GEOIP_DB_PATH   GeoLite2-Country.mmdb path for auth event geolocation (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AGENDA_OPENAI_API_KEY  OpenAI API key for description suggestions (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("agenda %s\n", version.Get())
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

	// Setup logger
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

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed the fixture credentials and sessions
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize cache backend and the calendar cache manager
	cacheConfig := cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	backend, err := cache.New(cacheConfig)
	if err != nil {
		slog.Warn("cache backend unavailable, falling back to memory", "error", err)
		backend = cache.NewMemoryCache(cache.MemoryCacheOptions{
			DefaultTTL:      cacheConfig.DefaultTTL,
			MaxSize:         cacheConfig.MaxSize,
			CleanupInterval: cacheConfig.CleanupInterval,
		})
	}
	cacheManager := cache.NewManager(backend, cacheConfig.DefaultTTL)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	// Initialize GeoIP lookup for auth event geolocation
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip lookup disabled", "error", err)
		} else {
			slog.Info("geoip lookup initialized", "path", cfg.GeoIPDBPath)
		}
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("error closing geoip database", "error", err)
		}
	}()

	// Session service with calendar cache invalidation on every mutation
	sessionService := service.NewSessionService(db)
	sessionService.OnChange(cacheManager.Invalidate)

	// Initialize and start the scheduler (event log retention, geoip reload)
	sched := scheduler.New(db, logger, geo, cfg.EventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Initialize login protection
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Public rate limiter for auth routes (defense-in-depth)
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(db, sessionManager, loginProtection, geo)
	sessionHandler := handler.NewSessionHandler(db, sessionService)
	calendarHandler := handler.NewCalendarHandler(sessionService, cacheManager)
	healthHandler := handler.NewHealthHandler(db, sessionManager, backend)
	transferHandler := handler.NewTransferHandler(db, cacheManager.Invalidate)

	var describeHandler *handler.DescribeHandler
	if cfg.OpenAIEnabled() {
		describeHandler = handler.NewDescribeHandler(ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, ""))
		slog.Info("description suggestions enabled", "model", cfg.OpenAIModel)
	}

	// Create router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.NotFound(handler.NotFoundHandler)
	r.MethodNotAllowed(handler.MethodNotAllowedHandler)

	// Health check routes (public, more detail for authenticated callers)
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Liveness)
		r.Get("/health/ready", healthHandler.Readiness)
	})

	// REST API v1
	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())
		r.Use(sessionManager.LoadAndSave)

		csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
		r.Use(middleware.CSRF(csrfConfig))

		// Auth routes: rate-limited login with account lockout
		r.Group(func(r chi.Router) {
			r.Use(publicRateLimiter.Middleware())
			r.With(loginProtection.Middleware()).Post("/auth/login", authHandler.Login)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessionManager))
			r.Use(middleware.LoadUser(sessionManager, db))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/sessions", sessionHandler.List)
			r.Get("/sessions/{id}", sessionHandler.Get)
			r.Get("/calendar", calendarHandler.Events)
			r.Get("/calendar.ics", calendarHandler.ICS)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin())

				r.Post("/sessions", sessionHandler.Create)
				r.Put("/sessions/{id}", sessionHandler.Update)
				r.Delete("/sessions/{id}", sessionHandler.Delete)

				if describeHandler != nil {
					r.Post("/sessions/describe", describeHandler.Describe)
				}

				r.Get("/export", transferHandler.Export)
				r.Post("/import", transferHandler.Import)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

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
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", version.Get().Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
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
