// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bissquit/runbook-ops/internal/config"
	"github.com/bissquit/runbook-ops/internal/environment"
	"github.com/bissquit/runbook-ops/internal/history"
	"github.com/bissquit/runbook-ops/internal/identity"
	"github.com/bissquit/runbook-ops/internal/incidents"
	"github.com/bissquit/runbook-ops/internal/notifications"
	"github.com/bissquit/runbook-ops/internal/orchestration"
	"github.com/bissquit/runbook-ops/internal/pkg/clock"
	"github.com/bissquit/runbook-ops/internal/pkg/httputil"
	"github.com/bissquit/runbook-ops/internal/runbooks"
	"github.com/bissquit/runbook-ops/internal/scheduler"
	"github.com/bissquit/runbook-ops/internal/stats"
	"github.com/bissquit/runbook-ops/internal/store"
	"github.com/bissquit/runbook-ops/internal/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App represents the application instance.
type App struct {
	config        *config.Config
	logger        *slog.Logger
	server        *http.Server
	metricsServer *http.Server
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	logger := initLogger(cfg.Log)

	app := &App{
		config: cfg,
		logger: logger,
	}

	router, err := app.setupRouter()
	if err != nil {
		return nil, fmt.Errorf("setup router: %w", err)
	}

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Metrics server on separate port
	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.Handler())

	app.metricsServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.MetricsPort),
		Handler:           metricsRouter,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return app, nil
}

// Run starts the HTTP servers.
func (a *App) Run() error {
	// Start metrics server in background
	go func() {
		a.logger.Info("starting metrics server",
			"host", a.config.Server.Host,
			"port", a.config.Server.MetricsPort,
		)
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", "error", err)
		}
	}()

	// Start main server
	a.logger.Info("starting server",
		"host", a.config.Server.Host,
		"port", a.config.Server.Port,
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down servers")

	// Shutdown both servers in parallel
	var wg sync.WaitGroup
	var errs []error
	var mu sync.Mutex

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := a.server.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("shutdown metrics server: %w", err))
			mu.Unlock()
		}
	}()

	wg.Wait()

	return errors.Join(errs...)
}

// Router returns the HTTP handler for testing.
func (a *App) Router() http.Handler {
	return a.server.Handler
}

func (a *App) setupRouter() (*chi.Mux, error) {
	r := chi.NewRouter()

	// Metrics middleware must be first to measure full request time
	r.Use(httputil.MetricsMiddleware)

	// CORS must be early to handle preflight requests before other middleware
	r.Use(httputil.CORSMiddleware(a.config.CORS.AllowedOrigins))
	r.Use(middleware.RequestID)
	r.Use(httputil.RequestLoggerMiddleware(a.logger))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", a.healthzHandler)
	r.Get("/readyz", a.readyzHandler)
	r.Get("/version", a.versionHandler)

	clk := clock.System{}
	st := store.NewSeeded(clk)

	seed := a.config.History.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	dataset := history.NewGenerator(clk, seed).Generate()
	aggregator := stats.NewAggregator(dataset, clk)

	orchestrationService := orchestration.NewService(st, clk, orchestration.Config{
		SimulatedLatency: a.config.Pipeline.SimulatedLatency,
	})
	orchestrationHandler := orchestration.NewHandler(st)

	incidentsHandler := incidents.NewHandler(st, orchestrationService)
	runbooksHandler := runbooks.NewHandler(runbooks.NewService(st), orchestrationService)
	schedulerHandler := scheduler.NewHandler(scheduler.NewService(st), orchestrationService)
	notificationsHandler := notifications.NewHandler(st)
	environmentHandler := environment.NewHandler(st)
	statsHandler := stats.NewHandler(aggregator)

	tokenManager := identity.NewTokenManager(a.config.JWT.SecretKey, a.config.JWT.AccessTokenDuration, clk)
	identityService, err := identity.NewService(tokenManager)
	if err != nil {
		return nil, fmt.Errorf("create identity service: %w", err)
	}
	identityHandler := identity.NewHandler(identityService)

	r.Route("/api/v1", func(r chi.Router) {
		identityHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(httputil.AuthMiddleware(tokenManager))

			identityHandler.RegisterProtectedRoutes(r)
			incidentsHandler.RegisterRoutes(r)
			runbooksHandler.RegisterRoutes(r)
			schedulerHandler.RegisterRoutes(r)
			notificationsHandler.RegisterRoutes(r)
			environmentHandler.RegisterRoutes(r)
			statsHandler.RegisterRoutes(r)
			orchestrationHandler.RegisterRoutes(r)
		})
	})

	return r, nil
}

func (a *App) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) readyzHandler(w http.ResponseWriter, _ *http.Request) {
	// All state is in memory; ready as soon as the server is up.
	httputil.Text(w, http.StatusOK, "OK")
}

func (a *App) versionHandler(w http.ResponseWriter, _ *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"version":    version.Version,
		"commit":     version.GitCommit,
		"build_date": version.BuildDate,
	})
}

func initLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
