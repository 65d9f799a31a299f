// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vaultpress/internal/api"
	"github.com/starford/vaultpress/internal/mcpserver"
	"github.com/starford/vaultpress/internal/metrics"
	"github.com/starford/vaultpress/internal/models"
	"github.com/starford/vaultpress/internal/noteservice"
	"github.com/starford/vaultpress/internal/sse"
	"github.com/starford/vaultpress/internal/storage"
	"github.com/starford/vaultpress/internal/watcher"
)

// runtime is the wiring shared by every entry point.
type runtime struct {
	cfg     *Config
	version string
	logger  *slog.Logger
	store   *storage.FS
	metrics *metrics.Metrics
	svc     *noteservice.Service
}

func setup(opts []Option) (*runtime, error) {
	app := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	return &runtime{
		cfg:     cfg,
		version: app.version,
		logger:  logger,
		store:   store,
		metrics: m,
		svc:     noteservice.NewService(store, m, logger),
	}, nil
}

// newRouter builds the root HTTP handler. broker may be nil.
func newRouter(rt *runtime, broker *sse.Broker) http.Handler {
	cfg := rt.cfg

	var sseHandler http.Handler
	if broker != nil {
		sseHandler = broker
	}
	apiRouter := api.NewRouter(rt.svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, sseHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.Metrics(rt.metrics))

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := os.Stat(rt.store.Root()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"vault unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if rt.metrics != nil {
		r.Handle("/metrics", rt.metrics.Handler())
	}

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	cfg, logger := rt.cfg, rt.logger

	var broker *sse.Broker
	if cfg.Watch.Enabled {
		broker = sse.NewBroker(cfg.Watch.Throttle)
		defer broker.Close()
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRouter(rt, broker),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; only changes to the published view reach SSE.
	if broker != nil {
		g.Go(func() error {
			changes, err := rt.svc.Changes(gCtx)
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
				return nil
			}
			err = watcher.Watch(gCtx, rt.store.Root(), logger,
				publishChanges(gCtx, changes, rt.metrics, broker.PublishNoteEvent))
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// publishChanges adapts file events to note events. Events for files that
// are not published, before or after the change, are counted but dropped.
func publishChanges(ctx context.Context, changes *noteservice.Changes, m *metrics.Metrics, publish func(kind, path string)) watcher.EventCallback {
	return func(kind, path string) {
		m.ObserveEvent(kind)
		if change, ok := changes.Filter(ctx, path); ok {
			publish(change, path)
		}
	}
}

// errShutdown cancels the errgroup once the server has been asked to stop,
// so the watcher exits together with the HTTP server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout. Logs go to stderr unless
// another output is configured.
func RunMCP(_ context.Context, opts ...Option) error {
	rt, err := setup(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	rt.logger.Info("MCP server starting", slog.String("version", rt.version))
	return mcpserver.New(rt.svc, rt.version).ServeStdio()
}

// Search runs a single query against the configured vault.
func Search(ctx context.Context, query string, opts ...Option) ([]models.SearchResult, error) {
	rt, err := setup(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return nil, err
	}
	return rt.svc.Search(ctx, query)
}
