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

	"github.com/veckert/daybook/internal/api"
	"github.com/veckert/daybook/internal/importer"
	"github.com/veckert/daybook/internal/models"
	"github.com/veckert/daybook/internal/remind"
	"github.com/veckert/daybook/internal/sse"
	"github.com/veckert/daybook/internal/store"
	"github.com/veckert/daybook/internal/taskservice"
)

// OpenStore builds the item store selected by cfg.
func OpenStore(cfg *StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case StoreDriverMemory:
		return store.NewMemory(), nil
	case StoreDriverSQLite:
		return store.OpenSQLite(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("sqlite_path", cfg.Store.SQLite.Path),
		slog.String("import_path", cfg.Import.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the item store, unless one was injected.
	st := app.store
	if st == nil {
		opened, err := OpenStore(&cfg.Store)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer opened.Close()
		st = opened
	}

	if cfg.Store.Seed {
		if err := store.Seed(ctx, st); err != nil {
			logger.Warn("seeding failed", slog.String("error", err.Error()))
		}
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build domain service with change events wired to the broker.
	svc := taskservice.NewService(st, func(kind string, item models.Item) {
		broker.PublishItemEvent(kind, sse.ItemPayload{
			ID:       item.ID,
			Title:    item.Title,
			ListType: string(item.ListType),
		})
	})

	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Due-date reminder sweeper, publishing item.due events.
	sweeper := remind.NewSweeper(st, func(item models.Item) {
		broker.PublishItemEvent("due", sse.ItemPayload{
			ID:       item.ID,
			Title:    item.Title,
			ListType: string(item.ListType),
		})
	}, cfg.Remind.Horizon.Std(), cfg.Remind.Interval.Std(), logger)
	g.Go(func() error {
		return sweeper.Run(gCtx)
	})

	// Drop-folder importer, when configured.
	if cfg.Import.Path != "" {
		if err := os.MkdirAll(cfg.Import.Path, 0o755); err != nil {
			return fmt.Errorf("create import dir: %w", err)
		}
		g.Go(func() error {
			return importer.Watch(gCtx, svc, cfg.Import.Path, logger)
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

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
