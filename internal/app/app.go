// Package app wires the configuration, observability stack, core services
// and HTTP server into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rapihcli/internal/analyze"
	"rapihcli/internal/cache"
	"rapihcli/internal/cleanse"
	"rapihcli/internal/config"
	"rapihcli/internal/infrastructure"
	"rapihcli/internal/pipeline"
	"rapihcli/internal/services"
	handlers "rapihcli/internal/transport/http"
	"rapihcli/internal/websocket"
	"rapihcli/pkg/contracts/domain"
)

// Version is stamped by the build; "dev" otherwise.
var Version = "dev"

// Application is the assembled server.
type Application struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.Providers
	store     *cache.Store
	hub       *websocket.Hub
	server    *http.Server
}

// New builds the application from a config file path. Every dependency is
// constructed here so main stays a thin shell.
func New(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	store := cache.NewStore(cfg.Cache.TTL, logger)
	hub := websocket.NewHub(logger)

	analyzer := analyze.New(logger, analyze.DefaultConfig())
	cleaner := cleanse.New(logger)
	manager := pipeline.NewManager(logger, analyzer, cleaner, hub)

	datasetService := services.NewDatasetService(logger, store, manager, cleaner, providers)

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:    logger,
		Config:    cfg,
		Datasets:  handlers.NewDatasetHandler(datasetService, logger, cfg.Server.MaxUploadBytes, domain.AnalysisMode(cfg.Analysis.DefaultMode)),
		Health:    handlers.NewHealthHandler(logger, store, Version),
		Hub:       hub,
		Providers: providers,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		cfg:       cfg,
		logger:    logger,
		providers: providers,
		store:     store,
		hub:       hub,
		server:    server,
	}, nil
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			slog.String("addr", a.server.Addr),
			slog.String("version", Version))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		a.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
	}
	a.store.Close()
	if err := a.providers.Shutdown(ctx); err != nil {
		a.logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}

	a.logger.Info("server stopped")
	return nil
}
