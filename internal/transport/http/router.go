// Package http is the HTTP transport layer: chi router, handlers and
// request/response shaping.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"rapihcli/internal/config"
	"rapihcli/internal/infrastructure"
	"rapihcli/internal/middleware"
	"rapihcli/internal/websocket"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Datasets  *DatasetHandler
	Health    *HealthHandler
	Hub       *websocket.Hub
	Providers *infrastructure.Providers
}

// NewRouter assembles the full route tree with the middleware chain.
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.TraceID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	if deps.Config.Security.RateLimit.Enabled {
		r.Use(middleware.RateLimit(
			deps.Config.Security.RateLimit.RPS,
			deps.Config.Security.RateLimit.Burst))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/datasets", deps.Datasets.Routes())
	})

	r.Mount("/healthz", deps.Health.Routes())
	if deps.Providers != nil {
		r.Method(http.MethodGet, "/metrics", deps.Providers.PrometheusHTTP)
	}
	if deps.Hub != nil {
		r.Handle("/ws", deps.Hub)
	}

	return r
}
