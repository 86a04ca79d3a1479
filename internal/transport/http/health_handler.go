package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"rapihcli/internal/cache"
	"rapihcli/internal/ingest"
)

// HealthHandler serves liveness and readiness endpoints.
type HealthHandler struct {
	logger    *slog.Logger
	store     *cache.Store
	startedAt time.Time
	version   string
}

// NewHealthHandler creates the handler.
func NewHealthHandler(logger *slog.Logger, store *cache.Store, version string) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		logger:    logger.With(slog.String("component", "health_handler")),
		store:     store,
		startedAt: time.Now(),
		version:   version,
	}
}

// Routes returns the health routes.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Health)
	return r
}

// Health reports process status, uptime and cache occupancy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":          "healthy",
		"version":         h.version,
		"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
		"cached_datasets": h.store.Len(),
		"capabilities":    ingest.Capabilities(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}
