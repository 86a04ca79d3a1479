// Package middleware provides the HTTP middleware chain: request logging,
// trace-id injection, panic recovery, and rate limiting.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	apierrors "rapihcli/internal/errors"
	"rapihcli/internal/infrastructure"
)

// TraceID injects a fresh trace ID into every request context and echoes it
// in the X-Trace-ID header.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = infrastructure.NewTraceID()
		}
		w.Header().Set("X-Trace-ID", traceID)
		next.ServeHTTP(w, r.WithContext(infrastructure.WithTraceID(r.Context(), traceID)))
	})
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			logger.InfoContext(r.Context(), "request handled",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("trace_id", infrastructure.GetTraceID(r.Context())),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Recoverer converts handler panics into a structured 500 response.
func Recoverer(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panicked",
						slog.Any("panic", rec),
						slog.String("path", r.URL.Path))
					_ = render.Render(w, r, apierrors.ErrInternalServer)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies a global token-bucket limit to the wrapped routes.
func RateLimit(rps float64, burst int) func(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				_ = render.Render(w, r, apierrors.ErrRateLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
