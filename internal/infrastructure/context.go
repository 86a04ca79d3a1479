package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDContextKey is the key for storing the trace ID in a context.
const TraceIDContextKey contextKey = "trace_id"

// WithTraceID returns a context carrying the trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace ID from a context, or "" when absent.
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDContextKey).(string); ok {
		return v
	}
	return ""
}

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.NewString()
}
