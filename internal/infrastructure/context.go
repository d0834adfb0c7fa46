package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// ContextWithTraceID creates a new context with a generated trace ID
func ContextWithTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, GenerateTraceID())
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed.
// The command-line tool uses it so a whole run shares one trace_id.
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return ContextWithTraceID(ctx)
	}
	return ctx
}
