package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type runIDKey struct{}

// StartRun returns ctx carrying a run ID. A context that already has one is
// returned unchanged, so nested callers share the ID of the outer run.
func StartRun(ctx context.Context) context.Context {
	if RunID(ctx) != "" {
		return ctx
	}
	return WithRunID(ctx, uuid.NewString())
}

// WithRunID returns ctx carrying id
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID stored in ctx, or ""
func RunID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// WithComponent tags logger with the component that logs through it.
// A nil logger means the process default.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}
