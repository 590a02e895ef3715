package logging

import (
	"context"
	"log/slog"
)

// contextKey is a private type so the logger key cannot collide with keys
// set by other packages.
type contextKey string

const loggerKey = contextKey("logger")

// ContextWithLogger returns a child context carrying the given logger.
// Callers that marshal external requests into posting requests are expected
// to enrich the logger with request-scoped fields before calling the engine.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from the context,
// falling back to the default logger when none was attached.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
