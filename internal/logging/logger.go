// Package logging configures log/slog for the conversion service and ties
// request-scoped loggers to chi's RequestID middleware.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup installs the global slog handler. Level is one of debug, info, warn,
// error (default info); format is text or json (default text). JSON is the
// production format, text the local one.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns the default logger, enriched with request_id when the
// context carries a chi request ID. Every log line of one HTTP request then
// shares the same correlation key:
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("starting conversion", "master_rows", n)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	return logger
}

// WithFields returns a context-aware logger carrying extra fields, for
// multi-step operations that log under one identity:
//
//	runLogger := logging.WithFields(ctx, "run_id", runID, "vendor", vendor)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
