// Package app contains the application services: recipe browsing, shopping
// lists and the cooking advisor. Services coordinate the domain packages with
// adapters through ports.
//
// What does NOT belong here:
//   - HTTP specifics (adapters/http)
//   - SQL, S3 or model provider calls (adapters)
//   - Quantity parsing and merging (domain/quantity)
package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

// loggerFor prefers the request-scoped logger so request ids appear in
// service logs, falling back to the service's own logger.
func loggerFor(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := logging.Lookup(ctx); ok {
		return l
	}

	return fallback
}

func defaultLogger(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}

	return l.With(slog.String("component", component))
}
