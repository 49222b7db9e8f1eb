package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Attribute keys for the ids that follow a request through the logs.
const (
	KeyRequestID     = "request_id"
	KeyTraceID       = "trace_id"
	KeyCorrelationID = "correlation_id"
)

type ctxKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(slog.Default())
}

// Default is the logger used for contexts that carry none.
func Default() *slog.Logger { return fallback.Load() }

// SetDefault replaces Default and the slog package default.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
	slog.SetDefault(logger)
}

// FromContext returns the request's logger, or Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return Default()
}

// Lookup reports whether a logger was stored in ctx. The HTTP logging
// middleware uses it so it never replaces an enriched logger.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, ok := ctx.Value(ctxKey{}).(*slog.Logger)

	return logger, ok && logger != nil
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// With returns ctx with its logger enriched by args, in slog's key-value
// form. Every later FromContext(ctx) line carries them.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return With(ctx, KeyRequestID, id)
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return With(ctx, KeyTraceID, id)
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return With(ctx, KeyCorrelationID, id)
}
