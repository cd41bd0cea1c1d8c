package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// scope is what a request carries: its logger and, once the HTTP middleware
// has run, the request ID that every log line and error reply refers to.
type scope struct {
	logger    *slog.Logger
	requestID string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(ctxKey{}).(scope)
	return s
}

// WithContext attaches logger to ctx, keeping any request ID already there.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = logger
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request-scoped logger, or slog.Default() when none
// was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return slog.Default()
}

// With returns ctx carrying a logger enriched with args.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// RequestID reports the ID assigned by HTTPMiddleware, or "" outside a request.
func RequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

func withRequest(ctx context.Context, logger *slog.Logger, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, scope{logger: logger, requestID: requestID})
}
