package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// ToContext stores log in ctx for FromContext.
func ToContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the request-scoped logger, or slog.Default when the
// context carries none. It never returns nil.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}

// With adds attributes to the context logger and returns the logger along
// with a context carrying it:
//
//	log, ctx := logger.With(ctx, "budget_id", budgetID)
func With(ctx context.Context, args ...any) (*slog.Logger, context.Context) {
	log := FromContext(ctx).With(args...)
	return log, ToContext(ctx, log)
}
