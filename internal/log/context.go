package log

import (
	"context"

	"github.com/anchore/go-logger"
)

type ctxKey struct{}

// WithLogger attaches the logger to the context.
func WithLogger(ctx context.Context, lgr logger.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, lgr)
}

// FromContext returns the logger carried by the context, or the package-level logger when there is none.
func FromContext(ctx context.Context) logger.Logger {
	if ctx == nil {
		return Get()
	}
	if lgr, ok := ctx.Value(ctxKey{}).(logger.Logger); ok && lgr != nil {
		return lgr
	}
	return Get()
}

// WithNested derives a logger with the given fields from the one in the context and returns a context carrying it,
// so that collaborators called with the new context log with the same fields.
func WithNested(ctx context.Context, fields ...any) (context.Context, logger.Logger) {
	lgr := FromContext(ctx).Nested(fields...)
	return WithLogger(ctx, lgr), lgr
}
