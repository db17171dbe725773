// Package logctx carries a request-scoped logger through context so that
// lower layers log with the request's correlation fields without depending
// on the HTTP layer.
package logctx

import (
	"context"

	"github.com/bookforge/catalog/internal/observability"
)

type key struct{}

// With returns a context carrying the logger. A nil logger leaves the
// context unchanged.
func With(ctx context.Context, logger observability.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, key{}, logger)
}

// FromOr returns the logger stored on the context, or fallback when the
// context carries none. A nil fallback degrades to a no-op logger so call
// sites never have to nil-check.
func FromOr(ctx context.Context, fallback observability.Logger) observability.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(key{}).(observability.Logger); ok && logger != nil {
			return logger
		}
	}
	if fallback != nil {
		return fallback
	}
	return observability.NopLogger()
}
