// Package trace provides operation ID generation and context propagation so
// every log line of one lifecycle operation (create, teardown, ...) can be
// correlated.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// traceKey is the unexported context key used to store the operation ID.
type traceKey struct{}

// NewID generates a unique operation ID.
func NewID() string {
	return "op_" + uuid.NewString()
}

// WithID returns a child context carrying the given operation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// FromContext extracts the operation ID from ctx, returning "" if absent.
func FromContext(ctx context.Context) string {
	if v, ok := ctx.Value(traceKey{}).(string); ok {
		return v
	}
	return ""
}
