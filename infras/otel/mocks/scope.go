package mocks

import (
	"hallseat/infras/otel"

	"go.opentelemetry.io/otel/trace/noop"
)

// NewScope returns a scope over a non-recording span, so every call is a no-op.
func NewScope() otel.Scope {
	return otel.NewScope(noop.Span{})
}
