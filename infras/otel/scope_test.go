package otel_test

import (
	"context"
	"errors"
	"testing"

	"hallseat/infras/otel"
	otelMocks "hallseat/infras/otel/mocks"
	"hallseat/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScope_RecordsErrorsAndAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "invoice.pay")
	scope := otel.NewScope(span)

	scope.SetAttributes(map[string]any{"invoice": "inv-1", "amount": 1200, "paid": true})
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("card declined"))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "card declined", spans[0].Status().Description)
	assert.Len(t, spans[0].Attributes(), 3)
}

func TestScope_ClientFailureKeepsStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "room.get")
	scope := otel.NewScope(span)

	scope.TraceError(failure.NotFound("room not found"))
	scope.SetAttribute("http.duration_ms", int64(12))
	scope.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "failure", spans[0].Events()[0].Name)
	assert.Equal(t, int64(12), spans[0].Attributes()[0].Value.AsInt64())
}

func TestMockScope_IsNoop(t *testing.T) {
	scope := otelMocks.NewScope()

	assert.NotPanics(t, func() {
		scope.SetAttributes(map[string]any{"key": "value"})
		scope.TraceIfError(errors.New("ignored"))
		scope.End()
	})
}
