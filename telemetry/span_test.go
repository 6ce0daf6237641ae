package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	return recorder
}

func TestStartClientSpanSuccess(t *testing.T) {
	recorder := setupRecorder(t)

	_, finish := StartClientSpan(context.Background(), "Balance", "GET", "http://api.local/api", "/funds/1")
	finish(200, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP.BrickBid.Balance", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
}

func TestStartClientSpanHTTPError(t *testing.T) {
	recorder := setupRecorder(t)

	_, finish := StartClientSpan(context.Background(), "PlaceOrder", "PUT", "http://api.local/api", "/marketorder")
	finish(400, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "HTTP 400", spans[0].Status().Description)
}

func TestStartClientSpanTransportError(t *testing.T) {
	recorder := setupRecorder(t)

	_, finish := StartClientSpan(context.Background(), "Property", "GET", "http://api.local/api", "/getproperties/1")
	finish(0, errors.New("connection refused"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1, "expected a recorded error event")
}
