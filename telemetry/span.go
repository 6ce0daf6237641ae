// Package telemetry instruments outgoing platform API calls with
// OpenTelemetry client spans. A span exporter is only active when the host
// process installs one; otherwise spans are no-ops.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const tracerName = "brickbid-go"

// StartClientSpan opens a span for one HTTP call against the platform API
// and returns a finish function to call once the response (or failure) is
// known.
func StartClientSpan(ctx context.Context, operation, method, baseURL, path string) (context.Context, func(statusCode int, err error)) {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "HTTP.BrickBid."+operation)

	span.SetAttributes(
		semconv.HTTPRequestMethodKey.String(method),
		semconv.URLFull(baseURL+path),
		attribute.String("http.target", path),
	)

	return ctx, func(statusCode int, err error) {
		defer span.End()

		if statusCode > 0 {
			span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(statusCode))
		}

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case statusCode >= 400:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		default:
			span.SetStatus(codes.Ok, "success")
		}
	}
}
