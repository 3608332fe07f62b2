package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/sipe/inventory-api/internal/core/service")

// startSpan opens a span for a service operation. The returned func ends the
// span and records err when it is non-nil.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span, func(err error)) {
	ctx, span := tracer.Start(ctx, name)
	return ctx, span, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
