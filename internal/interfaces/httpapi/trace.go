package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var tracer = otel.Tracer("tournament-admin/internal/interfaces/httpapi")

// handlerSpan opens a child span named after the handler method. Requests the
// tracing middleware filtered out carry no parent and get no span at all.
func handlerSpan(ctx context.Context, method string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, handlerSpanPrefix+method)
}
