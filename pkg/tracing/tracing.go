package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer sets the tracer used by StartSpan. Until it is called spans are no-ops.
func SetTracer(t trace.Tracer) {
	tracer = t
}

func activeSpan(ctx context.Context) trace.Span {
	if tracer == nil {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// StartSpan starts a new span with the given name and returns the context and span.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}

// Carrier returns the W3C trace context headers for the active span.
func Carrier(ctx context.Context) map[string]string {
	if activeSpan(ctx) == nil {
		return nil
	}
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)
	return carrier
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	span := activeSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the span ID from the context.
func GetSpanID(ctx context.Context) string {
	span := activeSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
