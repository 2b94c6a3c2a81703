package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "routesync"

// Span names.
const (
	SpanURLChange   = "routesync.url_change"
	SpanSignalStart = "routesync.signal_start"
	SpanFlush       = "routesync.flush"
	SpanReload      = "routesync.reload"
)

// Attribute keys.
const (
	AttrURL     = attribute.Key("routesync.url")
	AttrRoute   = attribute.Key("routesync.route")
	AttrSignal  = attribute.Key("routesync.signal")
	AttrChanges = attribute.Key("routesync.changes")
	AttrUpdated = attribute.Key("routesync.url_updated")
)

// Tracer wraps an OpenTelemetry tracer.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the global provider. An empty name uses
// "routesync".
func NewTracer(name string) *Tracer {
	if name == "" {
		name = defaultTracerName
	}
	return &Tracer{tracer: otel.Tracer(name)}
}

// NewTracerFrom wraps an existing tracer.
func NewTracerFrom(t trace.Tracer) *Tracer {
	return &Tracer{tracer: t}
}

// Start begins an internal span. A nil Tracer returns a non-recording span.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil || t.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
