package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Attribute and log field keys.
const (
	AttrFamily      = "family.name"
	AttrOp          = "family.op"
	AttrFingerprint = "autotune.fingerprint"
	AttrResult      = "autotune.result"
	AttrError       = "autotune.error"
)

// FamilyMeta identifies the algorithm family an event belongs to.
type FamilyMeta struct {
	Family string // algorithm family, e.g. "conv_forward" (required)
	Op     string // operator that triggered the event (optional)
}

// Validate reports ErrMissingFamily when Family is empty.
func (m FamilyMeta) Validate() error {
	if m.Family == "" {
		return ErrMissingFamily
	}
	return nil
}

// SpanName returns the span name for a search in this family.
// Format: autotune.search.<family>
func (m FamilyMeta) SpanName() string {
	return "autotune.search." + m.Family
}

func (m FamilyMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(AttrFamily, m.Family)}
	if m.Op != "" {
		attrs = append(attrs, attribute.String(AttrOp, m.Op))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with search-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one algorithm search.
	StartSpan(ctx context.Context, meta FamilyMeta, fingerprint string) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type otelTracer struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &otelTracer{tracer: t}
}

func (t *otelTracer) StartSpan(ctx context.Context, meta FamilyMeta, fingerprint string) (context.Context, trace.Span) {
	attrs := append(meta.attributes(),
		attribute.String(AttrFingerprint, fingerprint),
		attribute.Bool(AttrError, false),
	)
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *otelTracer) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool(AttrError, true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopTracer returns a tracer whose spans record nothing.
func NopTracer() Tracer {
	return &otelTracer{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}
