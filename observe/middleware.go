package observe

import (
	"context"
	"time"
)

// SearchFunc is an algorithm search reduced to its outcome.
type SearchFunc func(ctx context.Context) error

// Middleware wraps algorithm searches and lookups with tracing, metrics and
// logging.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: the span context is passed to the wrapped search.
//   - Errors: errors from the search are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// MiddlewareFromObserver builds a Middleware from an Observer's primitives.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger { return m.logger }

// Metrics returns the middleware's metrics.
func (m *Middleware) Metrics() Metrics { return m.metrics }

// Lookup records the outcome of a cache Find.
func (m *Middleware) Lookup(ctx context.Context, meta FamilyMeta, hit bool) {
	m.metrics.RecordLookup(ctx, meta, hit)
}

// Search runs fn inside a span, then records its duration and logs the outcome.
func (m *Middleware) Search(ctx context.Context, meta FamilyMeta, fingerprint string, fn SearchFunc) error {
	ctx, span := m.tracer.StartSpan(ctx, meta, fingerprint)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	m.tracer.EndSpan(span, err)
	m.metrics.RecordSearch(ctx, meta, duration, err)

	logger := m.logger.WithFamily(meta)
	fields := []Field{
		F(AttrFingerprint, fingerprint),
		F("duration_ms", float64(duration)/float64(time.Millisecond)),
	}
	if err != nil {
		fields = append(fields, F("error", err))
		logger.Warn(ctx, "algorithm search failed", fields...)
	} else {
		logger.Debug(ctx, "algorithm search completed", fields...)
	}
	return err
}

// Flush records and logs a registry-wide flush.
func (m *Middleware) Flush(ctx context.Context, missRate float64, entries int64) {
	m.metrics.RecordFlush(ctx, missRate, entries)
	m.logger.Warn(ctx, "algorithm cache flushed",
		F("miss_rate", missRate),
		F("entries", entries),
	)
}
