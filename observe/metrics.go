package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricLookups        = "autotune.cache.lookups"
	MetricSearches       = "autotune.search.total"
	MetricSearchErrors   = "autotune.search.errors"
	MetricSearchDuration = "autotune.search.duration_ms"
	MetricFlushes        = "autotune.cache.flushes"
	MetricFlushedEntries = "autotune.cache.flushed_entries"
	MetricFlushMissRate  = "autotune.cache.flush_miss_rate"
	MetricSize           = "autotune.cache.size"
	MetricHits           = "autotune.cache.hits"
	MetricMisses         = "autotune.cache.misses"
	MetricHitRate        = "autotune.cache.hit_rate"
)

// Metrics records algorithm cache and search metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one Find against a family cache.
	RecordLookup(ctx context.Context, meta FamilyMeta, hit bool)

	// RecordSearch records one algorithm search with its duration and outcome.
	RecordSearch(ctx context.Context, meta FamilyMeta, duration time.Duration, err error)

	// RecordFlush records a registry-wide flush, the miss rate that triggered
	// it and how many entries it dropped.
	RecordFlush(ctx context.Context, missRate float64, entries int64)
}

type otelMetrics struct {
	lookups        metric.Int64Counter
	searches       metric.Int64Counter
	searchErrors   metric.Int64Counter
	searchDuration metric.Float64Histogram
	flushes        metric.Int64Counter
	flushedEntries metric.Int64Counter
	flushMissRate  metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	var (
		m   otelMetrics
		err error
	)

	if m.lookups, err = meter.Int64Counter(MetricLookups,
		metric.WithDescription("Algorithm cache lookups by result"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}

	if m.searches, err = meter.Int64Counter(MetricSearches,
		metric.WithDescription("Algorithm searches run on cache misses"),
		metric.WithUnit("{search}"),
	); err != nil {
		return nil, err
	}

	if m.searchErrors, err = meter.Int64Counter(MetricSearchErrors,
		metric.WithDescription("Algorithm searches that failed"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.searchDuration, err = meter.Float64Histogram(MetricSearchDuration,
		metric.WithDescription("Algorithm search duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.flushes, err = meter.Int64Counter(MetricFlushes,
		metric.WithDescription("Registry-wide cache flushes"),
		metric.WithUnit("{flush}"),
	); err != nil {
		return nil, err
	}

	if m.flushedEntries, err = meter.Int64Counter(MetricFlushedEntries,
		metric.WithDescription("Cached configurations dropped by flushes"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	if m.flushMissRate, err = meter.Float64Histogram(MetricFlushMissRate,
		metric.WithDescription("Miss rate that triggered each flush"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.01, 0.02, 0.05, 0.1, 0.25, 0.5, 0.75, 1),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func lookupResult(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func (m *otelMetrics) RecordLookup(ctx context.Context, meta FamilyMeta, hit bool) {
	attrs := append(meta.attributes(), attribute.String(AttrResult, lookupResult(hit)))
	m.lookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *otelMetrics) RecordSearch(ctx context.Context, meta FamilyMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.searches.Add(ctx, 1, opt)
	if err != nil {
		m.searchErrors.Add(ctx, 1, opt)
	}
	m.searchDuration.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

func (m *otelMetrics) RecordFlush(ctx context.Context, missRate float64, entries int64) {
	m.flushes.Add(ctx, 1)
	m.flushMissRate.Record(ctx, missRate)
	if entries > 0 {
		m.flushedEntries.Add(ctx, entries)
	}
}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordLookup(context.Context, FamilyMeta, bool)                 {}
func (nopMetrics) RecordSearch(context.Context, FamilyMeta, time.Duration, error) {}
func (nopMetrics) RecordFlush(context.Context, float64, int64)                    {}

// CacheStats is a point-in-time view of aggregate cache counters.
type CacheStats struct {
	Size    int64
	Hits    int64
	Misses  int64
	HitRate float64
}

// RegisterCacheGauges exports the values returned by snapshot as observable
// gauges. snapshot is called once per collection; unregister the returned
// registration to stop.
func RegisterCacheGauges(meter metric.Meter, snapshot func() CacheStats) (metric.Registration, error) {
	size, err := meter.Int64ObservableGauge(MetricSize,
		metric.WithDescription("Cached configurations across all families"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}
	hits, err := meter.Int64ObservableGauge(MetricHits,
		metric.WithDescription("Cache hits across all families"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64ObservableGauge(MetricMisses,
		metric.WithDescription("Cache misses across all families"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	hitRate, err := meter.Float64ObservableGauge(MetricHitRate,
		metric.WithDescription("Cache hit rate across all families"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := snapshot()
		o.ObserveInt64(size, s.Size)
		o.ObserveInt64(hits, s.Hits)
		o.ObserveInt64(misses, s.Misses)
		o.ObserveFloat64(hitRate, s.HitRate)
		return nil
	}, size, hits, misses, hitRate)
}
