package algocache

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/autotune/observe"
)

// RegisterGauges exports the registry's last UpdateStatus snapshot as
// observable gauges on meter.
func RegisterGauges[V any](meter metric.Meter, r *Registry[V]) (metric.Registration, error) {
	return observe.RegisterCacheGauges(meter, func() observe.CacheStats {
		s := r.Stats()
		return observe.CacheStats{
			Size:    s.Size,
			Hits:    s.Hits,
			Misses:  s.Misses,
			HitRate: s.HitRate(),
		}
	})
}
