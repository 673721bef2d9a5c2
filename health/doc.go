// Package health reports whether algorithm caches are doing their job.
//
// A Checker reports a Status: Healthy, Degraded or Unhealthy. HitRateChecker
// and SizeChecker inspect any StatsSource, which both a single
// algocache.AlgorithmCache and an algocache.Registry satisfy. An Aggregator
// runs several checkers under one deadline and folds their results into an
// overall status.
//
//	agg := health.NewAggregator()
//	agg.Register("hit_rate", health.NewHitRateChecker(registry, health.HitRateConfig{
//	    WarnBelow:     0.9,
//	    CriticalBelow: 0.5,
//	}))
//	agg.Register("size", health.NewSizeChecker(registry, 100_000))
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
//
// The handlers serve /healthz (liveness), /readyz (plain text) and /health
// (JSON with per-check details).
package health
