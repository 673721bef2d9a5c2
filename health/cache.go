package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/autotune/algocache"
)

// StatsSource exposes cache counters.
type StatsSource interface {
	Stats() algocache.Stats
}

// HitRateConfig configures a HitRateChecker.
type HitRateConfig struct {
	// WarnBelow is the hit rate under which the cache is degraded.
	// Default: 0.9
	WarnBelow float64

	// CriticalBelow is the hit rate under which the cache is unhealthy.
	// Default: 0.5
	CriticalBelow float64

	// MinAccesses is the number of lookups needed before the rate is judged.
	MinAccesses int64
}

// HitRateChecker flags caches that keep missing, which means searches run on
// the hot path.
type HitRateChecker struct {
	src    StatsSource
	config HitRateConfig
}

// NewHitRateChecker creates a HitRateChecker.
func NewHitRateChecker(src StatsSource, config HitRateConfig) *HitRateChecker {
	if config.WarnBelow <= 0 || config.WarnBelow > 1 {
		config.WarnBelow = 0.9
	}
	if config.CriticalBelow <= 0 || config.CriticalBelow > 1 {
		config.CriticalBelow = 0.5
	}
	config.CriticalBelow = min(config.CriticalBelow, config.WarnBelow)
	return &HitRateChecker{src: src, config: config}
}

func (c *HitRateChecker) Name() string { return "hit_rate" }

func (c *HitRateChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	s := c.src.Stats()
	rate := s.HitRate()
	details := map[string]any{
		"size":     s.Size,
		"hits":     s.Hits,
		"misses":   s.Misses,
		"hit_rate": rate,
	}

	if s.Accesses() == 0 || s.Accesses() < c.config.MinAccesses {
		return Healthy("not enough lookups to judge").WithDetails(details)
	}
	if rate < c.config.CriticalBelow {
		return Unhealthy(fmt.Sprintf("hit rate critical: %.1f%%", rate*100), ErrCheckFailed).WithDetails(details)
	}
	if rate < c.config.WarnBelow {
		return Degraded(fmt.Sprintf("hit rate low: %.1f%%", rate*100)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("hit rate %.1f%%", rate*100)).WithDetails(details)
}

// SizeChecker reports degraded once a cache holds more than a soft limit of
// entries. The caches never evict, so unbounded growth usually means keys
// include a value that changes every call.
type SizeChecker struct {
	src   StatsSource
	limit int64
}

// NewSizeChecker creates a SizeChecker. A non-positive limit never degrades.
func NewSizeChecker(src StatsSource, limit int64) *SizeChecker {
	return &SizeChecker{src: src, limit: limit}
}

func (c *SizeChecker) Name() string { return "size" }

func (c *SizeChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	size := c.src.Stats().Size
	details := map[string]any{"size": size, "limit": c.limit}

	if c.limit > 0 && size > c.limit {
		return Degraded(fmt.Sprintf("%d entries exceed limit %d", size, c.limit)).WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d entries", size)).WithDetails(details)
}
