package algocache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/autotune/observe"
)

// Maintainer drives a Registry's UpdateStatus and Clean from the owning
// execution loop.
//
// Step is called once per executed step (for example one training
// iteration). Searches are enabled only while the step is inside the tuning
// window; each in-window step refreshes the aggregate statistics, and the
// first step past the window flushes the registry if the miss rate of the
// last in-window step is above tolerance. Warm-up misses early in the window
// do not count; shapes that keep changing do. Run additionally performs the same refresh-and-clean
// on a timer, using the miss rate of each interval.
type Maintainer[V any] struct {
	registry *Registry[V]
	cfg      Config
	logger   observe.Logger

	step    atomic.Int64
	enabled atomic.Bool

	mu          sync.Mutex
	closed      bool    // the end-of-window clean ran
	last        Stats   // totals at the previous in-window step
	lastGen     uint64  // registry flush count when last was taken
	recent      []Stats // per-step deltas, newest last
	lastTick    Stats
	lastTickGen uint64
}

// NewMaintainer creates a Maintainer for r. A nil logger discards output.
func NewMaintainer[V any](r *Registry[V], cfg Config, logger observe.Logger) (*Maintainer[V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observe.NopLogger()
	}
	m := &Maintainer[V]{
		registry: r,
		cfg:      cfg.withDefaults(),
		logger:   logger,
	}
	m.enabled.Store(m.cfg.Window.Contains(0))
	return m, nil
}

// StepID returns the current step number. Steps start at 0.
func (m *Maintainer[V]) StepID() int64 { return m.step.Load() }

// Enabled reports whether searches should run in the current step.
func (m *Maintainer[V]) Enabled() bool { return m.enabled.Load() }

// Step advances to the next step and applies the window rules.
func (m *Maintainer[V]) Step(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	step := m.step.Add(1)
	inWindow := m.cfg.Window.Contains(step)
	m.enabled.Store(inWindow)

	switch {
	case inWindow:
		total, delta := m.recordLocked(ctx)
		m.logger.Debug(ctx, "autotune step",
			observe.F("step", step),
			observe.F("hit_rate", total.HitRate()),
			observe.F("step_hit_rate", delta.HitRate()),
			observe.F("size", total.Size),
		)

	case !m.closed && m.cfg.Window.StopStep >= 0 && step >= m.cfg.Window.StopStep:
		m.closed = true
		if len(m.recent) == 0 {
			// No step ran inside the window, so there is nothing to judge.
			m.logger.Debug(ctx, "autotune window closed without tuning", observe.F("step", step))
			return
		}
		_, delta := m.recordLocked(ctx)
		missRate := delta.MissRate()
		flushed := m.registry.Clean(ctx, missRate)
		m.logger.Info(ctx, "autotune window closed",
			observe.F("step", step),
			observe.F("miss_rate", missRate),
			observe.F("flushed", flushed),
		)
	}
}

// recordLocked samples the registry and appends the step's delta to the
// recent history.
func (m *Maintainer[V]) recordLocked(ctx context.Context) (total, delta Stats) {
	total, delta = m.sample(ctx, &m.last, &m.lastGen)
	m.recent = append(m.recent, delta)
	if over := len(m.recent) - m.cfg.RecentSteps; over > 0 {
		m.recent = m.recent[over:]
	}
	return total, delta
}

func (m *Maintainer[V]) recentLocked() Stats {
	var sum Stats
	for _, s := range m.recent {
		sum = sum.Add(s)
	}
	return sum
}

// StepHitRate returns the hit rate of the latest in-window step.
func (m *Maintainer[V]) StepHitRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.recent) == 0 {
		return 0
	}
	return m.recent[len(m.recent)-1].HitRate()
}

// RecentHitRate returns the hit rate over the last RecentSteps in-window steps.
func (m *Maintainer[V]) RecentHitRate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recentLocked().HitRate()
}

// Tick refreshes the aggregate statistics and cleans the registry using the
// miss rate observed since the previous Tick. It reports whether a flush
// happened. Intervals without lookups never flush.
func (m *Maintainer[V]) Tick(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, delta := m.sample(ctx, &m.lastTick, &m.lastTickGen)
	if delta.Accesses() == 0 {
		return false
	}
	return m.registry.Clean(ctx, delta.MissRate())
}

// sample refreshes the registry totals and returns them with the change
// since *prev. Counters are measured from zero when a flush happened since
// *prev was taken.
func (m *Maintainer[V]) sample(ctx context.Context, prev *Stats, prevGen *uint64) (total, delta Stats) {
	gen := m.registry.Flushes()
	total = m.registry.UpdateStatus(ctx)
	if gen != *prevGen {
		*prev = Stats{}
		*prevGen = gen
	}
	delta = total.Since(*prev)
	*prev = total
	return total, delta
}

// Run calls Tick every MaintenanceInterval until ctx is done.
func (m *Maintainer[V]) Run(ctx context.Context) error {
	if m.cfg.MaintenanceInterval <= 0 {
		return fmt.Errorf("%w: maintenance interval is not set", ErrInvalidConfig)
	}

	ticker := time.NewTicker(m.cfg.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}
