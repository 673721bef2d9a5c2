package guard

import (
	"context"
	"time"
)

// Config selects and configures the parts of a Guard. A zero field disables
// the corresponding part.
type Config struct {
	// SearchesPerSecond caps the rate at which searches start.
	SearchesPerSecond float64
	// Burst is the number of searches that may start at once. Default: 1.
	Burst int

	// MaxConcurrent bounds concurrent searches.
	MaxConcurrent int
	// MaxWait is how long a search waits for a slot.
	MaxWait time.Duration

	// MaxFailures opens the breaker after this many consecutive failures.
	MaxFailures int
	// Cooldown is how long searches stay suspended. Default: 30 seconds.
	Cooldown time.Duration

	// Timeout bounds each search.
	Timeout time.Duration
}

// Guard runs searches through a budget, a bulkhead, a breaker and a timeout,
// outermost first. Absent parts are skipped.
type Guard struct {
	budget   *Budget
	bulkhead *Bulkhead
	breaker  *Breaker
	timeout  *Timeout
}

// New builds a Guard from cfg.
func New(cfg Config) *Guard {
	g := &Guard{}
	if cfg.SearchesPerSecond > 0 {
		g.budget = NewBudget(cfg.SearchesPerSecond, cfg.Burst)
	}
	if cfg.MaxConcurrent > 0 {
		g.bulkhead = NewBulkhead(BulkheadConfig{MaxConcurrent: cfg.MaxConcurrent, MaxWait: cfg.MaxWait})
	}
	if cfg.MaxFailures > 0 {
		g.breaker = NewBreaker(BreakerConfig{MaxFailures: cfg.MaxFailures, Cooldown: cfg.Cooldown})
	}
	if cfg.Timeout > 0 {
		g.timeout = NewTimeout(cfg.Timeout)
	}
	return g
}

// Budget returns the search budget, or nil.
func (g *Guard) Budget() *Budget { return g.budget }

// Bulkhead returns the bulkhead, or nil.
func (g *Guard) Bulkhead() *Bulkhead { return g.bulkhead }

// Breaker returns the breaker, or nil.
func (g *Guard) Breaker() *Breaker { return g.breaker }

// Execute runs op through every configured part.
func (g *Guard) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op

	if g.timeout != nil {
		inner := run
		run = func(ctx context.Context) error { return g.timeout.Execute(ctx, inner) }
	}
	if g.breaker != nil {
		inner := run
		run = func(ctx context.Context) error { return g.breaker.Execute(ctx, inner) }
	}
	if g.bulkhead != nil {
		inner := run
		run = func(ctx context.Context) error { return g.bulkhead.Execute(ctx, inner) }
	}
	if g.budget != nil {
		inner := run
		run = func(ctx context.Context) error { return g.budget.Execute(ctx, inner) }
	}

	return run(ctx)
}
