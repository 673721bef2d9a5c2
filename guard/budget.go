package guard

import (
	"context"
	"sync"
	"time"
)

// Budget is a token bucket that caps how many searches start per second.
// Searches over budget are rejected, not delayed: the caller falls back and
// the key is searched again on a later miss.
type Budget struct {
	rate  float64
	burst float64
	now   func() time.Time

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewBudget creates a full Budget. Burst defaults to 1.
func NewBudget(perSecond float64, burst int) *Budget {
	if burst <= 0 {
		burst = 1
	}
	b := &Budget{rate: perSecond, burst: float64(burst), now: time.Now}
	b.tokens = b.burst
	b.last = b.now()
	return b
}

// Allow takes a token if one is available.
func (b *Budget) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Tokens returns the tokens currently available.
func (b *Budget) Tokens() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked()
	return b.tokens
}

func (b *Budget) refillLocked() {
	now := b.now()
	b.tokens = min(b.burst, b.tokens+now.Sub(b.last).Seconds()*b.rate)
	b.last = now
}

// Execute runs op if the budget allows it.
func (b *Budget) Execute(ctx context.Context, op func(context.Context) error) error {
	if !b.Allow() {
		return ErrBudgetExhausted
	}
	return op(ctx)
}
