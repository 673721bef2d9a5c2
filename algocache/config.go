package algocache

import (
	"fmt"
	"time"
)

// TuningWindow is the range of execution steps in which searches run.
// Tuning is enabled for steps in [StartStep, StopStep). A negative StopStep
// leaves the window open-ended.
type TuningWindow struct {
	StartStep int64
	StopStep  int64
}

// Contains reports whether step is inside the window.
func (w TuningWindow) Contains(step int64) bool {
	if step < w.StartStep {
		return false
	}
	return w.StopStep < 0 || step < w.StopStep
}

// Config configures a Registry and its Maintainer. Start from DefaultConfig:
// a zero MissTolerance flushes on any miss and a zero Window never tunes.
type Config struct {
	// MissTolerance is the miss rate above which Clean flushes.
	// DefaultConfig uses 0.01.
	MissTolerance float64

	// Shards is the number of family shards. Zero means 16.
	Shards int

	// Window is the tuning window in steps.
	// DefaultConfig uses [1, 10).
	Window TuningWindow

	// RecentSteps is how many steps RecentHitRate averages over.
	// Zero means 10.
	RecentSteps int

	// MaintenanceInterval is the period of Maintainer.Run.
	// Zero disables the timed loop.
	MaintenanceInterval time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MissTolerance: DefaultMissTolerance,
		Shards:        DefaultShards,
		Window:        TuningWindow{StartStep: 1, StopStep: 10},
		RecentSteps:   10,
	}
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.MissTolerance < 0 || c.MissTolerance > 1 {
		return fmt.Errorf("%w: miss tolerance must be in [0, 1], got %v", ErrInvalidConfig, c.MissTolerance)
	}
	if c.Shards < 0 {
		return fmt.Errorf("%w: shards must not be negative, got %d", ErrInvalidConfig, c.Shards)
	}
	if c.Window.StartStep < 0 {
		return fmt.Errorf("%w: start step must not be negative, got %d", ErrInvalidConfig, c.Window.StartStep)
	}
	if c.Window.StopStep >= 0 && c.Window.StopStep < c.Window.StartStep {
		return fmt.Errorf("%w: stop step %d precedes start step %d", ErrInvalidConfig, c.Window.StopStep, c.Window.StartStep)
	}
	if c.RecentSteps < 0 {
		return fmt.Errorf("%w: recent steps must not be negative, got %d", ErrInvalidConfig, c.RecentSteps)
	}
	if c.MaintenanceInterval < 0 {
		return fmt.Errorf("%w: maintenance interval must not be negative, got %v", ErrInvalidConfig, c.MaintenanceInterval)
	}
	return nil
}

// withDefaults fills the fields whose zero value has no meaning.
func (c Config) withDefaults() Config {
	if c.Shards == 0 {
		c.Shards = DefaultShards
	}
	if c.RecentSteps == 0 {
		c.RecentSteps = DefaultConfig().RecentSteps
	}
	return c
}

// RegistryOptions converts the config into Registry options.
func (c Config) RegistryOptions() []Option {
	c = c.withDefaults()
	return []Option{
		WithShards(c.Shards),
		WithFlushPolicy(FlushPolicy{MissTolerance: c.MissTolerance}),
	}
}
