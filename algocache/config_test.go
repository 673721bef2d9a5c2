package algocache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/autotune/fingerprint"
)

func TestTuningWindow_Contains(t *testing.T) {
	w := TuningWindow{StartStep: 1, StopStep: 10}
	assert.False(t, w.Contains(0))
	assert.True(t, w.Contains(1))
	assert.True(t, w.Contains(9))
	assert.False(t, w.Contains(10))

	open := TuningWindow{StartStep: 5, StopStep: -1}
	assert.False(t, open.Contains(4))
	assert.True(t, open.Contains(1<<40))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero value", func(c *Config) { *c = Config{} }, false},
		{"tolerance above one", func(c *Config) { c.MissTolerance = 1.5 }, true},
		{"negative tolerance", func(c *Config) { c.MissTolerance = -0.1 }, true},
		{"negative shards", func(c *Config) { c.Shards = -1 }, true},
		{"negative start", func(c *Config) { c.Window.StartStep = -1 }, true},
		{"stop before start", func(c *Config) { c.Window = TuningWindow{StartStep: 5, StopStep: 2} }, true},
		{"open window", func(c *Config) { c.Window.StopStep = -1 }, false},
		{"negative recent", func(c *Config) { c.RecentSteps = -1 }, true},
		{"negative interval", func(c *Config) { c.MaintenanceInterval = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_RegistryOptions(t *testing.T) {
	r := NewRegistry[int](Config{MissTolerance: 0.2, Shards: 4}.RegistryOptions()...)
	assert.Equal(t, 0.2, r.Policy().MissTolerance)
	assert.Len(t, r.shards, 4)

	r = NewRegistry[int](Config{}.RegistryOptions()...)
	assert.Zero(t, r.Policy().MissTolerance)
	assert.Len(t, r.shards, DefaultShards)
}

func TestConfig_ZeroToleranceFlushesOnAnyMiss(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry[int](Config{MissTolerance: 0}.RegistryOptions()...)
	c := r.RegisterOrGet(FamilyConvForward)
	c.Set(fingerprint.MustKey(1), 7)

	assert.False(t, r.Clean(ctx, 0))
	assert.True(t, r.Clean(ctx, 0.005))
	assert.Zero(t, c.Size())
}

func TestConfig_ZeroWindowNeverTunes(t *testing.T) {
	r, m := newTestMaintainer(t, Config{Window: TuningWindow{}})
	ctx := context.Background()
	c := r.RegisterOrGet(FamilyConvForward)
	c.Set(fingerprint.MustKey(1), 1)

	assert.False(t, m.Enabled())
	for i := range 20 {
		c.Find(fingerprint.MustKey(i))
		m.Step(ctx)
		assert.False(t, m.Enabled())
	}
	assert.Zero(t, r.Flushes())
	assert.Equal(t, int64(1), c.Size())
}
