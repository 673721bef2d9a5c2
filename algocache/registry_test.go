package algocache

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/autotune/fingerprint"
	"github.com/jonwraymond/autotune/observe"
)

func TestRegistry_RegisterOrGetSharesInstance(t *testing.T) {
	r := NewRegistry[int]()

	a := r.RegisterOrGet(FamilyConvForward)
	b := r.RegisterOrGet(FamilyConvForward)
	require.Same(t, a, b)

	a.Set(fingerprint.MustKey(1), 1)
	assert.True(t, b.Find(fingerprint.MustKey(1)))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ConcurrentRegisterOrGet(t *testing.T) {
	r := NewRegistry[int](WithShards(2))

	got := make([]*AlgorithmCache[int], 32)
	var wg sync.WaitGroup
	for i := range got {
		wg.Go(func() { got[i] = r.RegisterOrGet(FamilyMatmul) })
	}
	wg.Wait()

	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Families(t *testing.T) {
	r := NewRegistry[int](WithShards(1))
	for _, f := range []string{FamilyTranspose, FamilyConvForward, FamilyMatmul} {
		r.RegisterOrGet(f)
	}

	assert.Equal(t, []string{FamilyConvForward, FamilyMatmul, FamilyTranspose}, r.Families())
}

func TestRegistry_UpdateStatusSumsFamilies(t *testing.T) {
	r := NewRegistry[int]()
	conv := r.RegisterOrGet(FamilyConvForward)
	mm := r.RegisterOrGet(FamilyMatmul)

	k := fingerprint.MustKey(1)
	conv.Find(k)
	conv.Set(k, 1)
	conv.Find(k)
	mm.Find(k)
	mm.Find(k)
	mm.Set(k, 2)
	mm.Set(fingerprint.MustKey(2), 3)

	total := r.UpdateStatus(context.Background())
	assert.Equal(t, Stats{Size: 3, Hits: 1, Misses: 3}, total)
	assert.Equal(t, total, r.Stats())
	assert.Equal(t, int64(3), r.Size())
	assert.Equal(t, int64(1), r.CacheHits())
	assert.Equal(t, int64(3), r.CacheMisses())
	assert.InDelta(t, 0.25, r.CacheHitRate(), 1e-12)
}

func TestRegistry_StatsAreSnapshots(t *testing.T) {
	r := NewRegistry[int]()
	c := r.RegisterOrGet(FamilyConvForward)

	assert.Zero(t, r.CacheHitRate(), "no lookups yet")

	c.Find(fingerprint.MustKey(1))
	assert.Zero(t, r.CacheMisses(), "snapshot not refreshed yet")

	r.UpdateStatus(context.Background())
	assert.Equal(t, int64(1), r.CacheMisses())
}

func TestRegistry_Clean(t *testing.T) {
	tests := []struct {
		name     string
		missRate float64
		flushed  bool
	}{
		{"above tolerance", 0.02, true},
		{"below tolerance", 0.005, false},
		{"at tolerance", 0.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry[int]()
			for i, f := range Families {
				c := r.RegisterOrGet(f)
				c.Set(fingerprint.MustKey(i), i)
				c.Find(fingerprint.MustKey(i))
			}

			assert.Equal(t, tt.flushed, r.Clean(context.Background(), tt.missRate))

			for _, fs := range r.FamilyStats() {
				if tt.flushed {
					assert.Equal(t, Stats{}, fs.Stats, fs.Family)
				} else {
					assert.Equal(t, Stats{Size: 1, Hits: 1}, fs.Stats, fs.Family)
				}
			}
			assert.Equal(t, len(Families), r.Len(), "families stay registered")
			if tt.flushed {
				assert.Equal(t, uint64(1), r.Flushes())
			} else {
				assert.Zero(t, r.Flushes())
			}
		})
	}
}

func TestRegistry_CleanKeepsHandlesValid(t *testing.T) {
	r := NewRegistry[int]()
	c := r.RegisterOrGet(FamilyTranspose)
	c.Set(fingerprint.MustKey(1), 1)

	require.True(t, r.Clean(context.Background(), 1))

	c.Set(fingerprint.MustKey(2), 2)
	assert.True(t, r.RegisterOrGet(FamilyTranspose).Find(fingerprint.MustKey(2)))
}

func TestRegistry_CleanLeavesSnapshot(t *testing.T) {
	r := NewRegistry[int]()
	c := r.RegisterOrGet(FamilyConvForward)
	c.Find(fingerprint.MustKey(1))
	r.UpdateStatus(context.Background())

	r.Clean(context.Background(), 1)
	assert.Equal(t, int64(1), r.CacheMisses())

	r.UpdateStatus(context.Background())
	assert.Zero(t, r.CacheMisses())
}

func TestRegistry_CustomPolicy(t *testing.T) {
	r := NewRegistry[int](WithFlushPolicy(FlushPolicy{MissTolerance: 0.5}))
	r.RegisterOrGet(FamilyMatmul)

	assert.False(t, r.Clean(context.Background(), 0.4))
	assert.True(t, r.Clean(context.Background(), 0.6))
	assert.Equal(t, 0.5, r.Policy().MissTolerance)
}

func TestRegistry_CleanLogsFlush(t *testing.T) {
	var buf bytes.Buffer
	mw := observe.NewMiddleware(nil, nil, observe.NewLoggerWithWriter("debug", &buf))
	r := NewRegistry[int](WithMiddleware(mw))
	r.RegisterOrGet(FamilyConvForward).Set(fingerprint.MustKey(1), 1)

	r.UpdateStatus(context.Background())
	r.Clean(context.Background(), 0.5)

	out := buf.String()
	assert.Contains(t, out, "algorithm cache status")
	assert.Contains(t, out, "algorithm cache flushed")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestRegistry_WithShardsIgnoresNonPositive(t *testing.T) {
	r := NewRegistry[int](WithShards(0))
	assert.Len(t, r.shards, DefaultShards)

	r = NewRegistry[int](WithShards(3))
	assert.Len(t, r.shards, 3)
}
