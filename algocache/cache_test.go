package algocache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonwraymond/autotune/fingerprint"
)

func conv2dKey() fingerprint.Fingerprint {
	return fingerprint.ConvKey(
		[]int64{1, 3, 224, 224}, []int64{64, 3, 3, 3},
		[]int{1, 1}, []int{0, 0}, []int{1, 1},
		fingerprint.Float32,
	)
}

func TestAlgorithmCache_Conv2dScenario(t *testing.T) {
	c := NewAlgorithmCache[int]()
	k1 := conv2dKey()

	assert.False(t, c.Find(k1))
	assert.Equal(t, int64(1), c.CacheMisses())

	c.Set(k1, 7)
	assert.True(t, c.Find(k1))
	assert.Equal(t, int64(1), c.CacheHits())

	v, err := c.Get(k1)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.InDelta(t, 0.5, c.CacheHitRate(), 1e-12)
	assert.Equal(t, int64(1), c.Size())
}

func TestAlgorithmCache_HitRateBeforeLookups(t *testing.T) {
	c := NewAlgorithmCache[int]()
	assert.Zero(t, c.CacheHitRate())

	c.Set(fingerprint.MustKey(1), 1)
	assert.Zero(t, c.CacheHitRate(), "Set must not count as a lookup")
}

func TestAlgorithmCache_GetMissingKey(t *testing.T) {
	c := NewAlgorithmCache[string]()
	c.Set(fingerprint.MustKey(1), "a")
	c.Find(fingerprint.MustKey(1))
	before := c.Stats()

	v, err := c.Get(fingerprint.MustKey(2))
	require.ErrorIs(t, err, ErrPreconditionNotMet)
	assert.Empty(t, v)
	assert.Equal(t, before, c.Stats(), "failed Get must leave the cache unchanged")

	assert.Panics(t, func() { c.MustGet(fingerprint.MustKey(2)) })
}

func TestAlgorithmCache_GetDoesNotCount(t *testing.T) {
	c := NewAlgorithmCache[int]()
	k := fingerprint.MustKey(4, 5)
	c.Set(k, 1)

	for range 3 {
		_, err := c.Get(k)
		require.NoError(t, err)
	}
	assert.Zero(t, c.CacheHits())
	assert.Zero(t, c.CacheMisses())
}

func TestAlgorithmCache_SetOverwrites(t *testing.T) {
	c := NewAlgorithmCache[int]()
	k := fingerprint.MustKey(1, 2)

	c.Set(k, 1)
	c.Set(k, 2)

	assert.Equal(t, 2, c.MustGet(k))
	assert.Equal(t, int64(1), c.Size())
}

func TestAlgorithmCache_FindConsistentWithGet(t *testing.T) {
	c := NewAlgorithmCache[int]()
	for i := range 50 {
		if i%3 == 0 {
			c.Set(fingerprint.MustKey(i), i)
		}
	}

	for i := range 50 {
		k := fingerprint.MustKey(i)
		found := c.Find(k)
		_, err := c.Get(k)
		assert.Equal(t, found, err == nil, "key %d", i)
	}
}

func TestAlgorithmCache_Reset(t *testing.T) {
	c := NewAlgorithmCache[int]()
	c.Set(fingerprint.MustKey(1), 1)
	c.Set(fingerprint.MustKey(2), 2)
	c.Find(fingerprint.MustKey(1))
	c.Find(fingerprint.MustKey(3))

	assert.Equal(t, int64(2), c.reset())
	assert.Equal(t, Stats{}, c.Stats())
}

func TestAlgorithmCache_Concurrent(t *testing.T) {
	c := NewAlgorithmCache[int]()
	const (
		workers = 8
		perWork = 500
	)

	var wg sync.WaitGroup
	for w := range workers {
		wg.Go(func() {
			for i := range perWork {
				k := fingerprint.MustKey(i % 64)
				if !c.Find(k) {
					c.Set(k, w)
				}
			}
		})
	}
	wg.Wait()

	s := c.Stats()
	assert.Equal(t, int64(workers*perWork), s.Accesses())
	assert.Equal(t, int64(64), s.Size)
	assert.GreaterOrEqual(t, s.Misses, int64(64))
}
