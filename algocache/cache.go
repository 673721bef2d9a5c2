package algocache

import (
	"fmt"
	"sync"

	"github.com/jonwraymond/autotune/fingerprint"
)

// AlgorithmCache maps fingerprints of one algorithm family to the selected
// algorithm. It never evicts; only a registry flush empties it.
//
// Contract:
// - Concurrency: every method is safe for concurrent use.
// - Statistics: only Find changes the hit and miss counters.
// - Errors: Get is the only method that fails, with ErrPreconditionNotMet.
type AlgorithmCache[V any] struct {
	mu      sync.Mutex
	entries map[fingerprint.Fingerprint]V
	hits    int64
	misses  int64
}

// NewAlgorithmCache creates an empty cache.
func NewAlgorithmCache[V any]() *AlgorithmCache[V] {
	return &AlgorithmCache[V]{
		entries: make(map[fingerprint.Fingerprint]V),
	}
}

// Find reports whether key is cached and counts the lookup as a hit or miss.
func (c *AlgorithmCache[V]) Find(key fingerprint.Fingerprint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return ok
}

// Get returns the value stored for key. It does not touch the counters.
// An absent key is a caller error reported as ErrPreconditionNotMet.
func (c *AlgorithmCache[V]) Get(key fingerprint.Fingerprint) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w (key %s)", ErrPreconditionNotMet, key)
	}
	return v, nil
}

// MustGet is like Get but panics when key is absent.
func (c *AlgorithmCache[V]) MustGet(key fingerprint.Fingerprint) V {
	v, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Set stores value for key, replacing any previous value.
func (c *AlgorithmCache[V]) Set(key fingerprint.Fingerprint, value V) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Size returns the number of cached configurations.
func (c *AlgorithmCache[V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.entries))
}

// CacheHits returns the number of Find calls that found their key.
func (c *AlgorithmCache[V]) CacheHits() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// CacheMisses returns the number of Find calls that did not.
func (c *AlgorithmCache[V]) CacheMisses() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.misses
}

// CacheHitRate returns hits/(hits+misses), or 0 before the first Find.
func (c *AlgorithmCache[V]) CacheHitRate() float64 {
	return c.Stats().HitRate()
}

// Stats returns size, hits and misses read under one lock.
func (c *AlgorithmCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:   int64(len(c.entries)),
		Hits:   c.hits,
		Misses: c.misses,
	}
}

// reset drops every entry and zeroes the counters. It returns the number of
// entries dropped.
func (c *AlgorithmCache[V]) reset() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(c.entries))
	clear(c.entries)
	c.hits = 0
	c.misses = 0
	return n
}
