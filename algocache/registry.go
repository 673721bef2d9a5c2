package algocache

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/jonwraymond/autotune/observe"
)

// DefaultShards is the number of independently locked family shards.
const DefaultShards = 16

// Option configures a Registry.
type Option func(*registryOptions)

type registryOptions struct {
	shards int
	policy FlushPolicy
	mw     *observe.Middleware
}

// WithShards sets the number of family shards. Values below 1 are ignored.
func WithShards(n int) Option {
	return func(o *registryOptions) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithFlushPolicy sets the policy Clean applies.
func WithFlushPolicy(p FlushPolicy) Option {
	return func(o *registryOptions) {
		o.policy = p
	}
}

// WithMiddleware routes flush metrics and status logs through mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(o *registryOptions) {
		if mw != nil {
			o.mw = mw
		}
	}
}

type registryShard[V any] struct {
	mu       sync.Mutex
	families map[string]*AlgorithmCache[V]
}

// Registry owns one AlgorithmCache per algorithm family.
//
// Caches are created on first request and shared by every caller asking for
// the same family. Aggregate counters are a snapshot taken by UpdateStatus,
// not live values.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Lifetime: caches returned by RegisterOrGet stay valid for the life of
//   the registry; Clean empties them in place.
type Registry[V any] struct {
	shards []*registryShard[V]
	policy FlushPolicy
	mw     *observe.Middleware

	flushes atomic.Uint64

	statsMu sync.RWMutex
	total   Stats
}

// NewRegistry creates an empty registry.
func NewRegistry[V any](opts ...Option) *Registry[V] {
	o := registryOptions{
		shards: DefaultShards,
		policy: DefaultFlushPolicy(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mw == nil {
		o.mw = observe.NewMiddleware(nil, nil, nil)
	}

	r := &Registry[V]{
		shards: make([]*registryShard[V], o.shards),
		policy: o.policy,
		mw:     o.mw,
	}
	for i := range r.shards {
		r.shards[i] = &registryShard[V]{families: make(map[string]*AlgorithmCache[V])}
	}
	return r
}

func (r *Registry[V]) shard(family string) *registryShard[V] {
	return r.shards[xxhash.Sum64String(family)%uint64(len(r.shards))]
}

// RegisterOrGet returns the cache for family, creating an empty one on the
// first request.
func (r *Registry[V]) RegisterOrGet(family string) *AlgorithmCache[V] {
	s := r.shard(family)
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.families[family]
	if !ok {
		c = NewAlgorithmCache[V]()
		s.families[family] = c
	}
	return c
}

// Len returns the number of registered families.
func (r *Registry[V]) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.Lock()
		n += len(s.families)
		s.mu.Unlock()
	}
	return n
}

// Families returns the registered family names in sorted order.
func (r *Registry[V]) Families() []string {
	var names []string
	for _, s := range r.shards {
		s.mu.Lock()
		for name := range s.families {
			names = append(names, name)
		}
		s.mu.Unlock()
	}
	slices.Sort(names)
	return names
}

type namedCache[V any] struct {
	name  string
	cache *AlgorithmCache[V]
}

func (r *Registry[V]) caches() []namedCache[V] {
	var out []namedCache[V]
	for _, s := range r.shards {
		s.mu.Lock()
		for name, c := range s.families {
			out = append(out, namedCache[V]{name: name, cache: c})
		}
		s.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b namedCache[V]) int {
		return cmp.Compare(a.name, b.name)
	})
	return out
}

// FamilyStats returns live counters for every family, sorted by name.
func (r *Registry[V]) FamilyStats() []FamilyStats {
	caches := r.caches()
	out := make([]FamilyStats, 0, len(caches))
	for _, nc := range caches {
		out = append(out, FamilyStats{Family: nc.name, Stats: nc.cache.Stats()})
	}
	return out
}

// UpdateStatus recomputes the aggregate size, hits and misses from every
// family and stores them as the current snapshot. Family caches are not
// modified. Cost is linear in the number of families.
func (r *Registry[V]) UpdateStatus(ctx context.Context) Stats {
	logger := r.mw.Logger()

	var total Stats
	for _, fs := range r.FamilyStats() {
		logger.Debug(ctx, "algorithm cache status",
			observe.F(observe.AttrFamily, fs.Family),
			observe.F("size", fs.Size),
			observe.F("hits", fs.Hits),
			observe.F("misses", fs.Misses),
			observe.F("hit_rate", fs.HitRate()),
		)
		total = total.Add(fs.Stats)
	}

	r.statsMu.Lock()
	r.total = total
	r.statsMu.Unlock()
	return total
}

// Clean flushes every family when missRate exceeds the policy tolerance and
// reports whether it did. A flush drops all mappings and per-family counters;
// the caches stay registered and empty. The aggregate snapshot is left as is
// until the next UpdateStatus.
//
// Clean holds one shard lock at a time, so a Set racing with a flush may land
// before or after it.
func (r *Registry[V]) Clean(ctx context.Context, missRate float64) bool {
	if !r.policy.ShouldFlush(missRate) {
		return false
	}

	var dropped int64
	for _, s := range r.shards {
		s.mu.Lock()
		for _, c := range s.families {
			dropped += c.reset()
		}
		s.mu.Unlock()
	}

	r.flushes.Add(1)
	r.mw.Flush(ctx, missRate, dropped)
	return true
}

// Flushes returns how many times Clean has flushed the registry.
func (r *Registry[V]) Flushes() uint64 { return r.flushes.Load() }

// Policy returns the registry's flush policy.
func (r *Registry[V]) Policy() FlushPolicy { return r.policy }

// Stats returns the snapshot taken by the last UpdateStatus.
func (r *Registry[V]) Stats() Stats {
	r.statsMu.RLock()
	defer r.statsMu.RUnlock()
	return r.total
}

// Size returns the total cached configurations at the last UpdateStatus.
func (r *Registry[V]) Size() int64 { return r.Stats().Size }

// CacheHits returns the total hits at the last UpdateStatus.
func (r *Registry[V]) CacheHits() int64 { return r.Stats().Hits }

// CacheMisses returns the total misses at the last UpdateStatus.
func (r *Registry[V]) CacheMisses() int64 { return r.Stats().Misses }

// CacheHitRate returns the aggregate hit rate at the last UpdateStatus, or 0
// when no lookups had been counted.
func (r *Registry[V]) CacheHitRate() float64 { return r.Stats().HitRate() }
