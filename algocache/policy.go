package algocache

// DefaultMissTolerance is the aggregate miss rate above which a Registry
// flushes every family. The near-zero value treats sustained misses, as
// produced by dynamic shapes, as a sign the cache is only growing.
const DefaultMissTolerance = 0.01

// FlushPolicy decides when Clean wipes the registry.
type FlushPolicy struct {
	// MissTolerance is the miss rate that must be exceeded to flush.
	MissTolerance float64
}

// DefaultFlushPolicy returns a policy with DefaultMissTolerance.
func DefaultFlushPolicy() FlushPolicy {
	return FlushPolicy{MissTolerance: DefaultMissTolerance}
}

// ShouldFlush reports whether missRate is strictly above the tolerance.
func (p FlushPolicy) ShouldFlush(missRate float64) bool {
	return missRate > p.MissTolerance
}
