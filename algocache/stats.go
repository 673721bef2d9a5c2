package algocache

// Stats is a snapshot of cache counters.
type Stats struct {
	Size   int64
	Hits   int64
	Misses int64
}

// Accesses returns Hits + Misses.
func (s Stats) Accesses() int64 { return s.Hits + s.Misses }

// HitRate returns Hits / (Hits + Misses), or 0 before any access.
func (s Stats) HitRate() float64 {
	n := s.Accesses()
	if n == 0 {
		return 0
	}
	return float64(s.Hits) / float64(n)
}

// MissRate returns Misses / (Hits + Misses), or 0 before any access.
func (s Stats) MissRate() float64 {
	n := s.Accesses()
	if n == 0 {
		return 0
	}
	return float64(s.Misses) / float64(n)
}

// Add returns the element-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Size:   s.Size + o.Size,
		Hits:   s.Hits + o.Hits,
		Misses: s.Misses + o.Misses,
	}
}

// Since returns the hits and misses accumulated after prev, with the current
// size. Counters that went backwards (a flush reset them) count from zero.
func (s Stats) Since(prev Stats) Stats {
	d := Stats{Size: s.Size, Hits: s.Hits - prev.Hits, Misses: s.Misses - prev.Misses}
	if d.Hits < 0 || d.Misses < 0 {
		d.Hits, d.Misses = s.Hits, s.Misses
	}
	return d
}

// FamilyStats pairs a family name with its live counters.
type FamilyStats struct {
	Family string
	Stats
}
