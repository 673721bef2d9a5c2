// Package algocache remembers which algorithm variant was fastest for an
// operator configuration, so repeated calls skip the expensive search.
//
// An AlgorithmCache maps a fingerprint.Fingerprint to a selected algorithm
// value and counts hits and misses. A Registry owns one AlgorithmCache per
// algorithm family, creates them on first use, aggregates their statistics
// on demand, and flushes all of them when the aggregate miss rate exceeds a
// small tolerance. A Maintainer drives the registry from the execution loop,
// and a Tuner wraps the find, search, set sequence for kernels.
//
// # Usage
//
//	reg := algocache.NewRegistry[int64]()
//	cache := reg.RegisterOrGet(algocache.FamilyConvForward)
//	key := fingerprint.ConvKey(xDims, wDims, strides, paddings, dilations, fingerprint.Float32)
//	if cache.Find(key) {
//	    algo := cache.MustGet(key)
//	    _ = algo
//	} else {
//	    cache.Set(key, searchBestAlgo())
//	}
//
// # Concurrency
//
// Each AlgorithmCache has its own mutex; the registry locks its family
// shards separately. Find followed by Get is not atomic as a pair: a flush
// or an overwriting Set may land between them. Get then reports
// ErrPreconditionNotMet or returns the newer value. Tuner treats the former
// as a miss. Use a single Registry per execution context; there is no
// process-wide instance.
package algocache
