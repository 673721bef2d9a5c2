// Package guard protects algorithm searches.
//
// Searches benchmark candidate kernels on shared hardware. Running many at
// once slows them and skews their timings. A search that hangs stalls the
// operator that triggered it, and one that keeps failing wastes time on every
// miss. The package provides a primitive for each concern:
//
//   - Budget: caps how many searches start per second.
//   - Bulkhead: bounds the number of concurrent searches.
//   - Breaker: stops searching for a cool-down after repeated failures.
//   - Timeout: bounds the duration of a single search.
//
// Guard composes them in that order, outermost first:
//
//	g := guard.New(guard.Config{
//	    MaxConcurrent: 1,
//	    MaxFailures:   3,
//	    Cooldown:      time.Minute,
//	    Timeout:       5 * time.Second,
//	})
//	err := g.Execute(ctx, func(ctx context.Context) error {
//	    best, err = benchmark(ctx)
//	    return err
//	})
package guard
