package algocache

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/autotune/fingerprint"
	"github.com/jonwraymond/autotune/observe"
)

// SearchFunc benchmarks the candidate algorithms for one configuration and
// returns the best. It is supplied by the kernel layer.
type SearchFunc[V any] func(ctx context.Context) (V, error)

// Executor runs an operation under some protection, such as a concurrency
// limit or a timeout. *guard.Guard implements it.
type Executor interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// TunerOption configures a Tuner.
type TunerOption[V any] func(*Tuner[V])

// WithFallback sets the value returned when no search can run or the search
// fails. Defaults to the zero value of V.
func WithFallback[V any](v V) TunerOption[V] {
	return func(t *Tuner[V]) { t.fallback = v }
}

// WithEnabled sets the predicate that decides whether a miss may search.
// Pass Maintainer.Enabled to honor the tuning window. Defaults to always.
func WithEnabled[V any](enabled func() bool) TunerOption[V] {
	return func(t *Tuner[V]) {
		if enabled != nil {
			t.enabled = enabled
		}
	}
}

// WithExecutor runs every search through exec.
func WithExecutor[V any](exec Executor) TunerOption[V] {
	return func(t *Tuner[V]) { t.exec = exec }
}

// WithTunerMiddleware records lookups and searches through mw.
func WithTunerMiddleware[V any](mw *observe.Middleware) TunerOption[V] {
	return func(t *Tuner[V]) {
		if mw != nil {
			t.mw = mw
		}
	}
}

// Tuner selects algorithms through a Registry: a hit returns the cached
// value, a miss runs the search once, caches the result and returns it.
//
// Contract:
//   - Concurrency: safe for concurrent use. Concurrent misses on the same
//     family and fingerprint share one search, run with the first caller's
//     context.
//   - Errors: search failures are not cached. Select returns the fallback
//     together with the error; the fallback is always usable.
type Tuner[V any] struct {
	registry *Registry[V]
	mw       *observe.Middleware
	exec     Executor
	enabled  func() bool
	fallback V
	group    singleflight.Group
}

// NewTuner creates a Tuner over r.
func NewTuner[V any](r *Registry[V], opts ...TunerOption[V]) *Tuner[V] {
	t := &Tuner[V]{
		registry: r,
		mw:       r.mw,
		enabled:  func() bool { return true },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Select returns the algorithm for key in family, searching on a miss.
//
// When tuning is disabled a miss returns the fallback without searching and
// without error.
func (t *Tuner[V]) Select(ctx context.Context, family string, key fingerprint.Fingerprint, search SearchFunc[V]) (V, error) {
	if search == nil {
		return t.fallback, ErrNilSearch
	}

	meta := observe.FamilyMeta{Family: family}
	cache := t.registry.RegisterOrGet(family)

	hit := cache.Find(key)
	t.mw.Lookup(ctx, meta, hit)
	if hit {
		v, err := cache.Get(key)
		if err == nil {
			return v, nil
		}
		// A flush landed between Find and Get.
		t.mw.Logger().WithFamily(meta).Debug(ctx, "cached algorithm vanished before read",
			observe.F(observe.AttrFingerprint, key.String()))
	}

	if !t.enabled() {
		return t.fallback, nil
	}

	fp := key.String()
	res, err, _ := t.group.Do(family+"/"+fp, func() (any, error) {
		var best V
		run := func(ctx context.Context) error {
			return t.mw.Search(ctx, meta, fp, func(ctx context.Context) error {
				v, err := search(ctx)
				if err != nil {
					return &searchError{err: err}
				}
				best = v
				return nil
			})
		}

		var err error
		if t.exec != nil {
			err = t.exec.Execute(ctx, run)
		} else {
			err = run(ctx)
		}
		if err != nil {
			return nil, err
		}

		cache.Set(key, best)
		return best, nil
	})
	if err != nil {
		t.logRejected(ctx, meta, fp, err)
		return t.fallback, err
	}
	v, _ := res.(V)
	return v, nil
}

// logRejected logs failures that happened before the search ran; the
// middleware already logged failures of the search itself.
func (t *Tuner[V]) logRejected(ctx context.Context, meta observe.FamilyMeta, fp string, err error) {
	var searchErr *searchError
	if errors.As(err, &searchErr) {
		return
	}
	t.mw.Logger().WithFamily(meta).Warn(ctx, "algorithm search skipped",
		observe.F(observe.AttrFingerprint, fp),
		observe.F("error", err),
	)
}

type searchError struct{ err error }

func (e *searchError) Error() string { return e.err.Error() }
func (e *searchError) Unwrap() error { return e.err }
