// Command autotune-sim drives the algorithm cache with a simulated training
// loop and serves its health and metrics over HTTP.
//
// Every step the simulated model launches the same kernels; the first steps
// search and fill the caches, later steps hit. AUTOTUNE_DYNAMIC_SHAPES mixes
// in matmuls with a random batch size, which keeps missing and makes the
// registry flush when the tuning window closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/autotune/algocache"
	"github.com/jonwraymond/autotune/guard"
	"github.com/jonwraymond/autotune/health"
	"github.com/jonwraymond/autotune/observe"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, loadConfig()); err != nil {
		fmt.Fprintln(os.Stderr, "autotune-sim:", err)
		os.Exit(1)
	}
}

type sim struct {
	cfg        config
	logger     observe.Logger
	registry   *algocache.Registry[string]
	maintainer *algocache.Maintainer[string]
	tuner      *algocache.Tuner[string]
	guard      *guard.Guard
	searcher   searcher
	ops        []op
}

func newSim(cfg config, mw *observe.Middleware) (*sim, error) {
	opts := append(cfg.cache.RegistryOptions(), algocache.WithMiddleware(mw))
	registry := algocache.NewRegistry[string](opts...)

	maintainer, err := algocache.NewMaintainer(registry, cfg.cache, mw.Logger())
	if err != nil {
		return nil, err
	}

	g := guard.New(cfg.guard)
	tuner := algocache.NewTuner(registry,
		algocache.WithEnabled[string](maintainer.Enabled),
		algocache.WithExecutor[string](g),
		algocache.WithFallback("default"),
	)

	return &sim{
		cfg:        cfg,
		logger:     mw.Logger(),
		registry:   registry,
		maintainer: maintainer,
		tuner:      tuner,
		guard:      g,
		searcher:   searcher{min: cfg.searchMin, max: cfg.searchMax, failRate: cfg.failRate},
		ops:        model(),
	}, nil
}

func run(ctx context.Context, cfg config) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	obs, err := observe.NewObserver(ctx, cfg.observe)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return err
	}

	s, err := newSim(cfg, mw)
	if err != nil {
		return err
	}

	gauges, err := algocache.RegisterGauges(obs.Meter(), s.registry)
	if err != nil {
		return err
	}
	defer func() { _ = gauges.Unregister() }()

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.cache.MaintenanceInterval > 0 {
		grp.Go(func() error { return s.maintainer.Run(ctx) })
	}
	grp.Go(func() error {
		defer cancel()
		return s.simulate(ctx)
	})

	return grp.Wait()
}

func (s *sim) handler() http.Handler {
	agg := health.NewAggregator()
	agg.Register("hit_rate", health.NewHitRateChecker(s.registry, health.HitRateConfig{
		WarnBelow:     s.cfg.hitRateWarn,
		CriticalBelow: s.cfg.hitRateCritical,
	}))
	agg.Register("size", health.NewSizeChecker(s.registry, s.cfg.sizeLimit))
	if b := s.guard.Breaker(); b != nil {
		agg.Register("search_breaker", health.NewCheckerFunc("search_breaker", func(context.Context) health.Result {
			if st := b.State(); st != guard.StateClosed {
				return health.Degraded("searches suspended").WithDetails(map[string]any{"state": st.String()})
			}
			return health.Healthy("searching")
		}))
	}

	mux := http.NewServeMux()
	health.RegisterHandlers(mux, agg)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// simulate runs the configured number of steps, then returns.
func (s *sim) simulate(ctx context.Context) error {
	start := time.Now()
	for step := range s.cfg.steps {
		if err := s.runStep(ctx, uint64(step)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.maintainer.Step(ctx)

		total := s.registry.Stats()
		s.logger.Info(ctx, "step finished",
			observe.F("step", s.maintainer.StepID()),
			observe.F("tuning", s.maintainer.Enabled()),
			observe.F("size", total.Size),
			observe.F("hit_rate", total.HitRate()),
			observe.F("step_hit_rate", s.maintainer.StepHitRate()),
		)
	}

	total := s.registry.UpdateStatus(ctx)
	s.logger.Info(ctx, "simulation finished",
		observe.F("steps", s.cfg.steps),
		observe.F("elapsed_ms", time.Since(start).Milliseconds()),
		observe.F("size", total.Size),
		observe.F("hits", total.Hits),
		observe.F("misses", total.Misses),
		observe.F("flushes", s.registry.Flushes()),
	)
	return nil
}

// runStep launches opsPerRun kernels spread over the workers.
func (s *sim) runStep(ctx context.Context, step uint64) error {
	grp, ctx := errgroup.WithContext(ctx)
	for w := range s.cfg.workers {
		grp.Go(func() error {
			r := rand.New(rand.NewPCG(step, uint64(w)))
			for i := w; i < s.cfg.opsPerRun; i += s.cfg.workers {
				o := s.ops[i%len(s.ops)]
				if r.Float64() < s.cfg.dynamic {
					o = dynamicOp(r)
				}
				// Failed searches fall back and are logged by the tuner.
				_, _ = s.tuner.Select(ctx, o.family, o.key, s.searcher.search(o, r))
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return grp.Wait()
}
