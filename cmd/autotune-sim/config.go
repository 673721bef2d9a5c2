package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/autotune/algocache"
	"github.com/jonwraymond/autotune/guard"
	"github.com/jonwraymond/autotune/observe"
)

type config struct {
	addr      string
	workers   int
	steps     int
	opsPerRun int
	dynamic   float64
	failRate  float64
	searchMin time.Duration
	searchMax time.Duration

	cache   algocache.Config
	guard   guard.Config
	observe observe.Config

	hitRateWarn     float64
	hitRateCritical float64
	sizeLimit       int64
}

func loadConfig() config {
	cache := algocache.DefaultConfig()
	cache.MissTolerance = getEnvFloat("AUTOTUNE_MISS_TOLERANCE", cache.MissTolerance)
	cache.Shards = getEnvInt("AUTOTUNE_SHARDS", cache.Shards)
	cache.Window.StartStep = int64(getEnvInt("AUTOTUNE_START_STEP", int(cache.Window.StartStep)))
	cache.Window.StopStep = int64(getEnvInt("AUTOTUNE_STOP_STEP", int(cache.Window.StopStep)))
	cache.RecentSteps = getEnvInt("AUTOTUNE_RECENT_STEPS", cache.RecentSteps)
	cache.MaintenanceInterval = getEnvDuration("AUTOTUNE_MAINTENANCE_INTERVAL", 0)

	return config{
		addr:      getEnv("AUTOTUNE_ADDR", ":9464"),
		workers:   getEnvInt("AUTOTUNE_WORKERS", 4),
		steps:     getEnvInt("AUTOTUNE_STEPS", 20),
		opsPerRun: getEnvInt("AUTOTUNE_OPS_PER_STEP", 50),
		dynamic:   getEnvFloat("AUTOTUNE_DYNAMIC_SHAPES", 0),
		failRate:  getEnvFloat("AUTOTUNE_SEARCH_FAIL_RATE", 0),
		searchMin: getEnvDuration("AUTOTUNE_SEARCH_MIN", time.Millisecond),
		searchMax: getEnvDuration("AUTOTUNE_SEARCH_MAX", 5*time.Millisecond),

		cache: cache,
		guard: guard.Config{
			SearchesPerSecond: getEnvFloat("AUTOTUNE_SEARCH_RATE", 0),
			Burst:             getEnvInt("AUTOTUNE_SEARCH_BURST", 1),
			MaxConcurrent:     getEnvInt("AUTOTUNE_MAX_SEARCHES", 1),
			MaxWait:           getEnvDuration("AUTOTUNE_SEARCH_WAIT", time.Second),
			MaxFailures:       getEnvInt("AUTOTUNE_MAX_FAILURES", 5),
			Cooldown:          getEnvDuration("AUTOTUNE_COOLDOWN", 10*time.Second),
			Timeout:           getEnvDuration("AUTOTUNE_SEARCH_TIMEOUT", time.Second),
		},
		observe: observe.Config{
			ServiceName: getEnv("AUTOTUNE_SERVICE_NAME", "autotune-sim"),
			Version:     getEnv("AUTOTUNE_VERSION", "dev"),
			Tracing: observe.TracingConfig{
				Enabled:   getEnvBool("AUTOTUNE_TRACING", false),
				Exporter:  getEnv("AUTOTUNE_TRACING_EXPORTER", "stdout"),
				SamplePct: getEnvFloat("AUTOTUNE_TRACING_SAMPLE", 1),
			},
			Metrics: observe.MetricsConfig{
				Enabled:  getEnvBool("AUTOTUNE_METRICS", true),
				Exporter: getEnv("AUTOTUNE_METRICS_EXPORTER", "prometheus"),
			},
			Logging: observe.LoggingConfig{
				Enabled: true,
				Level:   getEnv("AUTOTUNE_LOG_LEVEL", "info"),
			},
		},

		hitRateWarn:     getEnvFloat("AUTOTUNE_HIT_RATE_WARN", 0.9),
		hitRateCritical: getEnvFloat("AUTOTUNE_HIT_RATE_CRITICAL", 0.5),
		sizeLimit:       int64(getEnvInt("AUTOTUNE_SIZE_LIMIT", 100_000)),
	}
}

func (c config) validate() error {
	if c.workers <= 0 {
		return fmt.Errorf("AUTOTUNE_WORKERS must be positive, got %d", c.workers)
	}
	if c.searchMax < c.searchMin {
		return fmt.Errorf("AUTOTUNE_SEARCH_MAX %v is below AUTOTUNE_SEARCH_MIN %v", c.searchMax, c.searchMin)
	}
	if err := c.cache.Validate(); err != nil {
		return err
	}
	return c.observe.Validate()
}

func getEnv(key, fallback string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}
