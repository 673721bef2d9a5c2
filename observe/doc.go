// Package observe provides observability primitives for algorithm selection.
//
// It is a pure instrumentation library: structured logging, cache and search
// metrics, and search spans on top of OpenTelemetry. No algorithm search and
// no cache logic lives here; the algocache package wires these primitives
// into its tuner and maintenance loop.
package observe
