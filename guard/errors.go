package guard

import "errors"

var (
	// ErrBudgetExhausted is returned when the search rate budget is spent.
	ErrBudgetExhausted = errors.New("guard: search budget exhausted")

	// ErrBulkheadFull is returned when no search slot frees up in time.
	ErrBulkheadFull = errors.New("guard: all search slots are busy")

	// ErrBreakerOpen is returned while searches are suspended after failures.
	ErrBreakerOpen = errors.New("guard: searches suspended after repeated failures")

	// ErrTimeout is returned when a search exceeds its time budget.
	ErrTimeout = errors.New("guard: search timed out")
)
