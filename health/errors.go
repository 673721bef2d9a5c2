package health

import "errors"

var (
	// ErrCheckFailed marks an unhealthy result.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout indicates a check did not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker has the requested name.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
