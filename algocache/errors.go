package algocache

import "errors"

var (
	// ErrPreconditionNotMet is returned by Get when the key is absent.
	// Callers must Find a key before reading it.
	ErrPreconditionNotMet = errors.New("algocache: precondition not met: key does not exist")

	// ErrInvalidConfig indicates a Config field is out of range.
	ErrInvalidConfig = errors.New("algocache: invalid config")

	// ErrNilSearch is returned by Tuner.Select when no search function is given.
	ErrNilSearch = errors.New("algocache: search function is nil")
)
