package search

import "errors"

var (
	// ErrInvalidParameter is returned for non-positive resolutions, depths,
	// iteration counts or a missing random source.
	ErrInvalidParameter = errors.New("search: invalid parameter")

	// ErrBudgetExceeded is returned when the context ends before the search
	// completes. It wraps the context's own error.
	ErrBudgetExceeded = errors.New("search: budget exceeded")
)
