package kernel

import "errors"

var (
	// ErrEmptyInput is returned when an operation needs at least one point.
	ErrEmptyInput = errors.New("kernel: empty point set")

	// ErrDegenerateAxis is returned when a rotation axis has (near) zero
	// length or non-finite components.
	ErrDegenerateAxis = errors.New("kernel: degenerate rotation axis")
)
