package rectpack

import "errors"

// Error kinds returned from Pack. Every failure wraps exactly one of these
// sentinels, so callers can branch with errors.Is regardless of strategy.
var (
	// ErrInvalidInput indicates a zero or negative size, a duplicate
	// identifier, or an empty item set.
	ErrInvalidInput = errors.New("rectpack: invalid input")

	// ErrBinSizeExceeded indicates that bin growth, binary search, or
	// candidate enumeration reached its hard maximum without placing every
	// item.
	ErrBinSizeExceeded = errors.New("rectpack: bin size exceeded")

	// ErrUnsatisfiable indicates the solver proved that no arrangement
	// exists at the requested or candidate sizes.
	ErrUnsatisfiable = errors.New("rectpack: unsatisfiable")

	// ErrTimeout indicates the solver exceeded its time budget without a
	// definitive answer.
	ErrTimeout = errors.New("rectpack: timeout")
)
