package policy

import "errors"

var (
	// ErrNegativeRate is returned when a builder is given a negative rate.
	ErrNegativeRate = errors.New("rate must be non-negative")

	// ErrNegativeBurst is returned when a builder is given a negative burst.
	ErrNegativeBurst = errors.New("burst must be non-negative")

	// ErrNegativeTolerance is returned when a builder is given a negative tolerance.
	ErrNegativeTolerance = errors.New("tolerance must be non-negative")

	// ErrNegativeGap is returned when a builder is given a negative gap.
	ErrNegativeGap = errors.New("gap must be non-negative")
)
