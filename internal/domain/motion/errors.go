package motion

import (
	"errors"
)

// Error kinds shared by the engine packages. Callers match with errors.Is;
// the service boundary maps them to status codes.
var (
	// ErrInvalidInput marks violated input contracts: wrong cardinality,
	// empty recordings, non-positive target lengths, malformed points.
	ErrInvalidInput = errors.New("invalid input")

	// ErrComputation marks impossible numeric results (NaN or infinity).
	// Guarded against even though the documented algorithm cannot produce
	// them from finite inputs.
	ErrComputation = errors.New("computation failed")
)
