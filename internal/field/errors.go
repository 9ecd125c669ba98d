package field

import "errors"

// Domain errors for field and tracing operations.
var (
	// ErrNoCharges indicates an operation that needs at least one charge.
	ErrNoCharges = errors.New("field: system has no charges")

	// ErrInvalidPoint indicates a NaN/Inf coordinate was produced.
	ErrInvalidPoint = errors.New("field: invalid point (NaN or Inf detected)")

	// ErrParameterBounds indicates a setting outside its valid range.
	ErrParameterBounds = errors.New("field: parameter out of valid bounds")
)
