package risk

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the estimators. Callers match with errors.Is;
// the HTTP layer maps each kind to a response code.
var (
	// ErrInsufficientData means the sample is too small for the requested
	// window or horizon. Recoverable: shrink the window or fetch more history.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidData means malformed input: a non-positive price or
	// non-monotonic timestamps.
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidParameter means an out-of-domain scalar parameter
	// (sigma <= 0, expiry <= 0, negative model order).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateSample means a tail computation found no qualifying
	// observations.
	ErrDegenerateSample = errors.New("degenerate sample")

	// ErrFitConvergence means the likelihood optimizer failed to converge
	// or produced a non-finite objective.
	ErrFitConvergence = errors.New("fit did not converge")
)

// ParamError wraps ErrInvalidParameter with the offending parameter name
// and value so the reporting layer can render both.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v", e.Name, e.Value)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }

// NewParamError builds a ParamError.
func NewParamError(name string, value float64) *ParamError {
	return &ParamError{Name: name, Value: value}
}
