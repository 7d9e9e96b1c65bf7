package hill

import (
	"errors"
	"fmt"
)

// Domain errors for fitting operations.
var (
	// ErrInsufficientData indicates fewer samples than the model has parameters.
	ErrInsufficientData = errors.New("hill: insufficient data")

	// ErrLengthMismatch indicates x and y of different lengths.
	ErrLengthMismatch = errors.New("hill: x and y lengths differ")

	// ErrNonFinite indicates NaN or Inf among the samples.
	ErrNonFinite = errors.New("hill: samples contain NaN or Inf")

	// ErrDomainOrder indicates x not sorted ascending, or not strictly positive.
	ErrDomainOrder = errors.New("hill: x must be ascending and positive")

	// ErrConvergence indicates the bounded solver failed or the bounds are infeasible.
	ErrConvergence = errors.New("hill: fit did not converge")

	// ErrDomain indicates a log-spaced resample over a non-positive x range.
	ErrDomain = errors.New("hill: log-spaced domain requires positive x")

	// ErrResolution indicates a resample count that cannot span a domain.
	ErrResolution = errors.New("hill: invalid resample count")
)

// FitError wraps a domain error with the operation and the triggering condition.
type FitError struct {
	Op     string
	Kind   error
	Detail string
	Err    error
}

func (e *FitError) Error() string {
	msg := fmt.Sprintf("%v in %s", e.Kind, e.Op)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FitError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, err error, format string, args ...any) error {
	return &FitError{Op: op, Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}
