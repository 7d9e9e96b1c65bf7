package lsq

import (
	"errors"
	"fmt"
)

// Solver errors.
var (
	// ErrDimension indicates a problem whose sizes disagree with the start point or bounds.
	ErrDimension = errors.New("lsq: dimension mismatch")

	// ErrInfeasibleBounds indicates a lower bound that is not strictly below its upper bound.
	ErrInfeasibleBounds = errors.New("lsq: infeasible bounds")

	// ErrSingularJacobian indicates a Jacobian with a zero column at the start point.
	ErrSingularJacobian = errors.New("lsq: jacobian is singular")

	// ErrNonFinite indicates NaN or Inf in residuals or Jacobian.
	ErrNonFinite = errors.New("lsq: residuals not finite")

	// ErrMaxEvaluations indicates the evaluation budget ran out before convergence.
	ErrMaxEvaluations = errors.New("lsq: maximum function evaluations reached")
)

// SolveError wraps a solver failure with the state reached when it stopped.
type SolveError struct {
	Evaluations int
	Cost        float64
	X           []float64
	Wrapped     error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v (after %d evaluations, cost %g)", e.Wrapped, e.Evaluations, e.Cost)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
