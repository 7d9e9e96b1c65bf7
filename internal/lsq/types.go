package lsq

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Problem describes a bounded least-squares problem in Dim variables with Size residuals.
type Problem struct {
	Dim  int
	Size int

	// Func writes the Size residuals at x into dst.
	Func func(dst, x []float64)

	// Jac writes the Size x Dim Jacobian of Func at x into dst.
	// A forward-difference approximation is used when Jac is nil.
	Jac func(dst *mat.Dense, x []float64)

	// Lower and Upper may hold infinities; nil means unbounded.
	Lower []float64
	Upper []float64
}

func (p Problem) validate(x0 []float64) error {
	if p.Dim <= 0 || p.Size < p.Dim {
		return fmt.Errorf("%w: %d variables, %d residuals", ErrDimension, p.Dim, p.Size)
	}
	if p.Func == nil {
		return fmt.Errorf("%w: nil residual function", ErrDimension)
	}
	if len(x0) != p.Dim {
		return fmt.Errorf("%w: start point has %d values, want %d", ErrDimension, len(x0), p.Dim)
	}
	if p.Lower != nil && len(p.Lower) != p.Dim || p.Upper != nil && len(p.Upper) != p.Dim {
		return fmt.Errorf("%w: bounds length", ErrDimension)
	}
	for i := 0; i < p.Dim; i++ {
		lo, hi := p.lower(i), p.upper(i)
		if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
			return fmt.Errorf("%w: variable %d has [%g, %g]", ErrInfeasibleBounds, i, lo, hi)
		}
		if math.IsNaN(x0[i]) || math.IsInf(x0[i], 0) {
			return fmt.Errorf("%w: start point", ErrNonFinite)
		}
	}
	return nil
}

func (p Problem) lower(i int) float64 {
	if p.Lower == nil {
		return math.Inf(-1)
	}
	return p.Lower[i]
}

func (p Problem) upper(i int) float64 {
	if p.Upper == nil {
		return math.Inf(1)
	}
	return p.Upper[i]
}

// Settings controls termination of the solver.
type Settings struct {
	// MaxEvaluations caps residual evaluations, Jacobian evaluations excluded.
	MaxEvaluations int

	// FTol stops when the accepted cost reduction falls below FTol*cost.
	FTol float64
	// XTol stops when ||dx|| < XTol*(XTol + ||x||).
	XTol float64
	// GTol stops when the scaled gradient's max-norm falls below GTol.
	GTol float64

	// Damping seeds the Levenberg-Marquardt parameter relative to the
	// largest diagonal entry of the scaled normal matrix.
	Damping float64
}

const (
	DefaultMaxEvaluations = 32767
	DefaultTolerance      = 1e-8
	DefaultDamping        = 1e-3
)

func DefaultSettings() Settings {
	return Settings{
		MaxEvaluations: DefaultMaxEvaluations,
		FTol:           DefaultTolerance,
		XTol:           DefaultTolerance,
		GTol:           DefaultTolerance,
		Damping:        DefaultDamping,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.MaxEvaluations <= 0 {
		s.MaxEvaluations = d.MaxEvaluations
	}
	if s.FTol <= 0 {
		s.FTol = d.FTol
	}
	if s.XTol <= 0 {
		s.XTol = d.XTol
	}
	if s.GTol <= 0 {
		s.GTol = d.GTol
	}
	if s.Damping <= 0 {
		s.Damping = d.Damping
	}
	return s
}

// Status reports which criterion ended a successful solve.
type Status int

const (
	StatusFTol Status = iota + 1
	StatusXTol
	StatusGTol
)

func (s Status) String() string {
	switch s {
	case StatusFTol:
		return "ftol"
	case StatusXTol:
		return "xtol"
	case StatusGTol:
		return "gtol"
	default:
		return "unknown"
	}
}

type Result struct {
	X              []float64
	Residuals      []float64
	Cost           float64
	Iterations     int
	Evaluations    int
	JacEvaluations int
	Status         Status
}
