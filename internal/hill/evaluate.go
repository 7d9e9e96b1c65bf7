package hill

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result is the model resampled over the data's x range and its score.
type Result struct {
	XFit     []float64 `json:"x_fit"`
	YFit     []float64 `json:"y_fit"`
	RSquared float64   `json:"r_squared"`
}

// Evaluate resamples the model on numPoints log-spaced values between the first
// and last x (both included) and scores p against the original samples.
// numPoints <= 0 resamples at len(y) points.
func Evaluate(x, y []float64, p Params, numPoints int) (*Result, error) {
	const op = "evaluate"
	if err := validateSeries(op, x, y, 2); err != nil {
		return nil, err
	}
	if numPoints <= 0 {
		numPoints = len(y)
	}
	xFit, err := LogSpace(x[0], x[len(x)-1], numPoints)
	if err != nil {
		return nil, err
	}
	return &Result{
		XFit:     xFit,
		YFit:     p.EvalAll(xFit),
		RSquared: RSquared(x, y, p),
	}, nil
}

// LogSpace returns n values evenly spaced in log10 between lo and hi, with
// the endpoints exactly lo and hi.
func LogSpace(lo, hi float64, n int) ([]float64, error) {
	const op = "logspace"
	if n < 2 {
		return nil, newError(op, ErrResolution, nil, "%d points, need at least 2", n)
	}
	if lo <= 0 || hi <= 0 {
		return nil, newError(op, ErrDomain, nil, "range [%g, %g]", lo, hi)
	}
	out := floats.LogSpan(make([]float64, n), lo, hi)
	out[0], out[n-1] = lo, hi
	return out, nil
}

// RSquared is the coefficient of determination of p's predictions at x
// against y. It is not clamped: a model worse than the mean scores below 0.
func RSquared(x, y []float64, p Params) float64 {
	return stat.RSquaredFrom(p.EvalAll(x), y, nil)
}

func validateSeries(op string, x, y []float64, minPoints int) error {
	if len(x) != len(y) {
		return newError(op, ErrLengthMismatch, nil, "x has %d values, y has %d", len(x), len(y))
	}
	if len(x) < minPoints {
		return newError(op, ErrInsufficientData, nil, "dataset has %d points, need at least %d", len(x), minPoints)
	}
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return newError(op, ErrNonFinite, nil, "sample %d is (%g, %g)", i, x[i], y[i])
		}
		if i > 0 && x[i] < x[i-1] {
			return newError(op, ErrDomainOrder, nil, "x[%d]=%g is below x[%d]=%g", i, x[i], i-1, x[i-1])
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
