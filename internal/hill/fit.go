package hill

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hillfit/internal/metrics"
)

// boundTolerance is the relative distance under which a parameter counts as
// sitting on its bound.
const boundTolerance = 1e-6

// Report is one complete fit: the estimation, the resampled curve, residual
// metrics and any quality warnings.
type Report struct {
	Estimation
	Result
	Points   int                `json:"points"`
	Metrics  map[string]float64 `json:"metrics"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Fit estimates parameters, resamples the curve and scores it.
func Fit(ctx context.Context, x, y []float64, opts ...Option) (*Report, error) {
	o := buildOptions(opts)
	est, err := (&Estimator{opts: o}).EstimateDetailed(ctx, x, y)
	if err != nil {
		return nil, err
	}
	res, err := Evaluate(x, y, est.Params, o.Resolution)
	if err != nil {
		return nil, err
	}

	return &Report{
		Estimation: *est,
		Result:     *res,
		Points:     len(x),
		Metrics:    metrics.Collect(metrics.Default(), y, est.Params.EvalAll(x)),
		Warnings:   Check(x, est),
	}, nil
}

// Check flags fits that are valid but doubtful: an EC50 outside the observed
// x range, or a fitted parameter pinned against its bound.
func Check(x []float64, est *Estimation) []string {
	var warnings []string
	p := est.Params
	if lo, hi := x[0], x[len(x)-1]; p.EC50 < lo || p.EC50 > hi {
		warnings = append(warnings, fmt.Sprintf("ec50 %g lies outside the observed range [%g, %g]", p.EC50, lo, hi))
	}

	v, lo, hi := p.vector(), est.Bounds.Lower.vector(), est.Bounds.Upper.vector()
	for i := range v {
		if est.FixedBottom && i == idxBottom {
			continue
		}
		tol := boundTolerance * math.Max(1, math.Abs(hi[i]-lo[i]))
		switch {
		case v[i]-lo[i] < tol:
			warnings = append(warnings, fmt.Sprintf("%s %g is at its lower bound %g", paramNames[i], v[i], lo[i]))
		case hi[i]-v[i] < tol:
			warnings = append(warnings, fmt.Sprintf("%s %g is at its upper bound %g", paramNames[i], v[i], hi[i]))
		}
	}
	return warnings
}
