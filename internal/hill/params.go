package hill

import (
	"fmt"
	"math"
	"strconv"
)

// Params holds the four Hill-equation parameters.
type Params struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	EC50   float64 `json:"ec50" yaml:"ec50"`
	NH     float64 `json:"nH" yaml:"nH"`
}

// Eval returns the model value at x.
//
// It uses bottom + (top-bottom) / (1 + (EC50/x)^nH), which is the Hill
// equation divided through by x^nH and does not overflow for large nH.
// x == 0 yields bottom. Negative x is outside the model's domain and
// yields NaN.
func (p Params) Eval(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return math.NaN()
	case x == 0:
		return p.Bottom
	}
	return p.Bottom + (p.Top-p.Bottom)/(1+math.Pow(p.EC50/x, p.NH))
}

// EvalAll evaluates the model at every x into a new slice.
func (p Params) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// Equation renders the fitted model with each value rounded to sigfigs
// significant figures, e.g. "-1.2 + (100.8--1.2)*x^17.9 / (13.1^17.9 + x^17.9)".
func (p Params) Equation(sigfigs int) string {
	if sigfigs <= 0 {
		sigfigs = 6
	}
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', sigfigs, 64)
	}
	n := f(p.NH)
	return fmt.Sprintf("%s + (%s-%s)*x^%s / (%s^%s + x^%s)",
		f(p.Bottom), f(p.Top), f(p.Bottom), n, f(p.EC50), n, n)
}

func (p Params) String() string {
	return fmt.Sprintf("top=%g bottom=%g ec50=%g nH=%g", p.Top, p.Bottom, p.EC50, p.NH)
}

func (p Params) vector() [4]float64 {
	return [4]float64{p.Top, p.Bottom, p.EC50, p.NH}
}

func paramsFromVector(v [4]float64) Params {
	return Params{Top: v[0], Bottom: v[1], EC50: v[2], NH: v[3]}
}

// Parameter indices in vector form.
const (
	idxTop = iota
	idxBottom
	idxEC50
	idxNH
	numParams
)

var paramNames = [numParams]string{"top", "bottom", "ec50", "nH"}

// Bounds is the closed box the solver keeps each parameter in.
type Bounds struct {
	Lower Params `json:"lower"`
	Upper Params `json:"upper"`
}

// Contains reports whether every parameter of p lies within b.
func (b Bounds) Contains(p Params) bool {
	lo, hi, v := b.Lower.vector(), b.Upper.vector(), p.vector()
	for i := range v {
		if v[i] < lo[i] || v[i] > hi[i] {
			return false
		}
	}
	return true
}
