package hill

import (
	"context"
	"math"

	"github.com/san-kum/hillfit/internal/lsq"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Estimation is the outcome of one estimator run together with the guess,
// bounds and solver statistics that produced it.
type Estimation struct {
	Params      Params     `json:"params"`
	Initial     Params     `json:"initial"`
	Bounds      Bounds     `json:"bounds"`
	FixedBottom bool       `json:"fixed_bottom"`
	Cost        float64    `json:"cost"`
	Iterations  int        `json:"iterations"`
	Evaluations int        `json:"evaluations"`
	Status      lsq.Status `json:"-"`
}

// Estimator fits Hill parameters with a fixed set of options.
type Estimator struct {
	opts Options
}

func NewEstimator(opts ...Option) *Estimator {
	return &Estimator{opts: buildOptions(opts)}
}

// Estimate fits the Hill equation to x, y with the given options.
func Estimate(x, y []float64, opts ...Option) (Params, error) {
	return NewEstimator(opts...).Estimate(x, y)
}

func (e *Estimator) Estimate(x, y []float64) (Params, error) {
	est, err := e.EstimateDetailed(context.Background(), x, y)
	if err != nil {
		return Params{}, err
	}
	return est.Params, nil
}

// EstimateDetailed fits the Hill equation and reports how the fit was reached.
func (e *Estimator) EstimateDetailed(ctx context.Context, x, y []float64) (*Estimation, error) {
	const op = "estimate"
	if err := validateSeries(op, x, y, MinPoints); err != nil {
		return nil, err
	}
	if x[0] <= 0 {
		return nil, newError(op, ErrDomainOrder, nil, "first x is %g, the model needs x > 0", x[0])
	}

	initial := InitialGuess(x, y)
	bounds := DeriveBounds(x, y)
	if e.opts.FixBottom {
		initial.Bottom = 0
		bounds.Lower.Bottom, bounds.Upper.Bottom = 0, 0
	}
	if bounds.Upper.Top <= bounds.Lower.Top {
		return nil, newError(op, ErrConvergence, lsq.ErrInfeasibleBounds,
			"y is constant (%g), bounds have zero width", y[0])
	}

	m := newModel(x, y, e.opts.FixBottom)
	prob := m.problem(bounds)
	res, err := lsq.New(e.opts.Solver).Solve(ctx, prob, m.free(initial))
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, newError(op, ErrConvergence, err, "%d points", len(x))
	}

	return &Estimation{
		Params:      m.full(res.X),
		Initial:     initial,
		Bounds:      bounds,
		FixedBottom: e.opts.FixBottom,
		Cost:        res.Cost,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Status:      res.Status,
	}, nil
}

// InitialGuess seeds the solver: top and bottom at the y extremes, EC50 at half
// the x span and a Hill coefficient of 1.
func InitialGuess(x, y []float64) Params {
	return Params{
		Top:    floats.Max(y),
		Bottom: floats.Min(y),
		EC50:   0.5 * (x[len(x)-1] - x[0]),
		NH:     1,
	}
}

// DeriveBounds builds the box from the data range: top and bottom may move half
// the y span around their extremes, EC50 spans a decade beyond the x range on
// each side and nH stays within [0.01, 100].
func DeriveBounds(x, y []float64) Bounds {
	lo, hi := floats.Min(y), floats.Max(y)
	h := math.Abs(hi - lo)
	return Bounds{
		Lower: Params{Top: hi - 0.5*h, Bottom: lo - 0.5*h, EC50: 0.1 * x[0], NH: minNH},
		Upper: Params{Top: hi + 0.5*h, Bottom: lo + 0.5*h, EC50: 10 * x[len(x)-1], NH: maxNH},
	}
}

// model maps between the solver's free vector and full Params.
type model struct {
	x, y  []float64
	fixed Params
	idx   []int
}

func newModel(x, y []float64, fixBottom bool) *model {
	m := &model{x: x, y: y}
	for i := 0; i < numParams; i++ {
		if fixBottom && i == idxBottom {
			continue
		}
		m.idx = append(m.idx, i)
	}
	return m
}

func (m *model) free(p Params) []float64 {
	v := p.vector()
	out := make([]float64, len(m.idx))
	for k, i := range m.idx {
		out[k] = v[i]
	}
	return out
}

func (m *model) full(free []float64) Params {
	v := m.fixed.vector()
	for k, i := range m.idx {
		v[i] = free[k]
	}
	return paramsFromVector(v)
}

func (m *model) problem(b Bounds) lsq.Problem {
	lo, hi := b.Lower.vector(), b.Upper.vector()
	prob := lsq.Problem{
		Dim:   len(m.idx),
		Size:  len(m.x),
		Func:  m.residuals,
		Jac:   m.jacobian,
		Lower: make([]float64, len(m.idx)),
		Upper: make([]float64, len(m.idx)),
	}
	for k, i := range m.idx {
		prob.Lower[k], prob.Upper[k] = lo[i], hi[i]
	}
	return prob
}

func (m *model) residuals(dst, free []float64) {
	p := m.full(free)
	for i, x := range m.x {
		dst[i] = p.Eval(x) - m.y[i]
	}
}

// jacobian writes the analytic partial derivatives of the residuals. With
// f = 1/(1+(EC50/x)^nH):
//
//	d/dtop = f, d/dbottom = 1-f,
//	d/dEC50 = -(top-bottom)*(nH/EC50)*f*(1-f),
//	d/dnH = (top-bottom)*f*(1-f)*ln(x/EC50).
func (m *model) jacobian(dst *mat.Dense, free []float64) {
	p := m.full(free)
	span := p.Top - p.Bottom
	for i, x := range m.x {
		var f, dEC50, dNH float64
		if x > 0 {
			f = 1 / (1 + math.Pow(p.EC50/x, p.NH))
			w := f * (1 - f)
			dEC50 = -span * p.NH / p.EC50 * w
			if w != 0 {
				dNH = span * w * math.Log(x/p.EC50)
			}
		}
		grad := [numParams]float64{f, 1 - f, dEC50, dNH}
		for k, j := range m.idx {
			dst.Set(i, k, grad[j])
		}
	}
}
