package lsq

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	feasibleStep = 1e-10
	minDamping   = 1e-12
	maxDamping   = 1e32
	minTheta     = 0.995
	acceptRatio  = 0.25
	expandRatio  = 0.75
)

// TRF is a bounded trust-region reflective style least-squares solver.
type TRF struct {
	settings Settings
}

func New(s Settings) *TRF {
	return &TRF{settings: s.withDefaults()}
}

// Solve runs the default solver on p from x0.
func Solve(ctx context.Context, p Problem, x0 []float64) (*Result, error) {
	return New(DefaultSettings()).Solve(ctx, p, x0)
}

// workspace holds the per-call buffers so that TRF itself stays stateless.
type workspace struct {
	n, m   int
	lo, hi []float64

	x, r    []float64
	xNew    []float64
	rNew    []float64
	g       []float64
	v, dv   []float64
	d       []float64
	diagH   []float64
	step    []float64
	stepH   []float64
	jac     *mat.Dense
	aug     *mat.Dense
	rhs     *mat.VecDense
	sol     *mat.VecDense
	jhStep  []float64
	nfev    int
	njev    int
	cost    float64
	damping float64
}

func newWorkspace(p Problem, x0 []float64) *workspace {
	n, m := p.Dim, p.Size
	w := &workspace{
		n: n, m: m,
		lo:     make([]float64, n),
		hi:     make([]float64, n),
		x:      make([]float64, n),
		r:      make([]float64, m),
		xNew:   make([]float64, n),
		rNew:   make([]float64, m),
		g:      make([]float64, n),
		v:      make([]float64, n),
		dv:     make([]float64, n),
		d:      make([]float64, n),
		diagH:  make([]float64, n),
		step:   make([]float64, n),
		stepH:  make([]float64, n),
		jac:    mat.NewDense(m, n, nil),
		aug:    mat.NewDense(m+n, n, nil),
		rhs:    mat.NewVecDense(m+n, nil),
		sol:    mat.NewVecDense(n, nil),
		jhStep: make([]float64, m),
	}
	for i := 0; i < n; i++ {
		w.lo[i], w.hi[i] = p.lower(i), p.upper(i)
	}
	copy(w.x, x0)
	makeStrictlyFeasible(w.x, w.lo, w.hi)
	return w
}

func (t *TRF) Solve(ctx context.Context, p Problem, x0 []float64) (*Result, error) {
	if err := p.validate(x0); err != nil {
		return nil, err
	}
	s := t.settings
	w := newWorkspace(p, x0)

	p.Func(w.r, w.x)
	w.nfev++
	if !allFinite(w.r) {
		return nil, fmt.Errorf("%w at start point", ErrNonFinite)
	}
	w.cost = 0.5 * floats.Dot(w.r, w.r)

	if err := w.evalJacobian(p); err != nil {
		return nil, err
	}
	if col := zeroColumn(w.jac); col >= 0 {
		return nil, fmt.Errorf("%w: column %d is zero at the start point", ErrSingularJacobian, col)
	}
	w.damping = -1

	var status Status
	iterations := 0
	for status == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gNorm := 0.0
		for i := range w.g {
			gNorm = math.Max(gNorm, math.Abs(w.g[i]*w.v[i]))
		}
		if gNorm < s.GTol {
			status = StatusGTol
			break
		}

		w.prepareScaling()
		if w.damping < 0 {
			w.damping = s.Damping * w.maxNormalDiagonal()
			if w.damping == 0 {
				w.damping = s.Damping
			}
		}

		xNorm := floats.Norm(w.x, 2)
		accepted := false
		var actual, ratio, stepNorm, costNew float64
		for {
			if w.nfev >= s.MaxEvaluations {
				return nil, &SolveError{Evaluations: w.nfev, Cost: w.cost, X: clone(w.x), Wrapped: ErrMaxEvaluations}
			}
			ok, err := w.solveStep()
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			w.stepBack(gNorm)

			predicted := w.predictedReduction()
			p.Func(w.rNew, w.xNew)
			w.nfev++
			stepNorm = floats.Norm(w.step, 2)

			if !allFinite(w.rNew) {
				w.damping *= 4
				continue
			}
			costNew = 0.5 * floats.Dot(w.rNew, w.rNew)
			actual = w.cost - costNew
			ratio = 0
			if predicted > 0 {
				ratio = actual / predicted
			}
			if ratio < acceptRatio {
				w.damping *= 4
			} else if ratio > expandRatio {
				w.damping = math.Max(w.damping/3, minDamping)
			}

			if actual > 0 {
				accepted = true
				break
			}
			if stepNorm < s.XTol*(s.XTol+xNorm) {
				status = StatusXTol
				break
			}
		}
		if !accepted {
			break
		}

		iterations++
		copy(w.x, w.xNew)
		copy(w.r, w.rNew)
		w.cost = costNew

		switch {
		case actual < s.FTol*(w.cost+actual) && ratio > acceptRatio:
			status = StatusFTol
		case stepNorm < s.XTol*(s.XTol+xNorm):
			status = StatusXTol
		default:
			if err := w.evalJacobian(p); err != nil {
				return nil, err
			}
		}
	}

	return &Result{
		X:              clone(w.x),
		Residuals:      clone(w.r),
		Cost:           w.cost,
		Iterations:     iterations,
		Evaluations:    w.nfev,
		JacEvaluations: w.njev,
		Status:         status,
	}, nil
}

// evalJacobian refreshes the Jacobian, the gradient and the scaling vector at w.x.
func (w *workspace) evalJacobian(p Problem) error {
	if p.Jac != nil {
		p.Jac(w.jac, w.x)
	} else {
		fd.Jacobian(w.jac, p.Func, w.x, &fd.JacobianSettings{
			Formula:     fd.Forward,
			OriginValue: w.r,
		})
	}
	w.njev++
	if !denseFinite(w.jac) {
		return fmt.Errorf("%w: jacobian", ErrNonFinite)
	}

	g := mat.NewVecDense(w.n, w.g)
	g.MulVec(w.jac.T(), mat.NewVecDense(w.m, w.r))
	clScaling(w.v, w.dv, w.x, w.g, w.lo, w.hi)
	return nil
}

// prepareScaling fills d = sqrt(v) and the diagonal term of the scaled quadratic model.
func (w *workspace) prepareScaling() {
	for i := 0; i < w.n; i++ {
		w.d[i] = math.Sqrt(w.v[i])
		w.diagH[i] = w.g[i] * w.dv[i]
	}
}

func (w *workspace) maxNormalDiagonal() float64 {
	best := 0.0
	for j := 0; j < w.n; j++ {
		sum := w.diagH[j]
		for i := 0; i < w.m; i++ {
			jh := w.jac.At(i, j) * w.d[j]
			sum += jh * jh
		}
		best = math.Max(best, sum)
	}
	return best
}

// solveStep solves the damped scaled system for stepH and the unscaled step.
// It reports false when the system was too ill-conditioned and the damping
// was raised instead.
func (w *workspace) solveStep() (bool, error) {
	n, m := w.n, w.m
	w.aug.Zero()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			w.aug.Set(i, j, w.jac.At(i, j)*w.d[j])
		}
		w.rhs.SetVec(i, -w.r[i])
	}
	for j := 0; j < n; j++ {
		w.aug.Set(m+j, j, math.Sqrt(w.diagH[j]+w.damping))
		w.rhs.SetVec(m+j, 0)
	}

	var qr mat.QR
	qr.Factorize(w.aug)
	if err := qr.SolveVecTo(w.sol, false, w.rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return false, err
		}
		if w.damping > maxDamping {
			return false, fmt.Errorf("%w: damped system stays singular", ErrSingularJacobian)
		}
		w.damping = math.Max(w.damping*4, minDamping)
		return false, nil
	}
	for j := 0; j < n; j++ {
		w.stepH[j] = w.sol.AtVec(j)
		w.step[j] = w.d[j] * w.stepH[j]
	}
	return true, nil
}

// stepBack shortens the step so that xNew stays strictly inside the bounds.
func (w *workspace) stepBack(gNorm float64) {
	alpha := stepToBound(w.x, w.step, w.lo, w.hi)
	if alpha <= 1 {
		theta := math.Max(minTheta, 1-gNorm)
		floats.Scale(theta*alpha, w.step)
	}
	floats.AddTo(w.xNew, w.x, w.step)
	makeStrictlyFeasible(w.xNew, w.lo, w.hi)
	floats.SubTo(w.step, w.xNew, w.x)
	for j := 0; j < w.n; j++ {
		if w.d[j] > 0 {
			w.stepH[j] = w.step[j] / w.d[j]
		} else {
			w.stepH[j] = 0
		}
	}
}

// predictedReduction evaluates the negated quadratic model at stepH.
func (w *workspace) predictedReduction() float64 {
	for i := 0; i < w.m; i++ {
		sum := 0.0
		for j := 0; j < w.n; j++ {
			sum += w.jac.At(i, j) * w.d[j] * w.stepH[j]
		}
		w.jhStep[i] = sum
	}
	q := floats.Dot(w.jhStep, w.jhStep)
	lin := 0.0
	for j := 0; j < w.n; j++ {
		q += w.diagH[j] * w.stepH[j] * w.stepH[j]
		lin += w.d[j] * w.g[j] * w.stepH[j]
	}
	return -(lin + 0.5*q)
}

// clScaling computes the Coleman-Li scaling vector v and its derivative sign dv.
func clScaling(v, dv, x, g, lo, hi []float64) {
	for i := range x {
		switch {
		case g[i] < 0 && !math.IsInf(hi[i], 1):
			v[i], dv[i] = hi[i]-x[i], -1
		case g[i] > 0 && !math.IsInf(lo[i], -1):
			v[i], dv[i] = x[i]-lo[i], 1
		default:
			v[i], dv[i] = 1, 0
		}
	}
}

// stepToBound returns the largest alpha with lo <= x+alpha*step <= hi.
func stepToBound(x, step, lo, hi []float64) float64 {
	alpha := math.Inf(1)
	for i := range x {
		switch {
		case step[i] > 0:
			alpha = math.Min(alpha, (hi[i]-x[i])/step[i])
		case step[i] < 0:
			alpha = math.Min(alpha, (lo[i]-x[i])/step[i])
		}
	}
	return alpha
}

func makeStrictlyFeasible(x, lo, hi []float64) {
	for i := range x {
		l, h := lo[i], hi[i]
		if !math.IsInf(l, -1) {
			if m := l + feasibleStep*math.Max(1, math.Abs(l)); x[i] <= m {
				x[i] = m
			}
		}
		if !math.IsInf(h, 1) {
			if m := h - feasibleStep*math.Max(1, math.Abs(h)); x[i] >= m {
				x[i] = m
			}
		}
		if x[i] <= l || x[i] >= h {
			x[i] = 0.5 * (l + h)
		}
	}
}

func zeroColumn(a *mat.Dense) int {
	r, c := a.Dims()
	for j := 0; j < c; j++ {
		zero := true
		for i := 0; i < r; i++ {
			if a.At(i, j) != 0 {
				zero = false
				break
			}
		}
		if zero {
			return j
		}
	}
	return -1
}

func allFinite(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func denseFinite(a *mat.Dense) bool {
	r, c := a.Dims()
	for i := 0; i < r; i++ {
		if !allFinite(a.RawRowView(i)[:c]) {
			return false
		}
	}
	return true
}

func clone(s []float64) []float64 {
	c := make([]float64, len(s))
	copy(c, s)
	return c
}
