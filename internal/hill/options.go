package hill

import "github.com/san-kum/hillfit/internal/lsq"

// MinPoints is the smallest dataset the estimator accepts: one sample per parameter.
const MinPoints = numParams

const (
	DefaultSigFigs = 6
	minNH          = 0.01
	maxNH          = 100.0
)

// Options configures estimation and evaluation.
type Options struct {
	// FixBottom pins bottom to 0 and fits only top, EC50 and nH. The
	// reported bottom bound collapses to [0, 0]. Off by default; some
	// assays normalize their baseline to zero and want it held there.
	FixBottom bool

	// Resolution is the number of resampled points; 0 means len(y).
	Resolution int

	Solver lsq.Settings
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{Solver: lsq.DefaultSettings()}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFixedBottom toggles holding bottom at 0 instead of fitting it.
func WithFixedBottom(fixed bool) Option {
	return func(o *Options) {
		o.FixBottom = fixed
	}
}

// WithResolution sets the resample count used by Fit.
func WithResolution(n int) Option {
	return func(o *Options) {
		o.Resolution = n
	}
}

// WithMaxEvaluations caps residual evaluations of the solver.
func WithMaxEvaluations(n int) Option {
	return func(o *Options) {
		o.Solver.MaxEvaluations = n
	}
}

// WithTolerances sets the solver's cost, step and gradient tolerances.
func WithTolerances(ftol, xtol, gtol float64) Option {
	return func(o *Options) {
		o.Solver.FTol, o.Solver.XTol, o.Solver.GTol = ftol, xtol, gtol
	}
}

// WithSolverSettings replaces all solver settings at once.
func WithSolverSettings(s lsq.Settings) Option {
	return func(o *Options) {
		o.Solver = s
	}
}
