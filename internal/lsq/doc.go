// Package lsq solves bounded nonlinear least-squares problems.
//
// The solver minimizes 0.5*||r(x)||^2 subject to lower <= x <= upper using a
// trust-region reflective style iteration:
//
//   - [Problem]: residual function, optional Jacobian and box bounds
//   - [Settings]: termination tolerances and the evaluation budget
//   - [TRF]: the solver; each call to [TRF.Solve] is independent
//   - [Result]: solution, final cost and termination [Status]
//
// Iterates stay strictly inside the box. Variables are rescaled with the
// Coleman-Li scaling vector so steps shrink smoothly as they approach an
// active bound, and each damped Gauss-Newton step is obtained by a QR
// solve of the augmented system.
//
// # Example
//
//	prob := lsq.Problem{Dim: 2, Size: len(ys), Func: residuals, Lower: lo, Upper: hi}
//	res, err := lsq.New(lsq.DefaultSettings()).Solve(ctx, prob, x0)
//
// # Thread Safety
//
// A [TRF] holds only its settings. Solve allocates its own workspace, so one
// solver may be shared between goroutines as long as the problem callbacks
// are themselves safe to call concurrently.
package lsq
