// Package hill fits the four-parameter Hill equation to dose-response data.
//
// The model is
//
//	y = bottom + (top - bottom) * x^nH / (EC50^nH + x^nH)
//
// and the package exposes the two operations the rest of the tool builds on:
//
//   - [Estimate]: derives an initial guess and box bounds from the samples and
//     solves the bounded least-squares problem, returning [Params]
//   - [Evaluate]: resamples the model on a log-spaced grid between the first
//     and last x and scores it against the data with R²
//
// [Fit] chains both and adds residual metrics and quality warnings.
//
// # Example
//
//	p, err := hill.Estimate(x, y)
//	if err != nil {
//	    return err
//	}
//	res, err := hill.Evaluate(x, y, p, 0)
//	fmt.Printf("EC50=%.3f R²=%.4f\n", p.EC50, res.RSquared)
//
// # Domain
//
// x must be sorted ascending and strictly positive: the EC50 bounds scale with
// the first x and the evaluation grid is logarithmic. Every function here is
// pure and keeps no state between calls.
package hill
