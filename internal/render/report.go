package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/hillfit/internal/hill"
)

// Report formats a fit as a bordered summary: equation, parameters with their
// starting values and bounds, R², residual metrics, solver statistics and
// warnings.
func Report(title string, rep *hill.Report, sigfigs int) string {
	if sigfigs <= 0 {
		sigfigs = hill.DefaultSigFigs
	}
	if title == "" {
		title = "Fitted Hill equation"
	}
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', sigfigs, 64)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title) + "\n\n")
	b.WriteString(MetricValue.Render(rep.Params.Equation(sigfigs)) + "\n\n")

	b.WriteString(ParamTable(rep.Estimation, sigfigs) + "\n")

	b.WriteString(MetricLabel.Render(fmt.Sprintf("%-18s", "R²")) +
		Quality(rep.RSquared).Render(f(rep.RSquared)) + "\n")

	names := make([]string, 0, len(rep.Metrics))
	for name := range rep.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-18s", name)) +
			MetricValue.Render(f(rep.Metrics[name])) + "\n")
	}

	b.WriteString("\n" + Subtle.Render(fmt.Sprintf("%d points, %d iterations, %d evaluations, stopped on %s",
		rep.Points, rep.Iterations, rep.Evaluations, rep.Status)))

	for _, w := range rep.Warnings {
		b.WriteString("\n" + Warning.Render("warning: "+w))
	}

	return Panel.Render(b.String())
}

// ParamTable lists each parameter with its fitted value, initial guess and bounds.
func ParamTable(est hill.Estimation, sigfigs int) string {
	f := func(v float64) string {
		return strconv.FormatFloat(v, 'g', sigfigs, 64)
	}
	rows := []struct {
		name                string
		value, init, lo, hi float64
		fixed               bool
	}{
		{"top", est.Params.Top, est.Initial.Top, est.Bounds.Lower.Top, est.Bounds.Upper.Top, false},
		{"bottom", est.Params.Bottom, est.Initial.Bottom, est.Bounds.Lower.Bottom, est.Bounds.Upper.Bottom, est.FixedBottom},
		{"ec50", est.Params.EC50, est.Initial.EC50, est.Bounds.Lower.EC50, est.Bounds.Upper.EC50, false},
		{"nH", est.Params.NH, est.Initial.NH, est.Bounds.Lower.NH, est.Bounds.Upper.NH, false},
	}

	var b strings.Builder
	b.WriteString(Subtle.Render(fmt.Sprintf("%-10s %-14s %-14s %s", "param", "value", "initial", "bounds")) + "\n")
	for _, r := range rows {
		bounds := fmt.Sprintf("[%s, %s]", f(r.lo), f(r.hi))
		if r.fixed {
			bounds = "fixed"
		}
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-10s ", r.name)) +
			MetricValue.Render(fmt.Sprintf("%-14s", f(r.value))) + " " +
			fmt.Sprintf("%-14s %s", f(r.init), bounds) + "\n")
	}
	return b.String()
}
