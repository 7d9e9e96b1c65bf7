// Package render draws fitted Hill curves as terminal plots, SVG figures and
// styled text reports.
package render

import (
	"fmt"
	"math"
	"os"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/term"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/hillfit/internal/hill"
)

const (
	DefaultHeight       = 15
	terminalWidthBackup = 80
	axisMargin          = 12
	minPlotWidth        = 10
)

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = TerminalWidth() - axisMargin
	}
	if o.Width < minPlotWidth {
		o.Width = minPlotWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// TerminalWidth reports the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// Curve plots the observed samples and the fitted model on a shared log10 x
// grid. Observed values between samples are interpolated linearly in log x.
func Curve(x, y []float64, p hill.Params, o PlotOptions) (string, error) {
	o = o.withDefaults()
	if len(x) < 2 || len(x) != len(y) {
		return "", fmt.Errorf("need at least two paired samples, got %d x and %d y", len(x), len(y))
	}
	grid, err := hill.LogSpace(x[0], x[len(x)-1], o.Width)
	if err != nil {
		return "", err
	}

	lx, ly := collapse(x, y)
	observed := make([]float64, len(grid))
	if len(lx) < 2 {
		for i := range observed {
			observed[i] = ly[0]
		}
	} else {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(lx, ly); err != nil {
			return "", err
		}
		for i, g := range grid {
			observed[i] = pl.Predict(math.Log10(g))
		}
	}

	caption := o.Caption
	if caption == "" {
		caption = fmt.Sprintf("observed (blue) vs fit (red), log10 x from %g to %g", x[0], x[len(x)-1])
	}
	return asciigraph.PlotMany([][]float64{observed, p.EvalAll(grid)},
		asciigraph.Height(o.Height),
		asciigraph.Width(o.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
	), nil
}

// Residuals plots y - model(x) per sample.
func Residuals(x, y []float64, p hill.Params, o PlotOptions) (string, error) {
	o = o.withDefaults()
	if len(x) == 0 || len(x) != len(y) {
		return "", fmt.Errorf("need paired samples, got %d x and %d y", len(x), len(y))
	}
	res := make([]float64, len(x))
	for i := range x {
		res[i] = y[i] - p.Eval(x[i])
	}

	caption := o.Caption
	if caption == "" {
		caption = "residuals (observed - fit) by sample"
	}
	return asciigraph.Plot(res,
		asciigraph.Height(o.Height),
		asciigraph.Width(o.Width),
		asciigraph.Caption(caption),
	), nil
}

// collapse maps x to log10 x and averages y over repeated x so the abscissae
// are strictly increasing.
func collapse(x, y []float64) (lx, ly []float64) {
	for i := 0; i < len(x); {
		j, sum := i, 0.0
		for j < len(x) && x[j] == x[i] {
			sum += y[j]
			j++
		}
		lx = append(lx, math.Log10(x[i]))
		ly = append(ly, sum/float64(j-i))
		i = j
	}
	return lx, ly
}
