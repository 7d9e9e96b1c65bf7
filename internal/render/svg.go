package render

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/hillfit/internal/hill"
)

const (
	figureWidth  = 800
	figureHeight = 500
	xTicks       = 6
)

type FigureOptions struct {
	Title  string
	XLabel string
	YLabel string
}

// pointStyle renders markers only, without a connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

// SVG renders the regression figure: the samples as points and the resampled
// fit as a line, on a log10 x axis labelled in original units.
func SVG(w io.Writer, x, y []float64, res *hill.Result, o FigureOptions) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("need paired samples, got %d x and %d y", len(x), len(y))
	}
	if res == nil || len(res.XFit) < 2 {
		return fmt.Errorf("need a resampled curve with at least two points")
	}
	if o.Title == "" {
		o.Title = "Fitted Hill equation"
	}
	if o.XLabel == "" {
		o.XLabel = "x"
	}
	if o.YLabel == "" {
		o.YLabel = "y"
	}

	lx, err := log10All(x)
	if err != nil {
		return err
	}
	lfit, err := log10All(res.XFit)
	if err != nil {
		return err
	}

	lo, hi := lfit[0], lfit[len(lfit)-1]
	if hi <= lo {
		lo, hi = lo-0.5, hi+0.5
	}

	ch := chart.Chart{
		Title:      o.Title,
		Width:      figureWidth,
		Height:     figureHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  o.XLabel,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
			Ticks: logTicks(lo, hi),
		},
		YAxis: chart.YAxis{Name: o.YLabel},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "data",
				XValues: lx,
				YValues: y,
				Style:   pointStyle(chart.ColorBlue),
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("fit (R² = %s)", strconv.FormatFloat(res.RSquared, 'g', 6, 64)),
				XValues: lfit,
				YValues: res.YFit,
				Style: chart.Style{
					StrokeWidth: 2,
					StrokeColor: chart.ColorRed,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(chart.SVG, w)
}

// logTicks spaces ticks evenly in log10 and labels them with 10^v.
func logTicks(lo, hi float64) []chart.Tick {
	ticks := make([]chart.Tick, xTicks)
	step := (hi - lo) / float64(xTicks-1)
	for i := range ticks {
		v := lo + float64(i)*step
		if i == xTicks-1 {
			v = hi
		}
		ticks[i] = chart.Tick{Value: v, Label: strconv.FormatFloat(math.Pow(10, v), 'g', 3, 64)}
	}
	return ticks
}

func log10All(xs []float64) ([]float64, error) {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if x <= 0 {
			return nil, fmt.Errorf("x[%d] = %g cannot be drawn on a log axis", i, x)
		}
		out[i] = math.Log10(x)
	}
	return out, nil
}
