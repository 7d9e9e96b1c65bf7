// Package metrics accumulates residual statistics over a fitted curve.
package metrics

// Metric observes (observed, predicted) pairs one at a time.
type Metric interface {
	Name() string
	Observe(observed, predicted float64)
	Value() float64
	Reset()
}

// Default returns the metrics reported alongside every fit.
func Default() []Metric {
	return []Metric{NewRMSE(), NewMAE(), NewMaxError(), NewSSE()}
}

// Collect resets ms, feeds them every pair and returns their values by name.
func Collect(ms []Metric, observed, predicted []float64) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := range observed {
			if i < len(predicted) {
				m.Observe(observed[i], predicted[i])
			}
		}
		out[m.Name()] = m.Value()
	}
	return out
}
