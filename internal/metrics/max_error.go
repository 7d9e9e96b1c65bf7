package metrics

import "math"

// MaxError tracks the largest absolute residual.
type MaxError struct {
	name string
	max  float64
}

func NewMaxError() *MaxError {
	return &MaxError{name: "max_abs_residual"}
}

func (m *MaxError) Name() string {
	return m.name
}

func (m *MaxError) Observe(observed, predicted float64) {
	m.max = math.Max(m.max, math.Abs(observed-predicted))
}

func (m *MaxError) Value() float64 {
	return m.max
}

func (m *MaxError) Reset() {
	m.max = 0
}
