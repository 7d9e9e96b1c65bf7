package metrics

import "math"

type RMSE struct {
	name    string
	sum     float64
	samples int
}

func NewRMSE() *RMSE {
	return &RMSE{name: "rmse"}
}

func (r *RMSE) Name() string { return r.name }

func (r *RMSE) Observe(observed, predicted float64) {
	d := observed - predicted
	r.sum += d * d
	r.samples++
}

func (r *RMSE) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sum / float64(r.samples))
}

func (r *RMSE) Reset() {
	r.sum = 0
	r.samples = 0
}

type MAE struct {
	name    string
	sum     float64
	samples int
}

func NewMAE() *MAE {
	return &MAE{name: "mae"}
}

func (m *MAE) Name() string { return m.name }

func (m *MAE) Observe(observed, predicted float64) {
	m.sum += math.Abs(observed - predicted)
	m.samples++
}

func (m *MAE) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MAE) Reset() {
	m.sum = 0
	m.samples = 0
}

// SSE is the residual sum of squares.
type SSE struct {
	name string
	sum  float64
}

func NewSSE() *SSE {
	return &SSE{name: "sse"}
}

func (s *SSE) Name() string { return s.name }

func (s *SSE) Observe(observed, predicted float64) {
	d := observed - predicted
	s.sum += d * d
}

func (s *SSE) Value() float64 { return s.sum }

func (s *SSE) Reset() { s.sum = 0 }
