package metrics

import (
	"math"
	"testing"
)

func TestRMSE(t *testing.T) {
	m := NewRMSE()

	if m.Value() != 0 {
		t.Error("expected 0 before any observation")
	}

	m.Observe(1, 0)
	m.Observe(-1, 0)
	m.Observe(2, 0)
	m.Observe(0, 2)

	expected := math.Sqrt(10.0 / 4.0)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected rmse %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestMAEAndMaxError(t *testing.T) {
	observed := []float64{1, 2, 3, 4}
	predicted := []float64{1.5, 2, 2, 4}

	values := Collect([]Metric{NewMAE(), NewMaxError()}, observed, predicted)

	if math.Abs(values["mae"]-0.375) > 1e-12 {
		t.Errorf("expected mae 0.375, got %f", values["mae"])
	}
	if values["max_abs_residual"] != 1 {
		t.Errorf("expected max residual 1, got %f", values["max_abs_residual"])
	}
}

func TestCollect_Default(t *testing.T) {
	observed := []float64{0, 1, 2}
	predicted := []float64{0, 1, 4}

	ms := Default()
	values := Collect(ms, observed, predicted)

	if len(values) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(values))
	}
	if values["sse"] != 4 {
		t.Errorf("expected sse 4, got %f", values["sse"])
	}

	// collecting twice must not accumulate
	again := Collect(ms, observed, predicted)
	if again["sse"] != values["sse"] {
		t.Errorf("expected repeatable sse, got %f then %f", values["sse"], again["sse"])
	}
}

func TestCollect_PerfectFit(t *testing.T) {
	ys := []float64{3, 1, 4, 1, 5}

	values := Collect(Default(), ys, ys)
	for name, v := range values {
		if v != 0 {
			t.Errorf("%s: expected 0 for perfect fit, got %f", name, v)
		}
	}
}
