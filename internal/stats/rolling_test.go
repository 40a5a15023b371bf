package stats

import (
	"math"
	"testing"
)

func TestRollingMedianPartialWindows(t *testing.T) {
	out, err := RollingMedian([]float64{1, math.NaN(), 3}, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{1, 2, 3}
	for i, want := range expected {
		if out[i] != want {
			t.Errorf("position %d: expecting %v, actual %v", i, want, out[i])
		}
	}
}

func TestRollingMedianMinPeriods(t *testing.T) {
	out, err := RollingMedian([]float64{math.NaN(), math.NaN(), 5, 7, 9}, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[0]) {
		t.Errorf("window with zero samples must be NaN, actual %v", out[0])
	}
	if !math.IsNaN(out[1]) {
		t.Errorf("window with one sample under min periods 2 must be NaN, actual %v", out[1])
	}
	if out[3] != 7 {
		t.Errorf("full window median: expecting 7, actual %v", out[3])
	}
}

func TestRollingMedianCentered(t *testing.T) {
	out, err := RollingMedian([]float64{1, 9, 2, 8, 3}, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []float64{5, 2, 8, 3, 5.5}
	for i, want := range expected {
		if out[i] != want {
			t.Errorf("position %d: expecting %v, actual %v", i, want, out[i])
		}
	}
}

func TestRollingMedianParameterValidation(t *testing.T) {
	if _, err := RollingMedian([]float64{1}, 4, 1); err == nil {
		t.Errorf("expected error for even window")
	}
	if _, err := RollingMedian([]float64{1}, 3, 4); err == nil {
		t.Errorf("expected error for min periods above window")
	}
	if _, err := RollingMedian([]float64{1}, 3, 0); err == nil {
		t.Errorf("expected error for zero min periods")
	}
}
