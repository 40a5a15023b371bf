package mask

import (
	"errors"
	"testing"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// buildMask sets the first n pixels of each step true.
func buildMask(t *testing.T, width, height int, trueCounts []int) *raster.Mask {
	t.Helper()
	m := raster.NewMask(len(trueCounts), width, height)
	for step, n := range trueCounts {
		for i := 0; i < n; i++ {
			m.Data[step][i] = true
		}
	}
	return m
}

func TestFilterTimeStepsThreshold(t *testing.T) {
	// Steps 0 and 2 have 90% good pixels, steps 1 and 3 have 10%.
	m := buildMask(t, 10, 1, []int{9, 1, 9, 1})

	filter, err := FilterTimeSteps(m, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Retained != 2 || filter.Total != 4 {
		t.Errorf("expecting 2 of 4 retained, actual %d of %d", filter.Retained, filter.Total)
	}
	if len(filter.Indices) != 2 || filter.Indices[0] != 0 || filter.Indices[1] != 2 {
		t.Errorf("expecting retained indices [0 2], actual %v", filter.Indices)
	}
}

func TestFilterTimeStepsIdempotent(t *testing.T) {
	m := buildMask(t, 10, 1, []int{9, 1, 9, 1})
	first, err := FilterTimeSteps(m, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	filtered, err := m.SelectSteps(first.Indices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := FilterTimeSteps(filtered, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Retained != second.Total {
		t.Errorf("refiltering with the same threshold must keep everything, dropped %d",
			second.Total-second.Retained)
	}
}

func TestFilterTimeStepsAllDropped(t *testing.T) {
	m := buildMask(t, 10, 1, []int{1, 0})
	_, err := FilterTimeSteps(m, 0.5)
	var droppedErr *AllTimeStepsDroppedError
	if !errors.As(err, &droppedErr) {
		t.Errorf("expected AllTimeStepsDroppedError, got %v", err)
	}
}

func TestFilterTimeStepsDegenerateCases(t *testing.T) {
	// Zero threshold keeps every step.
	m := buildMask(t, 4, 1, []int{0, 4})
	filter, err := FilterTimeSteps(m, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Retained != 2 {
		t.Errorf("zero threshold must retain all steps, got %d", filter.Retained)
	}

	// An empty time axis is an empty result, not an error.
	empty := raster.NewMask(0, 4, 1)
	filter, err = FilterTimeSteps(empty, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Total != 0 || filter.Retained != 0 {
		t.Errorf("empty mask must produce empty filter, got %+v", filter)
	}

	if _, err := FilterTimeSteps(m, 1.5); err == nil {
		t.Errorf("expected error for threshold outside [0, 1]")
	}
}
