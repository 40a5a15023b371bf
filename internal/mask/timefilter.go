package mask

import (
	"fmt"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// AllTimeStepsDroppedError means the good-data threshold removed every
// acquisition. Downstream reductions over an empty time axis would quietly
// produce empty outputs, so this is surfaced instead.
type AllTimeStepsDroppedError struct {
	Threshold float64
	Total     int
}

func (e *AllTimeStepsDroppedError) Error() string {
	return fmt.Sprintf("good-data threshold %.2f dropped all %d time steps", e.Threshold, e.Total)
}

// TimeFilter records which time steps survived the good-data threshold. The
// retained indices are the join key used to cut every array sharing the time
// axis, so the exact same steps are dropped everywhere.
type TimeFilter struct {
	Keep         []bool
	Indices      []int
	GoodFraction []float64
	Retained     int
	Total        int
}

// FilterTimeSteps keeps every time step whose fraction of acceptable pixels,
// measured against the full grid, reaches the threshold. An empty mask
// returns an empty filter; a threshold that removes everything is an error.
func FilterTimeSteps(m *raster.Mask, threshold float64) (*TimeFilter, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("good-data threshold must be in [0, 1], got %g", threshold)
	}

	total := m.Steps()
	filter := &TimeFilter{
		Keep:         make([]bool, total),
		GoodFraction: make([]float64, total),
		Total:        total,
	}
	if total == 0 {
		return filter, nil
	}

	pixels := float64(m.Pixels())
	for t := 0; t < total; t++ {
		frac := float64(m.CountTrue(t)) / pixels
		filter.GoodFraction[t] = frac
		if frac >= threshold {
			filter.Keep[t] = true
			filter.Indices = append(filter.Indices, t)
		}
	}
	filter.Retained = len(filter.Indices)

	if filter.Retained == 0 {
		return nil, &AllTimeStepsDroppedError{Threshold: threshold, Total: total}
	}
	return filter, nil
}
