package stats

import "math"

// ArgMax returns the position of the largest non-NaN value, or -1 when the
// series holds no real values. Used to locate extreme index dates.
func ArgMax(series []float64) int {
	best := -1
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v > series[best] {
			best = i
		}
	}
	return best
}

// ArgMin is the NaN-aware counterpart of ArgMax.
func ArgMin(series []float64) int {
	best := -1
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		if best == -1 || v < series[best] {
			best = i
		}
	}
	return best
}
