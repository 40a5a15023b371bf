// Package stats reduces masked arrays and index images to the time series
// and per-pixel summaries reported by the monitoring notebooks.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// RollingMedian smooths a per-time-step series with a centered window of odd
// size. Windows truncated at the series boundary use whatever samples are
// available, provided at least minPeriods non-NaN samples are present;
// otherwise the output is NaN at that position. Edges are never dropped
// outright.
func RollingMedian(series []float64, window, minPeriods int) ([]float64, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("rolling window must be odd and positive, got %d", window)
	}
	if minPeriods < 1 || minPeriods > window {
		return nil, fmt.Errorf("min periods must be in [1, %d], got %d", window, minPeriods)
	}

	half := window / 2
	out := make([]float64, len(series))
	values := make([]float64, 0, window)
	for i := range series {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(series)-1 {
			hi = len(series) - 1
		}

		values = values[:0]
		for j := lo; j <= hi; j++ {
			if !math.IsNaN(series[j]) {
				values = append(values, series[j])
			}
		}
		if len(values) < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = median(values)
	}
	return out, nil
}

func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
