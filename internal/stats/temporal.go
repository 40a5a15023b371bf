package stats

import (
	"math"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// TrueCounts counts, per pixel, the time steps where the mask is set. Used
// for both valid-observation and clear-observation counts.
func TrueCounts(m *raster.Mask) []int {
	out := make([]int, m.Pixels())
	for t := range m.Data {
		for i, v := range m.Data[t] {
			if v {
				out[i]++
			}
		}
	}
	return out
}

// ClearFraction computes, per pixel, clear observations over valid
// observations across the whole time axis. A pixel that was never valid has
// an undefined fraction, NaN rather than a division blow-up.
func ClearFraction(clear, valid *raster.Mask) ([]float64, error) {
	if clear.Width != valid.Width || clear.Height != valid.Height || clear.Steps() != valid.Steps() {
		return nil, &raster.ShapeMismatchError{
			Op:   "clear fraction",
			Want: shapeOf(valid),
			Got:  shapeOf(clear),
		}
	}

	clearCounts := TrueCounts(clear)
	validCounts := TrueCounts(valid)
	out := make([]float64, len(validCounts))
	for i := range out {
		if validCounts[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(clearCounts[i]) / float64(validCounts[i])
	}
	return out, nil
}

func shapeOf(m *raster.Mask) string {
	return raster.ShapeString(m.Steps(), m.Height, m.Width)
}
