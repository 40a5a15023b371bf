package stats

import (
	"fmt"
	"math"
	"runtime"

	"github.com/gammazero/workerpool"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// TimeStepStat is the scalar reduction of one time step over the selected
// spatial extent.
type TimeStepStat struct {
	Count int
	Mean  float64
}

// ReduceSpace computes, per time step, the count and NaN-skipping mean of a
// band over the selected pixels. A nil selection means the full grid. A time
// step with no valid pixels reduces to count 0 and mean NaN. Time steps are
// independent and evaluated in parallel.
func ReduceSpace(band *raster.Band, sel *raster.SpatialMask) ([]TimeStepStat, error) {
	if err := checkSelection(band, sel); err != nil {
		return nil, err
	}

	out := make([]TimeStepStat, len(band.Data))
	wp := workerpool.New(runtime.NumCPU())
	for t := range band.Data {
		t := t
		wp.Submit(func() {
			count := 0
			sum := 0.0
			for i, v := range band.Data[t] {
				if sel != nil && !sel.Data[i] {
					continue
				}
				if math.IsNaN(v) {
					continue
				}
				count++
				sum += v
			}
			stat := TimeStepStat{Count: count, Mean: math.NaN()}
			if count > 0 {
				stat.Mean = sum / float64(count)
			}
			out[t] = stat
		})
	}
	wp.StopWait()
	return out, nil
}

// CountAbove counts, per time step, the selected pixels whose value exceeds
// the threshold. NaN pixels never count. This is how an index image becomes
// an area-equivalent series, e.g. water pixels as MNDWI > 0.
func CountAbove(band *raster.Band, threshold float64, sel *raster.SpatialMask) ([]int, error) {
	if err := checkSelection(band, sel); err != nil {
		return nil, err
	}

	out := make([]int, len(band.Data))
	wp := workerpool.New(runtime.NumCPU())
	for t := range band.Data {
		t := t
		wp.Submit(func() {
			count := 0
			for i, v := range band.Data[t] {
				if sel != nil && !sel.Data[i] {
					continue
				}
				if !math.IsNaN(v) && v > threshold {
					count++
				}
			}
			out[t] = count
		})
	}
	wp.StopWait()
	return out, nil
}

// MeanSeries extracts the means of a spatial reduction as one series.
func MeanSeries(statistics []TimeStepStat) []float64 {
	out := make([]float64, len(statistics))
	for i, s := range statistics {
		out[i] = s.Mean
	}
	return out
}

func checkSelection(band *raster.Band, sel *raster.SpatialMask) error {
	if sel == nil {
		return nil
	}
	for t, step := range band.Data {
		if len(step) != len(sel.Data) {
			return &raster.ShapeMismatchError{
				Op:   fmt.Sprintf("spatial reduction of band %s step %d", band.Name, t),
				Want: fmt.Sprintf("%d pixels", len(sel.Data)),
				Got:  fmt.Sprintf("%d pixels", len(step)),
			}
		}
	}
	return nil
}
