// Package report assembles the tabular per-time-step outputs and writes them
// as CSV.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// TimeStepRow summarizes one retained acquisition: how many pixels carried a
// real observation and how many of those were clear.
type TimeStepRow struct {
	Date         string  `csv:"date"`
	ValidCount   int     `csv:"valid_count"`
	ValidPercent float64 `csv:"valid_percent"`
	ClearCount   int     `csv:"clear_count"`
	ClearPercent float64 `csv:"clear_percent"`
}

// SeriesRow is one time step of the water-quality series export.
type SeriesRow struct {
	Date              string  `csv:"date"`
	WaterPixels       int     `csv:"water_pixels"`
	WaterPixelsSmooth float64 `csv:"water_pixels_smooth"`
	MeanNDCI          float64 `csv:"mean_ndci"`
	MeanNDCISmooth    float64 `csv:"mean_ndci_smooth"`
}

// BuildTimeStepRows computes valid and clear counts per time step inside the
// selected extent. A nil selection covers the full grid.
func BuildTimeStepRows(times []time.Time, valid, clear *raster.Mask, sel *raster.SpatialMask) ([]TimeStepRow, error) {
	if len(times) != valid.Steps() || len(times) != clear.Steps() {
		return nil, &raster.ShapeMismatchError{
			Op:   "time step report",
			Want: fmt.Sprintf("%d time steps", len(times)),
			Got:  fmt.Sprintf("valid %d, clear %d", valid.Steps(), clear.Steps()),
		}
	}
	if sel != nil {
		valid2, err := valid.AndSpatial(sel)
		if err != nil {
			return nil, err
		}
		clear2, err := clear.AndSpatial(sel)
		if err != nil {
			return nil, err
		}
		valid, clear = valid2, clear2
	}

	total := valid.Pixels()
	if sel != nil {
		total = sel.CountTrue()
	}

	rows := make([]TimeStepRow, len(times))
	for t := range times {
		validCount := valid.CountTrue(t)
		clearCount := clear.CountTrue(t)
		row := TimeStepRow{
			Date:       times[t].Format("2006-01-02"),
			ValidCount: validCount,
			ClearCount: clearCount,
		}
		if total > 0 {
			row.ValidPercent = 100 * float64(validCount) / float64(total)
			row.ClearPercent = 100 * float64(clearCount) / float64(total)
		}
		rows[t] = row
	}
	return rows, nil
}

// BuildSeriesRows pairs the raw and smoothed series for CSV export.
func BuildSeriesRows(times []time.Time, waterPixels []int, waterSmooth, meanNDCI, ndciSmooth []float64) ([]SeriesRow, error) {
	if len(waterPixels) != len(times) || len(waterSmooth) != len(times) ||
		len(meanNDCI) != len(times) || len(ndciSmooth) != len(times) {
		return nil, fmt.Errorf("series length mismatch: %d time steps, %d water, %d smoothed, %d ndci, %d ndci smoothed",
			len(times), len(waterPixels), len(waterSmooth), len(meanNDCI), len(ndciSmooth))
	}

	rows := make([]SeriesRow, len(times))
	for t := range times {
		rows[t] = SeriesRow{
			Date:              times[t].Format("2006-01-02"),
			WaterPixels:       waterPixels[t],
			WaterPixelsSmooth: waterSmooth[t],
			MeanNDCI:          meanNDCI[t],
			MeanNDCISmooth:    ndciSmooth[t],
		}
	}
	return rows, nil
}

// WriteCSV marshals rows to a CSV file.
func WriteCSV[T any](path string, rows []T) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
