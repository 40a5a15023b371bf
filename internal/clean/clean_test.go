package clean

import (
	"math"
	"testing"
	"time"

	"github.com/unhas-eo/datacube-notebooks/internal/mask"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

func fullMask(steps, width, height int) *raster.Mask {
	m := raster.NewMask(steps, width, height)
	for t := range m.Data {
		for i := range m.Data[t] {
			m.Data[t][i] = true
		}
	}
	return m
}

func TestBandScalesAfterMasking(t *testing.T) {
	band := &raster.Band{
		Name:   "B03",
		NoData: 0,
		Scale:  0.0001,
		Data:   [][]float64{{10000, 10000, 0}},
	}
	validity := fullMask(1, 3, 1)
	validity.Data[0][2] = false // the fill value
	quality := fullMask(1, 3, 1)
	quality.Data[0][1] = false // cloudy pixel

	cleaned, err := Band(band, validity, quality)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cleaned.Data[0][0] != 1.0 {
		t.Errorf("expecting 10000 * 0.0001 = 1.0, actual %v", cleaned.Data[0][0])
	}
	if !math.IsNaN(cleaned.Data[0][1]) {
		t.Errorf("quality-masked pixel must be NaN, actual %v", cleaned.Data[0][1])
	}
	if !math.IsNaN(cleaned.Data[0][2]) {
		t.Errorf("fill value must be NaN, not scaled, actual %v", cleaned.Data[0][2])
	}
}

// Recomputing validity on a cleaned band must mark exactly the pixels the
// original masks removed: no sentinel survives the rescale.
func TestCleanedBandValidityRoundTrip(t *testing.T) {
	grid := raster.Grid{Width: 2, Height: 2}
	band := &raster.Band{
		Name:   "B11",
		NoData: 0,
		Scale:  0.0001,
		Data:   [][]float64{{0, 5000, 10000, 0}},
	}
	validity, err := mask.Validity(band, grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quality := fullMask(1, 2, 2)

	cleaned, err := Band(band, validity, quality)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	revalidity, err := mask.Validity(cleaned, grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range validity.Data[0] {
		if revalidity.Data[0][i] != validity.Data[0][i] {
			t.Errorf("pixel %d: validity changed through cleaning, expecting %v, actual %v",
				i, validity.Data[0][i], revalidity.Data[0][i])
		}
	}
}

func TestCubeCleansEveryBand(t *testing.T) {
	grid := raster.Grid{Width: 1, Height: 1}
	cube, err := raster.NewCube([]time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, grid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cube.AddBand(&raster.Band{Name: "B03", NoData: 0, Scale: 0.0001, Data: [][]float64{{20000}}})
	cube.AddBand(&raster.Band{Name: "B11", NoData: 0, Scale: 0.0001, Data: [][]float64{{10000}}})

	validity, err := mask.CubeValidity(cube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quality := fullMask(1, 1, 1)

	cleaned, err := Cube(cube, validity, quality)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, want := range map[string]float64{"B03": 2.0, "B11": 1.0} {
		band, err := cleaned.Band(name)
		if err != nil {
			t.Fatalf("band %s missing after cleaning", name)
		}
		if band.Data[0][0] != want {
			t.Errorf("band %s: expecting %v, actual %v", name, want, band.Data[0][0])
		}
	}
}
