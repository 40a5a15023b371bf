package raster

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestNewCubeRejectsUnorderedTimes(t *testing.T) {
	_, err := NewCube([]time.Time{day(2), day(1)}, Grid{Width: 1, Height: 1})
	if err == nil {
		t.Errorf("expected error for decreasing time axis")
	}

	_, err = NewCube([]time.Time{day(1), day(1)}, Grid{Width: 1, Height: 1})
	if err == nil {
		t.Errorf("expected error for duplicate timestamps")
	}
}

func TestAddBandShapeMismatch(t *testing.T) {
	cube, err := NewCube([]time.Time{day(1), day(2)}, Grid{Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = cube.AddBand(&Band{Name: "B03", Data: [][]float64{{1, 2, 3, 4}}})
	var shapeErr *ShapeMismatchError
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected ShapeMismatchError for wrong step count, got %v", err)
	}

	err = cube.AddBand(&Band{Name: "B03", Data: [][]float64{{1, 2, 3}, {1, 2, 3}}})
	if !errors.As(err, &shapeErr) {
		t.Errorf("expected ShapeMismatchError for wrong pixel count, got %v", err)
	}
}

func TestSelectStepsCutsEveryBand(t *testing.T) {
	cube, _ := NewCube([]time.Time{day(1), day(2), day(3)}, Grid{Width: 1, Height: 1})
	cube.AddBand(&Band{Name: "B03", Data: [][]float64{{1}, {2}, {3}}})
	cube.AddBand(&Band{Name: "B11", Data: [][]float64{{10}, {20}, {30}}})

	sub, err := cube.SelectSteps([]int{0, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sub.Times) != 2 || !sub.Times[0].Equal(day(1)) || !sub.Times[1].Equal(day(3)) {
		t.Errorf("wrong times after selection: %v", sub.Times)
	}
	for name, want := range map[string][]float64{"B03": {1, 3}, "B11": {10, 30}} {
		band, err := sub.Band(name)
		if err != nil {
			t.Fatalf("band %s missing after selection", name)
		}
		for i, w := range want {
			if band.Data[i][0] != w {
				t.Errorf("band %s step %d: expecting %v, actual %v", name, i, w, band.Data[i][0])
			}
		}
	}

	if _, err := cube.SelectSteps([]int{5}); err == nil {
		t.Errorf("expected error for out-of-range index")
	}
}

func TestIsNoDataNaNSentinel(t *testing.T) {
	band := &Band{Name: "B03", NoData: math.NaN()}
	if !band.IsNoData(math.NaN()) {
		t.Errorf("NaN sentinel must match NaN values")
	}
	if band.IsNoData(0) {
		t.Errorf("NaN sentinel must not match real values")
	}
}

func TestMaskAndAndSpatial(t *testing.T) {
	a := NewMask(1, 2, 1)
	a.Data[0][0] = true
	a.Data[0][1] = true
	b := NewMask(1, 2, 1)
	b.Data[0][1] = true

	out, err := a.And(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Data[0][0] || !out.Data[0][1] {
		t.Errorf("wrong and result: %v", out.Data[0])
	}

	sel := NewSpatialMask(2, 1)
	sel.Data[0] = true
	broad, err := a.AndSpatial(sel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !broad.Data[0][0] || broad.Data[0][1] {
		t.Errorf("wrong broadcast result: %v", broad.Data[0])
	}

	mismatch := NewMask(1, 3, 1)
	if _, err := a.And(mismatch); err == nil {
		t.Errorf("expected shape mismatch error")
	}
}

func TestGridPixelCenterRoundTrip(t *testing.T) {
	grid := Grid{Width: 4, Height: 4, Transform: [6]float64{100, 10, 0, 200, 0, -10}}
	wx, wy := grid.PixelCenter(1, 2)
	if wx != 115 || wy != 175 {
		t.Errorf("expecting center (115, 175), actual (%v, %v)", wx, wy)
	}
	px, py := grid.WorldToPixel(wx, wy)
	if px != 1.5 || py != 2.5 {
		t.Errorf("expecting pixel (1.5, 2.5), actual (%v, %v)", px, py)
	}
}
