// Package index computes normalized-difference spectral indices from cleaned
// bands.
package index

import (
	"fmt"
	"math"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// Band names as they come out of the ingestion layer.
const (
	Green   = "B03"
	Red     = "B04"
	RedEdge = "B05"
	NIR     = "B08"
	SWIR1   = "B11"
)

// NormalizedDifference computes (a-b)/(a+b) elementwise. A zero denominator
// yields NaN rather than ±Inf so spurious extremes never enter downstream
// means or rolling windows; NaN in either input propagates. The output is
// not clipped, range interpretation is left to the caller.
func NormalizedDifference(name string, a, b *raster.Band) (*raster.Band, error) {
	if len(a.Data) != len(b.Data) {
		return nil, &raster.ShapeMismatchError{
			Op:   "normalized difference " + name,
			Want: fmt.Sprintf("%d time steps", len(a.Data)),
			Got:  fmt.Sprintf("%d time steps", len(b.Data)),
		}
	}

	data := make([][]float64, len(a.Data))
	for t := range a.Data {
		if len(a.Data[t]) != len(b.Data[t]) {
			return nil, &raster.ShapeMismatchError{
				Op:   fmt.Sprintf("normalized difference %s step %d", name, t),
				Want: fmt.Sprintf("%d pixels", len(a.Data[t])),
				Got:  fmt.Sprintf("%d pixels", len(b.Data[t])),
			}
		}
		out := make([]float64, len(a.Data[t]))
		for i := range out {
			av, bv := a.Data[t][i], b.Data[t][i]
			denom := av + bv
			if denom == 0 {
				out[i] = math.NaN()
			} else {
				out[i] = (av - bv) / denom
			}
		}
		data[t] = out
	}

	return &raster.Band{Name: name, NoData: math.NaN(), Scale: 1, Data: data}, nil
}

// MNDWI is the modified normalized difference water index,
// (green - swir1) / (green + swir1). Positive values indicate open water.
func MNDWI(cube *raster.Cube) (*raster.Band, error) {
	green, err := cube.Band(Green)
	if err != nil {
		return nil, err
	}
	swir, err := cube.Band(SWIR1)
	if err != nil {
		return nil, err
	}
	return NormalizedDifference("mndwi", green, swir)
}

// NDCI is the normalized difference chlorophyll index,
// (rededge - red) / (rededge + red), a chlorophyll-a proxy over water.
func NDCI(cube *raster.Cube) (*raster.Band, error) {
	rededge, err := cube.Band(RedEdge)
	if err != nil {
		return nil, err
	}
	red, err := cube.Band(Red)
	if err != nil {
		return nil, err
	}
	return NormalizedDifference("ndci", rededge, red)
}
