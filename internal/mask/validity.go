// Package mask derives the boolean masks that separate usable observations
// from fill values and defective acquisitions, and prunes time steps that do
// not carry enough good data.
package mask

import (
	"fmt"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// Validity marks every pixel of a band that holds a real observation, i.e.
// anything other than the band's no-data sentinel.
func Validity(band *raster.Band, grid raster.Grid) (*raster.Mask, error) {
	out := raster.NewMask(len(band.Data), grid.Width, grid.Height)
	for t, step := range band.Data {
		if len(step) != grid.Pixels() {
			return nil, &raster.ShapeMismatchError{
				Op:   fmt.Sprintf("validity of band %s step %d", band.Name, t),
				Want: fmt.Sprintf("%dx%d pixels", grid.Height, grid.Width),
				Got:  fmt.Sprintf("%d pixels", len(step)),
			}
		}
		for i, v := range step {
			out.Data[t][i] = !band.IsNoData(v)
		}
	}
	return out, nil
}

// CubeValidity derives the validity mask of every band in the cube.
func CubeValidity(cube *raster.Cube) (map[string]*raster.Mask, error) {
	out := make(map[string]*raster.Mask, len(cube.Bands))
	for name, band := range cube.Bands {
		m, err := Validity(band, cube.Grid)
		if err != nil {
			return nil, err
		}
		out[name] = m
	}
	return out, nil
}
