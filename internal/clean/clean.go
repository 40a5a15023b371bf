// Package clean produces analysis-ready bands: invalid and defective pixels
// become NaN and the surviving raw digital numbers are rescaled to physical
// units.
package clean

import (
	"math"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// Band applies the band's validity mask and the quality mask, then the
// band's scale and offset. Masking happens strictly before rescaling so fill
// values never turn into plausible-looking reflectances. The returned band
// uses NaN as its sentinel and carries an identity transform, since the
// rescale has already been applied.
func Band(band *raster.Band, validity, quality *raster.Mask) (*raster.Band, error) {
	combined, err := validity.And(quality)
	if err != nil {
		return nil, err
	}

	data := make([][]float64, len(band.Data))
	for t, step := range band.Data {
		out := make([]float64, len(step))
		for i, v := range step {
			if combined.Data[t][i] {
				out[i] = v*band.Scale + band.Offset
			} else {
				out[i] = math.NaN()
			}
		}
		data[t] = out
	}

	return &raster.Band{
		Name:   band.Name,
		NoData: math.NaN(),
		Scale:  1,
		Offset: 0,
		Data:   data,
	}, nil
}

// Cube cleans every band, pairing each with its own validity mask and the
// shared quality mask. The quality mask must already be cut to the cube's
// retained time steps.
func Cube(cube *raster.Cube, validity map[string]*raster.Mask, quality *raster.Mask) (*raster.Cube, error) {
	out, err := raster.NewCube(cube.Times, cube.Grid)
	if err != nil {
		return nil, err
	}
	for name, band := range cube.Bands {
		cleaned, err := Band(band, validity[name], quality)
		if err != nil {
			return nil, err
		}
		if err := out.AddBand(cleaned); err != nil {
			return nil, err
		}
	}
	return out, nil
}
