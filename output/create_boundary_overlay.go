package output

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/unhas-eo/datacube-notebooks/internal/properties"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// CreateBoundaryOverlay renders one band time step in grayscale with the
// lake boundary drawn on top, so mask alignment problems are visible at a
// glance.
func CreateBoundaryOverlay(band *raster.Band, t int, grid raster.Grid, boundary orb.MultiPolygon, site, lake string) (string, error) {
	resultPath := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), site, lake)
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range band.Data[t] {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	dc := gg.NewContext(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			v := band.Data[t][y*grid.Width+x]
			if math.IsNaN(v) {
				dc.SetRGB(0, 0, 0)
			} else {
				gray := normalize(v, min, max)
				dc.SetRGB(gray, gray, gray)
			}
			dc.SetPixel(x, y)
		}
	}

	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(1)
	for _, polygon := range boundary {
		for _, ring := range polygon {
			for i, point := range ring {
				px, py := grid.WorldToPixel(point.X(), point.Y())
				if i == 0 {
					dc.MoveTo(px, py)
				} else {
					dc.LineTo(px, py)
				}
			}
			dc.ClosePath()
		}
	}
	dc.Stroke()

	outputPath := filepath.Join(resultPath, fmt.Sprintf("%s_boundary.png", band.Name))
	if err := dc.SavePNG(outputPath); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return outputPath, nil
}
