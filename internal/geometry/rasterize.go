// Package geometry turns vector lake boundaries into pixel-aligned masks on
// a cube's grid.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

// EmptyGeometryError means a boundary selection resolved to zero polygons.
// That is nearly always a configuration mistake upstream (a name filter that
// matched nothing), so it fails instead of yielding an all-false mask.
type EmptyGeometryError struct {
	Name string
}

func (e *EmptyGeometryError) Error() string {
	if e.Name == "" {
		return "empty polygon set, nothing to rasterize"
	}
	return fmt.Sprintf("boundary selection %q resolved to zero polygons", e.Name)
}

// Rasterize marks every pixel whose CENTER falls inside any polygon. The
// pixel-center rule is the one rule this package implements: a pixel whose
// footprint merely touches the boundary stays outside unless its center is
// covered. Polygons must already be in the grid's reference system.
func Rasterize(polygons orb.MultiPolygon, grid raster.Grid) (*raster.SpatialMask, error) {
	if len(polygons) == 0 {
		return nil, &EmptyGeometryError{}
	}

	mask := raster.NewSpatialMask(grid.Width, grid.Height)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			wx, wy := grid.PixelCenter(x, y)
			if planar.MultiPolygonContains(polygons, orb.Point{wx, wy}) {
				mask.Data[y*grid.Width+x] = true
			}
		}
	}
	return mask, nil
}

// CentroidLatLon returns the centroid of the boundary, latitude first.
func CentroidLatLon(polygons orb.MultiPolygon) (float64, float64, error) {
	centroid, area := planar.CentroidArea(polygons)
	if area <= 0 {
		return 0, 0, fmt.Errorf("boundary has no area, cannot compute centroid")
	}
	return centroid.Y(), centroid.X(), nil
}
