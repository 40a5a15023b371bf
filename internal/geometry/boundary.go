package geometry

import (
	"fmt"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/unhas-eo/datacube-notebooks/internal/properties"
)

// LoadBoundary looks up a named water body in the site's GeoJSON file and
// returns its polygons. Features are matched on their "name" property.
func LoadBoundary(site, name string) (orb.MultiPolygon, error) {
	filePath := fmt.Sprintf("%s/data/boundaries/%s.geojson", properties.RootPath(), site)

	godal.RegisterInternalDrivers()
	ds, err := godal.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary file %s: %w", filePath, err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("boundary file %s has no vector layers", filePath)
	}

	layer := layers[0]
	for {
		feat := layer.NextFeature()
		if feat == nil {
			break
		}
		defer feat.Close()

		val, ok := feat.Fields()["name"]
		if !ok || val.String() != name {
			continue
		}

		raw, err := feat.Geometry().GeoJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to export boundary geometry: %w", err)
		}
		geom, err := geojson.UnmarshalGeometry([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse boundary geometry: %w", err)
		}
		return toMultiPolygon(geom.Geometry())
	}

	return nil, &EmptyGeometryError{Name: name}
}

func toMultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{geom}, nil
	case orb.MultiPolygon:
		return geom, nil
	default:
		return nil, fmt.Errorf("boundary geometry must be polygonal, got %s", g.GeoJSONType())
	}
}
