package geometry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const towutiGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"name":"towuti"},
"geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]]]}}]}`

func writeBoundaryFile(t *testing.T, site, content string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("ROOT_PATH", root)
	dir := filepath.Join(root, "data", "boundaries")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, site+".geojson"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBoundary(t *testing.T) {
	writeBoundaryFile(t, "sulawesi", towutiGeoJSON)

	polygons, err := LoadBoundary("sulawesi", "towuti")
	if err != nil {
		t.Fatalf("expecting no error, actual %v", err)
	}
	if len(polygons) != 1 {
		t.Errorf("expecting 1 polygon, actual %d", len(polygons))
	}
}

func TestLoadBoundaryUnknownName(t *testing.T) {
	writeBoundaryFile(t, "sulawesi", towutiGeoJSON)

	_, err := LoadBoundary("sulawesi", "matano")
	var emptyErr *EmptyGeometryError
	if !errors.As(err, &emptyErr) {
		t.Errorf("expecting EmptyGeometryError, actual %v", err)
	}
}

func TestLoadBoundaryMissingFile(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	if _, err := LoadBoundary("nowhere", "towuti"); err == nil {
		t.Errorf("expecting error for missing boundary file")
	}
}
