// Package sentinel acquires Sentinel-2 L2A imagery for a site and loads it
// into a raster cube for the analytical pipelines.
package sentinel

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
	"github.com/unhas-eo/datacube-notebooks/internal/properties"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
	"github.com/unhas-eo/datacube-notebooks/internal/utils"
)

// BandNames is the band order of every GeoTIFF this package writes and
// reads: reflectance bands as digital numbers plus the scene classification
// layer.
var BandNames = []string{"B03", "B04", "B05", "B08", "B11", "SCL"}

// ReflectanceScale converts Sentinel-2 digital numbers to surface
// reflectance.
const ReflectanceScale = 0.0001

func gdalQuietWarnings(ec godal.ErrorCategory, code int, msg string) error {
	if ec == godal.CE_Warning {
		return nil
	}
	return fmt.Errorf("gdal error %d: %s", code, msg)
}

// GetImages resolves one GeoTIFF per acquisition date in the range, reusing
// files already on disk and downloading the rest. It returns date to path.
func GetImages(geometry *godal.Geometry, site, lake string, startDate, endDate time.Time, intervalDays int) (map[time.Time]string, error) {
	images := make(map[time.Time]string)

	imageDir := filepath.Join(properties.RootPath(), "data", "images", fmt.Sprintf("%s_%s", site, lake))
	if err := os.MkdirAll(imageDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", imageDir, err)
	}

	for currentDate := startDate; !currentDate.After(endDate); currentDate = currentDate.AddDate(0, 0, intervalDays) {
		fileName := filepath.Join(imageDir, fmt.Sprintf("%s_%s_%s.tif", site, lake, currentDate.Format("2006-01-02")))

		if _, err := os.Stat(fileName); err == nil {
			images[currentDate] = fileName
			continue
		}

		dayEnd := currentDate.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
		imageBytes, err := requestImage(currentDate, dayEnd, geometry)
		if err != nil {
			return nil, fmt.Errorf("error requesting image for %s: %w", currentDate.Format("2006-01-02"), err)
		}
		if len(imageBytes) == 0 {
			continue
		}

		if err := os.WriteFile(fileName, imageBytes, 0644); err != nil {
			return nil, fmt.Errorf("failed to write image file: %w", err)
		}
		images[currentDate] = fileName
	}

	return images, nil
}

// LoadCube reads a set of dated GeoTIFFs into one cube. All images must
// share the same grid. Files are decoded in parallel, with the GDAL calls
// themselves serialized.
func LoadCube(images map[time.Time]string) (*raster.Cube, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to load")
	}

	dates := utils.SortedDates(images)

	var grid raster.Grid
	var gridErr error
	utils.ExecuteWithGDALLock(func() {
		grid, gridErr = gridFromFile(images[dates[0]])
	})
	if gridErr != nil {
		return nil, gridErr
	}

	bandData := make(map[string][][]float64, len(BandNames))
	for _, name := range BandNames {
		bandData[name] = make([][]float64, len(dates))
	}

	var (
		errOnce     sync.Once
		loadErr     error
		progressBar = progressbar.Default(int64(len(dates)), "Loading image cube")
	)

	wp := workerpool.New(runtime.NumCPU())
	for t, date := range dates {
		t, date := t, date
		wp.Submit(func() {
			var stepData map[string][]float64
			var err error
			utils.ExecuteWithGDALLock(func() {
				stepData, err = readImage(images[date], grid)
			})
			if err != nil {
				errOnce.Do(func() { loadErr = fmt.Errorf("failed to load image for %s: %w", date.Format("2006-01-02"), err) })
				return
			}
			for name, data := range stepData {
				bandData[name][t] = data
			}
			progressBar.Add(1)
		})
	}
	wp.StopWait()
	progressBar.Finish()

	if loadErr != nil {
		return nil, loadErr
	}

	cube, err := raster.NewCube(dates, grid)
	if err != nil {
		return nil, err
	}
	for _, name := range BandNames {
		band := &raster.Band{
			Name:   name,
			NoData: 0,
			Scale:  ReflectanceScale,
			Offset: 0,
			Data:   bandData[name],
		}
		if name == "SCL" {
			band.Scale = 1
		}
		if err := cube.AddBand(band); err != nil {
			return nil, err
		}
	}
	return cube, nil
}

func gridFromFile(path string) (raster.Grid, error) {
	ds, err := godal.Open(path, godal.ErrLogger(gdalQuietWarnings))
	if err != nil {
		return raster.Grid{}, fmt.Errorf("failed to open TIFF file: %w", err)
	}
	defer ds.Close()

	transform, err := ds.GeoTransform()
	if err != nil {
		return raster.Grid{}, fmt.Errorf("failed to get GeoTransform: %w", err)
	}
	return raster.Grid{
		Width:     ds.Structure().SizeX,
		Height:    ds.Structure().SizeY,
		Transform: transform,
	}, nil
}

func readImage(path string, grid raster.Grid) (map[string][]float64, error) {
	ds, err := godal.Open(path, godal.ErrLogger(gdalQuietWarnings))
	if err != nil {
		return nil, fmt.Errorf("failed to open TIFF file: %w", err)
	}
	defer ds.Close()

	if ds.Structure().SizeX != grid.Width || ds.Structure().SizeY != grid.Height {
		return nil, &raster.ShapeMismatchError{
			Op:   "load image " + filepath.Base(path),
			Want: fmt.Sprintf("%dx%d pixels", grid.Height, grid.Width),
			Got:  fmt.Sprintf("%dx%d pixels", ds.Structure().SizeY, ds.Structure().SizeX),
		}
	}

	bands := ds.Bands()
	if len(bands) < len(BandNames) {
		return nil, fmt.Errorf("image %s has %d bands, want %d", filepath.Base(path), len(bands), len(BandNames))
	}

	out := make(map[string][]float64, len(BandNames))
	for i, name := range BandNames {
		data := make([]float64, grid.Width*grid.Height)
		if err := bands[i].Read(0, 0, data, grid.Width, grid.Height); err != nil {
			return nil, fmt.Errorf("failed to read band %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
