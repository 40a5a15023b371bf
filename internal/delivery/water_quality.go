// Package delivery wires the analytical core into the two monitoring
// pipelines: water quality over a lake boundary and clear-pixel assessment.
package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/unhas-eo/datacube-notebooks/internal/cache"
	"github.com/unhas-eo/datacube-notebooks/internal/clean"
	"github.com/unhas-eo/datacube-notebooks/internal/geometry"
	"github.com/unhas-eo/datacube-notebooks/internal/index"
	"github.com/unhas-eo/datacube-notebooks/internal/mask"
	"github.com/unhas-eo/datacube-notebooks/internal/quality"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
	"github.com/unhas-eo/datacube-notebooks/internal/report"
	"github.com/unhas-eo/datacube-notebooks/internal/sentinel"
	"github.com/unhas-eo/datacube-notebooks/internal/stats"
	"github.com/unhas-eo/datacube-notebooks/output"
)

// DefaultAcceptableCategories keeps the categories usable for water
// analysis. Snow or ice is included on purpose: bright turbid water is
// regularly misclassified as snow.
var DefaultAcceptableCategories = []string{
	"vegetation",
	"bare soils",
	"water",
	"unclassified",
	"snow or ice",
}

type WaterQualityConfig struct {
	Site         string
	Lake         string
	StartDate    time.Time
	EndDate      time.Time
	IntervalDays int

	GoodDataThreshold    float64
	AcceptableCategories []string
	SmoothingWindow      int
	SmoothingMinPeriods  int
}

type WaterQualityResult struct {
	Times    []time.Time
	Retained int
	Total    int

	WaterPixels       []int
	WaterPixelsSmooth []float64
	MeanNDCI          []float64
	MeanNDCISmooth    []float64

	SeriesCSV  string
	ReportCSV  string
	ImagePaths []string
}

// keyParams lists every configuration field that shapes the exported rows.
// A cache hit must mean an identical run.
func (c *WaterQualityConfig) keyParams() []interface{} {
	return []interface{}{
		c.Site, c.Lake,
		c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"),
		c.IntervalDays, c.GoodDataThreshold,
		strings.Join(c.AcceptableCategories, ","),
		c.SmoothingWindow, c.SmoothingMinPeriods,
	}
}

func (c *WaterQualityConfig) withDefaults() {
	if c.IntervalDays <= 0 {
		c.IntervalDays = 5
	}
	if len(c.AcceptableCategories) == 0 {
		c.AcceptableCategories = DefaultAcceptableCategories
	}
	if c.SmoothingWindow == 0 {
		c.SmoothingWindow = 3
	}
	if c.SmoothingMinPeriods == 0 {
		c.SmoothingMinPeriods = 1
	}
}

// RunWaterQuality is the chlorophyll/water-extent monitoring flow: mask,
// prune, clean, derive MNDWI and NDCI, reduce to series, smooth and export.
func RunWaterQuality(cfg WaterQualityConfig) (*WaterQualityResult, error) {
	cfg.withDefaults()

	boundary, err := geometry.LoadBoundary(cfg.Site, cfg.Lake)
	if err != nil {
		return nil, err
	}

	images, err := fetchImages(boundary, cfg.Site, cfg.Lake, cfg.StartDate, cfg.EndDate, cfg.IntervalDays)
	if err != nil {
		return nil, err
	}

	cube, err := sentinel.LoadCube(images)
	if err != nil {
		return nil, err
	}

	scl, err := cube.Band("SCL")
	if err != nil {
		return nil, err
	}
	qualityMask, err := quality.AcceptableMask(scl, cube.Grid, cfg.AcceptableCategories)
	if err != nil {
		return nil, err
	}

	filter, err := mask.FilterTimeSteps(qualityMask, cfg.GoodDataThreshold)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Retained %d of %d time steps above good-data threshold %.2f\n",
		filter.Retained, filter.Total, cfg.GoodDataThreshold)

	cube, err = cube.SelectSteps(filter.Indices)
	if err != nil {
		return nil, err
	}
	qualityMask, err = qualityMask.SelectSteps(filter.Indices)
	if err != nil {
		return nil, err
	}

	validity, err := mask.CubeValidity(cube)
	if err != nil {
		return nil, err
	}

	cleaned, err := clean.Cube(cube, validity, qualityMask)
	if err != nil {
		return nil, err
	}

	boundaryMask, err := geometry.Rasterize(boundary, cube.Grid)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Lake boundary covers %d of %d pixels\n", boundaryMask.CountTrue(), cube.Grid.Pixels())

	mndwi, err := index.MNDWI(cleaned)
	if err != nil {
		return nil, err
	}
	ndci, err := index.NDCI(cleaned)
	if err != nil {
		return nil, err
	}

	waterPixels, err := stats.CountAbove(mndwi, 0, boundaryMask)
	if err != nil {
		return nil, err
	}
	ndciStats, err := stats.ReduceSpace(ndci, boundaryMask)
	if err != nil {
		return nil, err
	}
	meanNDCI := stats.MeanSeries(ndciStats)

	waterSeries := make([]float64, len(waterPixels))
	for i, n := range waterPixels {
		waterSeries[i] = float64(n)
	}
	waterSmooth, err := stats.RollingMedian(waterSeries, cfg.SmoothingWindow, cfg.SmoothingMinPeriods)
	if err != nil {
		return nil, err
	}
	ndciSmooth, err := stats.RollingMedian(meanNDCI, cfg.SmoothingWindow, cfg.SmoothingMinPeriods)
	if err != nil {
		return nil, err
	}

	if peak := stats.ArgMax(waterSmooth); peak >= 0 {
		fmt.Printf("Largest water extent on %s: %d pixels\n",
			cube.Times[peak].Format("2006-01-02"), waterPixels[peak])
	}

	result := &WaterQualityResult{
		Times:             cube.Times,
		Retained:          filter.Retained,
		Total:             filter.Total,
		WaterPixels:       waterPixels,
		WaterPixelsSmooth: waterSmooth,
		MeanNDCI:          meanNDCI,
		MeanNDCISmooth:    ndciSmooth,
	}

	if err := exportWaterQuality(cfg, result, cube, validity, qualityMask, boundaryMask, boundary, mndwi, ndci); err != nil {
		return nil, err
	}
	return result, nil
}

func exportWaterQuality(cfg WaterQualityConfig, result *WaterQualityResult, cube *raster.Cube,
	validity map[string]*raster.Mask, qualityMask *raster.Mask, boundaryMask *raster.SpatialMask,
	boundary orb.MultiPolygon, mndwi, ndci *raster.Band) error {

	resultDir, err := ensureResultDir(cfg.Site, cfg.Lake)
	if err != nil {
		return err
	}

	seriesCache := cache.New[[]report.SeriesRow]("series")
	cacheKey := seriesCache.Key(cfg.keyParams()...)

	seriesRows, ok := seriesCache.Get(cacheKey)
	if !ok {
		seriesRows, err = report.BuildSeriesRows(result.Times, result.WaterPixels,
			result.WaterPixelsSmooth, result.MeanNDCI, result.MeanNDCISmooth)
		if err != nil {
			return err
		}
		if err := seriesCache.Set(cacheKey, seriesRows); err != nil {
			fmt.Printf("Failed to cache series rows: %v\n", err)
		}
	}

	result.SeriesCSV = fmt.Sprintf("%s/%s_%s_series.csv", resultDir, cfg.Site, cfg.Lake)
	if err := report.WriteCSV(result.SeriesCSV, seriesRows); err != nil {
		return err
	}

	validAll, err := combinedValidity(validity)
	if err != nil {
		return err
	}
	clearMask, err := validAll.And(qualityMask)
	if err != nil {
		return err
	}
	reportRows, err := report.BuildTimeStepRows(result.Times, validAll, clearMask, boundaryMask)
	if err != nil {
		return err
	}
	result.ReportCSV = fmt.Sprintf("%s/%s_%s_timesteps.csv", resultDir, cfg.Site, cfg.Lake)
	if err := report.WriteCSV(result.ReportCSV, reportRows); err != nil {
		return err
	}

	ndciImages, err := output.CreateIndexImages(ndci, result.Times, cube.Grid, cfg.Site, cfg.Lake)
	if err != nil {
		return err
	}
	result.ImagePaths = ndciImages

	if len(mndwi.Data) > 0 {
		overlay, err := output.CreateBoundaryOverlay(mndwi, 0, cube.Grid, boundary, cfg.Site, cfg.Lake)
		if err != nil {
			return err
		}
		result.ImagePaths = append(result.ImagePaths, overlay)
	}
	return nil
}

func combinedValidity(validity map[string]*raster.Mask) (*raster.Mask, error) {
	var combined *raster.Mask
	for _, name := range sentinel.BandNames {
		if name == "SCL" {
			continue
		}
		m, ok := validity[name]
		if !ok {
			return nil, fmt.Errorf("missing validity mask for band %s", name)
		}
		if combined == nil {
			combined = m
			continue
		}
		var err error
		combined, err = combined.And(m)
		if err != nil {
			return nil, err
		}
	}
	if combined == nil {
		return nil, fmt.Errorf("no reflectance bands to combine validity masks from")
	}
	return combined, nil
}

// fetchImages converts the boundary to a GDAL geometry and resolves the
// imagery for the date range.
func fetchImages(boundary orb.MultiPolygon, site, lake string, start, end time.Time, intervalDays int) (map[time.Time]string, error) {
	geom, err := godal.NewGeometryFromWKT(wkt.MarshalString(boundary), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GDAL geometry from boundary: %w", err)
	}
	defer geom.Close()

	images, err := sentinel.GetImages(geom, site, lake, start, end, intervalDays)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no imagery available for %s/%s between %s and %s",
			site, lake, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return images, nil
}
