package delivery

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/unhas-eo/datacube-notebooks/internal/cache"
	"github.com/unhas-eo/datacube-notebooks/internal/geometry"
	"github.com/unhas-eo/datacube-notebooks/internal/mask"
	"github.com/unhas-eo/datacube-notebooks/internal/properties"
	"github.com/unhas-eo/datacube-notebooks/internal/quality"
	"github.com/unhas-eo/datacube-notebooks/internal/report"
	"github.com/unhas-eo/datacube-notebooks/internal/sentinel"
	"github.com/unhas-eo/datacube-notebooks/internal/stats"
	"github.com/unhas-eo/datacube-notebooks/output"
)

// DefaultClearCategories are the scene classes counted as cloud-free.
var DefaultClearCategories = []string{
	"vegetation",
	"bare soils",
	"water",
	"unclassified",
	"snow or ice",
}

type CloudAssessmentConfig struct {
	Site         string
	Lake         string
	StartDate    time.Time
	EndDate      time.Time
	IntervalDays int

	ClearCategories []string
}

type CloudAssessmentResult struct {
	Times         []time.Time
	ClearFraction []float64

	ReportCSV     string
	FractionImage string
}

func (c *CloudAssessmentConfig) keyParams() []interface{} {
	return []interface{}{
		c.Site, c.Lake,
		c.StartDate.Format("2006-01-02"), c.EndDate.Format("2006-01-02"),
		c.IntervalDays,
		strings.Join(c.ClearCategories, ","),
	}
}

// RunCloudAssessment computes, without pruning any time step, how often each
// pixel was observed and how often it was clear, plus the per-acquisition
// valid/clear tabular report.
func RunCloudAssessment(cfg CloudAssessmentConfig) (*CloudAssessmentResult, error) {
	if cfg.IntervalDays <= 0 {
		cfg.IntervalDays = 5
	}
	if len(cfg.ClearCategories) == 0 {
		cfg.ClearCategories = DefaultClearCategories
	}

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

	validity, err := mask.CubeValidity(cube)
	if err != nil {
		return nil, err
	}
	validAll, err := combinedValidity(validity)
	if err != nil {
		return nil, err
	}

	scl, err := cube.Band("SCL")
	if err != nil {
		return nil, err
	}
	clearQuality, err := quality.AcceptableMask(scl, cube.Grid, cfg.ClearCategories)
	if err != nil {
		return nil, err
	}
	clearMask, err := validAll.And(clearQuality)
	if err != nil {
		return nil, err
	}

	fractions, err := stats.ClearFraction(clearMask, validAll)
	if err != nil {
		return nil, err
	}

	result := &CloudAssessmentResult{
		Times:         cube.Times,
		ClearFraction: fractions,
	}

	resultDir, err := ensureResultDir(cfg.Site, cfg.Lake)
	if err != nil {
		return nil, err
	}

	rowCache := cache.New[[]report.TimeStepRow]("cloud-assessment")
	cacheKey := rowCache.Key(cfg.keyParams()...)

	rows, ok := rowCache.Get(cacheKey)
	if !ok {
		rows, err = report.BuildTimeStepRows(cube.Times, validAll, clearMask, nil)
		if err != nil {
			return nil, err
		}
		if err := rowCache.Set(cacheKey, rows); err != nil {
			fmt.Printf("Failed to cache report rows: %v\n", err)
		}
	}

	result.ReportCSV = fmt.Sprintf("%s/%s_%s_cloud_report.csv", resultDir, cfg.Site, cfg.Lake)
	if err := report.WriteCSV(result.ReportCSV, rows); err != nil {
		return nil, err
	}

	result.FractionImage, err = output.CreateFractionImage(fractions, cube.Grid, cfg.Site, cfg.Lake, "clear_fraction")
	if err != nil {
		return nil, err
	}
	return result, nil
}

func ensureResultDir(site, lake string) (string, error) {
	resultDir := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), site, lake)
	if err := os.MkdirAll(resultDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	return resultDir, nil
}
