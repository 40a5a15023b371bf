package delivery

import (
	"testing"
	"time"

	"github.com/unhas-eo/datacube-notebooks/internal/cache"
	"github.com/unhas-eo/datacube-notebooks/internal/report"
)

func baseWaterConfig() WaterQualityConfig {
	cfg := WaterQualityConfig{
		Site:              "sulawesi",
		Lake:              "towuti",
		StartDate:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		GoodDataThreshold: 0.2,
	}
	cfg.withDefaults()
	return cfg
}

func TestWaterQualityCacheKeyCoversConfig(t *testing.T) {
	fc := cache.New[[]report.SeriesRow]("series")
	baseCfg := baseWaterConfig()
	base := fc.Key(baseCfg.keyParams()...)

	variants := map[string]WaterQualityConfig{}

	cfg := baseWaterConfig()
	cfg.AcceptableCategories = []string{"water"}
	variants["categories"] = cfg

	cfg = baseWaterConfig()
	cfg.SmoothingMinPeriods = 2
	variants["min periods"] = cfg

	cfg = baseWaterConfig()
	cfg.IntervalDays = 10
	variants["interval"] = cfg

	cfg = baseWaterConfig()
	cfg.SmoothingWindow = 5
	variants["window"] = cfg

	cfg = baseWaterConfig()
	cfg.GoodDataThreshold = 0.5
	variants["threshold"] = cfg

	for name, v := range variants {
		if key := fc.Key(v.keyParams()...); key == base {
			t.Errorf("expecting a distinct cache key when %s differs, actual identical key %s", name, key)
		}
	}

	againCfg := baseWaterConfig()
	if again := fc.Key(againCfg.keyParams()...); again != base {
		t.Errorf("expecting a stable key for an identical config, actual %s vs %s", again, base)
	}
}

func TestCloudAssessmentCacheKeyCoversCategories(t *testing.T) {
	fc := cache.New[[]report.TimeStepRow]("cloud-assessment")

	a := CloudAssessmentConfig{
		Site:            "sulawesi",
		Lake:            "towuti",
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		IntervalDays:    5,
		ClearCategories: DefaultClearCategories,
	}
	b := a
	b.ClearCategories = []string{"water"}

	if fc.Key(a.keyParams()...) == fc.Key(b.keyParams()...) {
		t.Errorf("expecting distinct cache keys for distinct clear-category sets")
	}
}
