// Package quality models the Sentinel-2 scene classification layer as a
// closed enumeration and builds clear-pixel masks from caller-chosen
// acceptable categories.
package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

type SceneClass uint8

const (
	ClassNoData SceneClass = iota
	ClassSaturated
	ClassDarkArea
	ClassCloudShadow
	ClassVegetation
	ClassBareSoil
	ClassWater
	ClassUnclassified
	ClassCloudMedium
	ClassCloudHigh
	ClassThinCirrus
	ClassSnowIce
)

var classLabels = map[SceneClass]string{
	ClassNoData:       "no data",
	ClassSaturated:    "saturated or defective",
	ClassDarkArea:     "dark area pixels",
	ClassCloudShadow:  "cloud shadows",
	ClassVegetation:   "vegetation",
	ClassBareSoil:     "bare soils",
	ClassWater:        "water",
	ClassUnclassified: "unclassified",
	ClassCloudMedium:  "clouds medium probability",
	ClassCloudHigh:    "clouds high probability",
	ClassThinCirrus:   "thin cirrus",
	ClassSnowIce:      "snow or ice",
}

func (c SceneClass) Label() string {
	label, ok := classLabels[c]
	if !ok {
		return fmt.Sprintf("scene class %d", uint8(c))
	}
	return label
}

func KnownLabels() []string {
	labels := make([]string, 0, len(classLabels))
	for _, label := range classLabels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// UnknownCategoryError reports an acceptable-category label that is not part
// of the scene classification enumeration. Category sets are tuned per
// analysis, so a typo here must fail loudly instead of silently masking
// nothing.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown scene classification category %q, known categories: %s",
		e.Label, strings.Join(KnownLabels(), ", "))
}

// ParseLabel resolves a category label back to its class code.
func ParseLabel(label string) (SceneClass, error) {
	for class, known := range classLabels {
		if known == label {
			return class, nil
		}
	}
	return 0, &UnknownCategoryError{Label: label}
}

// AcceptableMask marks every pixel whose scene class is in the accept set.
// The scl band carries class codes as raw numbers, the way they arrive from
// the classification layer of the product.
func AcceptableMask(scl *raster.Band, grid raster.Grid, accept []string) (*raster.Mask, error) {
	classes := make(map[SceneClass]bool, len(accept))
	for _, label := range accept {
		class, err := ParseLabel(label)
		if err != nil {
			return nil, err
		}
		classes[class] = true
	}

	mask := raster.NewMask(len(scl.Data), grid.Width, grid.Height)
	for t, step := range scl.Data {
		if len(step) != grid.Pixels() {
			return nil, &raster.ShapeMismatchError{
				Op:   fmt.Sprintf("scene classification step %d", t),
				Want: fmt.Sprintf("%dx%d pixels", grid.Height, grid.Width),
				Got:  fmt.Sprintf("%d pixels", len(step)),
			}
		}
		for i, code := range step {
			if code < 0 || code > 255 || code != math.Trunc(code) {
				continue
			}
			mask.Data[t][i] = classes[SceneClass(uint8(code))]
		}
	}
	return mask, nil
}
