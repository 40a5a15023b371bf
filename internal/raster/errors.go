package raster

import "fmt"

// ShapeMismatchError reports two arrays that were expected to share the same
// (time, y, x) shape but do not.
type ShapeMismatchError struct {
	Op   string
	Want string
	Got  string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: want %s, got %s", e.Op, e.Want, e.Got)
}

func ShapeString(steps, height, width int) string {
	return fmt.Sprintf("%dx%dx%d", steps, height, width)
}
