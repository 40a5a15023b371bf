// Package output renders pipeline results to image files for inspection.
package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/unhas-eo/datacube-notebooks/internal/properties"
	"github.com/unhas-eo/datacube-notebooks/internal/raster"
)

func normalize(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	norm := (value - min) / (max - min)
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

func valueToColor(norm float64) color.RGBA {
	var r, g, b uint8
	if norm <= 0.5 {
		// Transition from blue to green
		ratio := norm / 0.5
		r = 0
		g = uint8(255 * ratio)
		b = uint8(255 * (1 - ratio))
	} else {
		// Transition from green to red
		ratio := (norm - 0.5) / 0.5
		r = uint8(255 * ratio)
		g = uint8(255 * (1 - ratio))
		b = 0
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// CreateIndexImages writes one PNG per time step of an index band, values
// ramped from blue (-1) through green to red (+1). Masked pixels stay
// transparent.
func CreateIndexImages(band *raster.Band, times []time.Time, grid raster.Grid, site, lake string) ([]string, error) {
	resultPath := fmt.Sprintf("%s/data/result/%s/%s/%s", properties.RootPath(), site, lake, band.Name)
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create result folder: %w", err)
	}

	imagePaths := []string{}
	for t := range band.Data {
		img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				v := band.Data[t][y*grid.Width+x]
				if math.IsNaN(v) {
					continue
				}
				img.Set(x, y, valueToColor(normalize(v, -1, 1)))
			}
		}

		outputPath := filepath.Join(resultPath, fmt.Sprintf("%s_%s.png", band.Name, times[t].Format("2006_01_02")))
		if err := writePNG(outputPath, img); err != nil {
			return nil, err
		}
		imagePaths = append(imagePaths, outputPath)
	}
	return imagePaths, nil
}

// CreateFractionImage writes a per-pixel fraction (0..1) as a grayscale PNG.
// Pixels with an undefined fraction stay transparent.
func CreateFractionImage(fractions []float64, grid raster.Grid, site, lake, name string) (string, error) {
	resultPath := fmt.Sprintf("%s/data/result/%s/%s", properties.RootPath(), site, lake)
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			v := fractions[y*grid.Width+x]
			if math.IsNaN(v) {
				continue
			}
			gray := uint8(255 * normalize(v, 0, 1))
			img.Set(x, y, color.RGBA{R: gray, G: gray, B: gray, A: 255})
		}
	}

	outputPath := filepath.Join(resultPath, name+".png")
	if err := writePNG(outputPath, img); err != nil {
		return "", err
	}
	return outputPath, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode PNG file: %w", err)
	}
	return nil
}
