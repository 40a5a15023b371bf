package raster

import (
	"fmt"
	"math"
	"time"
)

// Grid describes the pixel grid shared by every band of a cube: its shape
// and the GDAL-style geotransform mapping pixel to world coordinates.
type Grid struct {
	Width     int
	Height    int
	Transform [6]float64
}

func (g Grid) Pixels() int {
	return g.Width * g.Height
}

// PixelCenter returns the world coordinates of the center of pixel (x, y).
func (g Grid) PixelCenter(x, y int) (float64, float64) {
	gt := g.Transform
	wx := gt[0] + gt[1]*(float64(x)+0.5) + gt[2]*(float64(y)+0.5)
	wy := gt[3] + gt[4]*(float64(x)+0.5) + gt[5]*(float64(y)+0.5)
	return wx, wy
}

func (g Grid) SameShape(other Grid) bool {
	return g.Width == other.Width && g.Height == other.Height
}

// WorldToPixel inverts the geotransform, returning fractional pixel
// coordinates.
func (g Grid) WorldToPixel(wx, wy float64) (float64, float64) {
	gt := g.Transform
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return math.NaN(), math.NaN()
	}
	dx := wx - gt[0]
	dy := wy - gt[3]
	px := (dx*gt[5] - dy*gt[2]) / det
	py := (dy*gt[1] - dx*gt[4]) / det
	return px, py
}

// Band holds one spectral band over every time step of a cube. Data[t] is a
// row-major Height*Width slice. NoData is the sentinel marking pixels that
// hold no real observation; Scale and Offset turn raw digital numbers into
// physical units.
type Band struct {
	Name   string
	NoData float64
	Scale  float64
	Offset float64
	Data   [][]float64
}

// IsNoData compares against the band sentinel. A NaN sentinel needs its own
// check because NaN != NaN under literal comparison.
func (b *Band) IsNoData(v float64) bool {
	if math.IsNaN(b.NoData) {
		return math.IsNaN(v)
	}
	return v == b.NoData
}

func (b *Band) selectSteps(indices []int) *Band {
	data := make([][]float64, len(indices))
	for i, t := range indices {
		data[i] = b.Data[t]
	}
	return &Band{Name: b.Name, NoData: b.NoData, Scale: b.Scale, Offset: b.Offset, Data: data}
}

// Cube is a labeled multi-band array over (time, y, x). All bands share the
// same time axis and grid. Cubes are never mutated after construction; every
// transformation allocates a new one.
type Cube struct {
	Times []time.Time
	Grid  Grid
	Bands map[string]*Band
}

func NewCube(times []time.Time, grid Grid) (*Cube, error) {
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("cube time axis must be strictly increasing, got %s after %s",
				times[i].Format("2006-01-02"), times[i-1].Format("2006-01-02"))
		}
	}
	return &Cube{
		Times: times,
		Grid:  grid,
		Bands: make(map[string]*Band),
	}, nil
}

func (c *Cube) AddBand(band *Band) error {
	if len(band.Data) != len(c.Times) {
		return &ShapeMismatchError{
			Op:   "add band " + band.Name,
			Want: fmt.Sprintf("%d time steps", len(c.Times)),
			Got:  fmt.Sprintf("%d time steps", len(band.Data)),
		}
	}
	for t, step := range band.Data {
		if len(step) != c.Grid.Pixels() {
			return &ShapeMismatchError{
				Op:   fmt.Sprintf("add band %s step %d", band.Name, t),
				Want: fmt.Sprintf("%dx%d pixels", c.Grid.Height, c.Grid.Width),
				Got:  fmt.Sprintf("%d pixels", len(step)),
			}
		}
	}
	c.Bands[band.Name] = band
	return nil
}

func (c *Cube) Band(name string) (*Band, error) {
	band, ok := c.Bands[name]
	if !ok {
		return nil, fmt.Errorf("band %s not present in cube", name)
	}
	return band, nil
}

// SelectSteps returns a new cube restricted to the given time indices, in the
// order given. The indices act as a join key: every band is cut identically.
func (c *Cube) SelectSteps(indices []int) (*Cube, error) {
	times := make([]time.Time, len(indices))
	for i, t := range indices {
		if t < 0 || t >= len(c.Times) {
			return nil, fmt.Errorf("time index %d out of range for cube with %d steps", t, len(c.Times))
		}
		times[i] = c.Times[t]
	}
	out := &Cube{Times: times, Grid: c.Grid, Bands: make(map[string]*Band, len(c.Bands))}
	for name, band := range c.Bands {
		out.Bands[name] = band.selectSteps(indices)
	}
	return out, nil
}
