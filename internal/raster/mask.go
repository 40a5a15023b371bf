package raster

import "fmt"

// Mask is a boolean array over (time, y, x). Data[t] is row-major
// Height*Width. Masks carry no missing-value concept.
type Mask struct {
	Width  int
	Height int
	Data   [][]bool
}

func NewMask(steps, width, height int) *Mask {
	data := make([][]bool, steps)
	for t := range data {
		data[t] = make([]bool, width*height)
	}
	return &Mask{Width: width, Height: height, Data: data}
}

func (m *Mask) Steps() int {
	return len(m.Data)
}

func (m *Mask) Pixels() int {
	return m.Width * m.Height
}

// And combines two masks elementwise into a new mask.
func (m *Mask) And(other *Mask) (*Mask, error) {
	if m.Width != other.Width || m.Height != other.Height || m.Steps() != other.Steps() {
		return nil, &ShapeMismatchError{
			Op:   "mask and",
			Want: fmt.Sprintf("%dx%dx%d", m.Steps(), m.Height, m.Width),
			Got:  fmt.Sprintf("%dx%dx%d", other.Steps(), other.Height, other.Width),
		}
	}
	out := NewMask(m.Steps(), m.Width, m.Height)
	for t := range m.Data {
		for i := range m.Data[t] {
			out.Data[t][i] = m.Data[t][i] && other.Data[t][i]
		}
	}
	return out, nil
}

// AndSpatial broadcasts a (y, x) mask across the time axis.
func (m *Mask) AndSpatial(sel *SpatialMask) (*Mask, error) {
	if m.Width != sel.Width || m.Height != sel.Height {
		return nil, &ShapeMismatchError{
			Op:   "mask and spatial",
			Want: fmt.Sprintf("%dx%d", m.Height, m.Width),
			Got:  fmt.Sprintf("%dx%d", sel.Height, sel.Width),
		}
	}
	out := NewMask(m.Steps(), m.Width, m.Height)
	for t := range m.Data {
		for i := range m.Data[t] {
			out.Data[t][i] = m.Data[t][i] && sel.Data[i]
		}
	}
	return out, nil
}

// CountTrue counts set pixels at one time step.
func (m *Mask) CountTrue(t int) int {
	n := 0
	for _, v := range m.Data[t] {
		if v {
			n++
		}
	}
	return n
}

// SelectSteps returns a new mask restricted to the given time indices.
func (m *Mask) SelectSteps(indices []int) (*Mask, error) {
	data := make([][]bool, len(indices))
	for i, t := range indices {
		if t < 0 || t >= m.Steps() {
			return nil, fmt.Errorf("time index %d out of range for mask with %d steps", t, m.Steps())
		}
		data[i] = m.Data[t]
	}
	return &Mask{Width: m.Width, Height: m.Height, Data: data}, nil
}

// SpatialMask is a boolean array over (y, x) only, broadcastable across time.
type SpatialMask struct {
	Width  int
	Height int
	Data   []bool
}

func NewSpatialMask(width, height int) *SpatialMask {
	return &SpatialMask{Width: width, Height: height, Data: make([]bool, width*height)}
}

func (s *SpatialMask) CountTrue() int {
	n := 0
	for _, v := range s.Data {
		if v {
			n++
		}
	}
	return n
}
