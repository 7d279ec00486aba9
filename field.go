package warp

import (
	"fmt"
	"math"
)

// OffPlane is the sentinel source coordinate stored in a Field for
// destination pixels whose projective denominator vanishes (the horizon
// line). It lies far outside any image, so every extension policy treats
// such pixels uniformly as out of bounds. A Field never contains NaN or
// Inf.
const OffPlane float32 = -1e9

// Field is a dense per-pixel coordinate map: one (sx, sy) source
// coordinate pair per destination pixel, row-major. A Field is scoped to
// a single warp invocation; the engine that builds one discards it after
// sampling.
type Field struct {
	width  int
	height int
	coords []float32 // 2 entries per pixel: sx, sy
}

// Field builds the coordinate field for a width x height destination
// grid: element (dx, dy) holds the source coordinate the transform maps
// that destination pixel to. Returns ErrInvalidSize for non-positive
// dimensions.
func (t *ProjectiveTransform) Field(width, height int) (*Field, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: field %dx%d", ErrInvalidSize, width, height)
	}

	f := &Field{
		width:  width,
		height: height,
		coords: make([]float32, 2*width*height),
	}
	i := 0
	for dy := range height {
		fy := float64(dy)
		for dx := range width {
			s, ok := t.Apply(Point{X: float64(dx), Y: fy})
			if ok {
				f.coords[i] = fieldCoord(s.X)
				f.coords[i+1] = fieldCoord(s.Y)
			} else {
				f.coords[i] = OffPlane
				f.coords[i+1] = OffPlane
			}
			i += 2
		}
	}
	return f, nil
}

// fieldCoord narrows a source coordinate to float32, mapping anything
// non-finite to the off-plane sentinel.
func fieldCoord(v float64) float32 {
	c := float32(v)
	if math.IsNaN(v) || math.IsInf(float64(c), 0) {
		return OffPlane
	}
	return c
}

// Width returns the field width in pixels.
func (f *Field) Width() int {
	return f.width
}

// Height returns the field height in pixels.
func (f *Field) Height() int {
	return f.height
}

// At returns the source coordinate mapped to destination pixel (dx, dy).
// Out-of-range indices return the off-plane sentinel.
func (f *Field) At(dx, dy int) (sx, sy float32) {
	if dx < 0 || dx >= f.width || dy < 0 || dy >= f.height {
		return OffPlane, OffPlane
	}
	i := 2 * (dy*f.width + dx)
	return f.coords[i], f.coords[i+1]
}

// Coords exposes the raw interleaved (sx, sy) pairs, row-major. GPU
// backends upload this slice directly; treat it as read-only.
func (f *Field) Coords() []float32 {
	return f.coords
}
