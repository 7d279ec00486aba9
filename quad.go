package warp

import (
	"fmt"
	"math"
)

// Quad is an ordered quadrilateral: top-left, top-right, bottom-right,
// bottom-left by caller convention. The general warp accepts arbitrary
// non-degenerate quads; only Straighten relies on the corner ordering.
type Quad [4]Point

// QuadFromRect returns the quad spanning the rectangle with top-left
// corner (x, y) and the given width and height.
func QuadFromRect(x, y, width, height float64) Quad {
	return Quad{
		{X: x, Y: y},
		{X: x + width, Y: y},
		{X: x + width, Y: y + height},
		{X: x, Y: y + height},
	}
}

// ImageQuad returns the quad through the corner pixel centers of a
// width x height image: (0,0), (w-1,0), (w-1,h-1), (0,h-1).
func ImageQuad(width, height int) Quad {
	w := float64(width - 1)
	h := float64(height - 1)
	return Quad{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

// QuadFromPoints builds a Quad from a point slice.
// Returns ErrInvalidInputShape unless the slice holds exactly 4 points.
func QuadFromPoints(pts []Point) (Quad, error) {
	if len(pts) != 4 {
		return Quad{}, fmt.Errorf("%w (got %d)", ErrInvalidInputShape, len(pts))
	}
	return Quad{pts[0], pts[1], pts[2], pts[3]}, nil
}

// Points returns the corners as a slice in order.
func (q Quad) Points() []Point {
	return []Point{q[0], q[1], q[2], q[3]}
}

// Bounds returns the axis-aligned bounding box of the quad as its
// min and max corners.
func (q Quad) Bounds() (minPt, maxPt Point) {
	minPt = q[0]
	maxPt = q[0]
	for _, p := range q[1:] {
		minPt.X = math.Min(minPt.X, p.X)
		minPt.Y = math.Min(minPt.Y, p.Y)
		maxPt.X = math.Max(maxPt.X, p.X)
		maxPt.Y = math.Max(maxPt.Y, p.Y)
	}
	return minPt, maxPt
}

// Centroid returns the average of the four corners.
func (q Quad) Centroid() Point {
	return q[0].Add(q[1]).Add(q[2]).Add(q[3]).Mul(0.25)
}

// IsConvex reports whether the corners trace a convex quadrilateral.
// All edge cross products must share a sign; a zero cross product
// (collinear corners) counts as non-convex.
func (q Quad) IsConvex() bool {
	sign := 0
	for i := range 4 {
		a := q[(i+1)%4].Sub(q[i])
		b := q[(i+2)%4].Sub(q[(i+1)%4])
		cross := a.Cross(b)
		switch {
		case cross > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case cross < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		default:
			return false
		}
	}
	return true
}

// IsFinite reports whether every corner coordinate is finite.
func (q Quad) IsFinite() bool {
	for _, p := range q {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// RectifiedSize estimates natural output dimensions for extracting the
// quad: opposite edge lengths are averaged, so the region keeps its
// apparent aspect ratio. The result is at least 1x1.
func (q Quad) RectifiedSize() (width, height int) {
	top := q[0].Distance(q[1])
	bottom := q[3].Distance(q[2])
	left := q[0].Distance(q[3])
	right := q[1].Distance(q[2])

	width = int(math.Round((top+bottom)/2)) + 1
	height = int(math.Round((left+right)/2)) + 1
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
