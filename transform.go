package warp

import (
	"fmt"
	"math"
)

// ProjectiveTransform is a planar projective map (homography) between two
// pixel planes. It is stored as a 3x3 matrix in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//	| G  H  I |
//
// Applying it to a point (x, y) computes
//
//	x' = (A*x + B*y + C) / (G*x + H*y + I)
//	y' = (D*x + E*y + F) / (G*x + H*y + I)
//
// Transforms returned by SolveTransform map destination pixels to source
// coordinates (the direction the warp engine samples in) and keep I == 1,
// so A..H are the eight homography coefficients t0..t7.
type ProjectiveTransform struct {
	A, B, C float64
	D, E, F float64
	G, H, I float64
}

// denomEpsilon bounds the projective denominator: points whose denominator
// magnitude falls below it lie on the horizon line and map off-plane.
const denomEpsilon = 1e-12

// singularEpsilon is the relative determinant tolerance below which a
// transform counts as non-invertible.
const singularEpsilon = 1e-12

// IdentityTransform returns the identity projective transform.
func IdentityTransform() *ProjectiveTransform {
	return &ProjectiveTransform{
		A: 1, B: 0, C: 0,
		D: 0, E: 1, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Translate returns a transform that shifts points by (dx, dy).
func Translate(dx, dy float64) *ProjectiveTransform {
	return &ProjectiveTransform{
		A: 1, B: 0, C: dx,
		D: 0, E: 1, F: dy,
		G: 0, H: 0, I: 1,
	}
}

// Scale returns a transform that scales points by (sx, sy) about the origin.
func Scale(sx, sy float64) *ProjectiveTransform {
	return &ProjectiveTransform{
		A: sx, B: 0, C: 0,
		D: 0, E: sy, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Rotate returns a transform that rotates points by angle radians around
// the origin.
func Rotate(angle float64) *ProjectiveTransform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return &ProjectiveTransform{
		A: cos, B: -sin, C: 0,
		D: sin, E: cos, F: 0,
		G: 0, H: 0, I: 1,
	}
}

// Coefficients returns the eight homography coefficients t0..t7, with the
// matrix normalized so the ninth entry is 1. Only meaningful for
// transforms off the horizon (|I| above the denominator epsilon after
// normalization); SolveTransform results always qualify.
func (t *ProjectiveTransform) Coefficients() [8]float64 {
	n := t.normalized()
	return [8]float64{n.A, n.B, n.C, n.D, n.E, n.F, n.G, n.H}
}

// normalized returns a copy scaled so I == 1 when I is usable as a divisor.
func (t *ProjectiveTransform) normalized() ProjectiveTransform {
	if math.Abs(t.I) < denomEpsilon {
		return *t
	}
	inv := 1 / t.I
	return ProjectiveTransform{
		A: t.A * inv, B: t.B * inv, C: t.C * inv,
		D: t.D * inv, E: t.E * inv, F: t.F * inv,
		G: t.G * inv, H: t.H * inv, I: 1,
	}
}

// Apply maps a point through the transform. The second result is false
// when the point lies on the horizon line (projective denominator within
// denomEpsilon of zero); the returned point is meaningless in that case.
func (t *ProjectiveTransform) Apply(p Point) (Point, bool) {
	den := t.G*p.X + t.H*p.Y + t.I
	if math.Abs(den) < denomEpsilon {
		return Point{}, false
	}
	return Point{
		X: (t.A*p.X + t.B*p.Y + t.C) / den,
		Y: (t.D*p.X + t.E*p.Y + t.F) / den,
	}, true
}

// ApplyQuad maps all four corners of a quad. The second result is false if
// any corner lands on the horizon.
func (t *ProjectiveTransform) ApplyQuad(q Quad) (Quad, bool) {
	var out Quad
	ok := true
	for i, p := range q {
		mapped, pointOK := t.Apply(p)
		out[i] = mapped
		ok = ok && pointOK
	}
	return out, ok
}

// ApplyAll maps every point in the slice, returning a new slice of the
// same length. The second result is false if any point lands on the
// horizon; the remaining points are still mapped.
func (t *ProjectiveTransform) ApplyAll(pts []Point) ([]Point, bool) {
	out := make([]Point, len(pts))
	ok := true
	for i, p := range pts {
		mapped, pointOK := t.Apply(p)
		out[i] = mapped
		ok = ok && pointOK
	}
	return out, ok
}

// Compose returns the matrix product t * u: the transform that applies u
// first and then t.
func (t *ProjectiveTransform) Compose(u *ProjectiveTransform) *ProjectiveTransform {
	return &ProjectiveTransform{
		A: t.A*u.A + t.B*u.D + t.C*u.G,
		B: t.A*u.B + t.B*u.E + t.C*u.H,
		C: t.A*u.C + t.B*u.F + t.C*u.I,
		D: t.D*u.A + t.E*u.D + t.F*u.G,
		E: t.D*u.B + t.E*u.E + t.F*u.H,
		F: t.D*u.C + t.E*u.F + t.F*u.I,
		G: t.G*u.A + t.H*u.D + t.I*u.G,
		H: t.G*u.B + t.H*u.E + t.I*u.H,
		I: t.G*u.C + t.H*u.F + t.I*u.I,
	}
}

// Adjugate returns the classical adjoint matrix. For an invertible
// projective transform the adjugate is the inverse up to scale, which is
// all a homogeneous map needs.
func (t *ProjectiveTransform) Adjugate() *ProjectiveTransform {
	return &ProjectiveTransform{
		A: t.E*t.I - t.F*t.H,
		B: t.C*t.H - t.B*t.I,
		C: t.B*t.F - t.C*t.E,
		D: t.F*t.G - t.D*t.I,
		E: t.A*t.I - t.C*t.G,
		F: t.C*t.D - t.A*t.F,
		G: t.D*t.H - t.E*t.G,
		H: t.B*t.G - t.A*t.H,
		I: t.A*t.E - t.B*t.D,
	}
}

// Invert returns the inverse transform, computed via the adjugate and
// normalized so I == 1 when possible. Returns ErrDegenerateCorrespondence
// when the matrix is singular within a relative tolerance.
func (t *ProjectiveTransform) Invert() (*ProjectiveTransform, error) {
	det := t.A*(t.E*t.I-t.F*t.H) -
		t.B*(t.D*t.I-t.F*t.G) +
		t.C*(t.D*t.H-t.E*t.G)
	scale := t.maxAbs()
	if math.Abs(det) <= singularEpsilon*scale*scale*scale {
		return nil, fmt.Errorf("%w: transform is not invertible (det %g)",
			ErrDegenerateCorrespondence, det)
	}
	inv := t.Adjugate().normalized()
	return &inv, nil
}

// maxAbs returns the largest entry magnitude, used to scale the
// singularity tolerance.
func (t *ProjectiveTransform) maxAbs() float64 {
	m := 0.0
	for _, v := range [9]float64{t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H, t.I} {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// IsAffine reports whether the transform has no perspective component
// (G and H vanish after normalization).
func (t *ProjectiveTransform) IsAffine() bool {
	n := t.normalized()
	return math.Abs(n.G) < denomEpsilon && math.Abs(n.H) < denomEpsilon
}

// String returns the matrix in row-major form.
func (t *ProjectiveTransform) String() string {
	return fmt.Sprintf("[%g %g %g; %g %g %g; %g %g %g]",
		t.A, t.B, t.C, t.D, t.E, t.F, t.G, t.H, t.I)
}

// QuadToQuad returns the closed-form projective transform carrying the
// corners of one quad onto another, built by routing through the unit
// square. Unlike SolveTransform it performs no degeneracy checking;
// degenerate input yields a non-invertible result.
func QuadToQuad(from, to Quad) *ProjectiveTransform {
	return squareToQuad(to).Compose(quadToSquare(from))
}

// QuadToRect returns the transform carrying the quad's corners onto the
// rectangle spanning (0,0) to (width,height).
func QuadToRect(q Quad, width, height float64) *ProjectiveTransform {
	return QuadToQuad(q, QuadFromRect(0, 0, width, height))
}

// squareToQuad maps the unit square corners (0,0), (1,0), (1,1), (0,1)
// onto the quad's corners in order.
func squareToQuad(q Quad) *ProjectiveTransform {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y

	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// Affine
		return &ProjectiveTransform{
			A: x1 - x0, B: x3 - x0, C: x0,
			D: y1 - y0, E: y3 - y0, F: y0,
			G: 0, H: 0, I: 1,
		}
	}

	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	den := dx1*dy2 - dx2*dy1
	g := (dx3*dy2 - dx2*dy3) / den
	h := (dx1*dy3 - dx3*dy1) / den
	return &ProjectiveTransform{
		A: x1 - x0 + g*x1, B: x3 - x0 + h*x3, C: x0,
		D: y1 - y0 + g*y1, E: y3 - y0 + h*y3, F: y0,
		G: g, H: h, I: 1,
	}
}

// quadToSquare maps the quad's corners onto the unit square.
func quadToSquare(q Quad) *ProjectiveTransform {
	return squareToQuad(q).Adjugate()
}
