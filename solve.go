package warp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxCondition is the 1-norm condition number above which the 8x8
// correspondence system counts as degenerate. It corresponds to a
// reciprocal condition estimate below 1e-9 relative to the matrix norm.
const maxCondition = 1e9

// SolveTransform computes the projective transform mapping the destination
// quad onto the source quad, the direction the warp engine samples in:
// for every output pixel inside dst, the transform yields the source
// coordinate inside src to read from.
//
// The eight coefficients come from the dense 8x8 linear system built from
// the four corner correspondences; for correspondence i with destination
// point (dx, dy) and source point (sx, sy) the two rows are
//
//	[dx, dy, 1,  0,  0, 0, -dx*sx, -dy*sx] . t = sx
//	[ 0,  0, 0, dx, dy, 1, -dx*sy, -dy*sy] . t = sy
//
// The system is solved by LU decomposition. A singular or near-singular
// system (coincident or collinear corners, non-finite coordinates) fails
// with ErrDegenerateCorrespondence; it is never approximated.
func SolveTransform(src, dst Quad) (*ProjectiveTransform, error) {
	if !src.IsFinite() || !dst.IsFinite() {
		return nil, fmt.Errorf("%w: non-finite corner coordinate", ErrDegenerateCorrespondence)
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := range 4 {
		dx, dy := dst[i].X, dst[i].Y
		sx, sy := src[i].X, src[i].Y

		r := 2 * i
		a.Set(r, 0, dx)
		a.Set(r, 1, dy)
		a.Set(r, 2, 1)
		a.Set(r, 6, -dx*sx)
		a.Set(r, 7, -dy*sx)
		b.SetVec(r, sx)

		a.Set(r+1, 3, dx)
		a.Set(r+1, 4, dy)
		a.Set(r+1, 5, 1)
		a.Set(r+1, 6, -dx*sy)
		a.Set(r+1, 7, -dy*sy)
		b.SetVec(r+1, sy)
	}

	// Reject ill-conditioned systems before trusting the solution: gonum
	// still produces a result for nearly singular input, and a silently
	// wrong transform is worse than an error.
	cond := mat.Cond(a, 1)
	if math.IsInf(cond, 1) || math.IsNaN(cond) || cond > maxCondition {
		return nil, fmt.Errorf("%w: condition number %.3g exceeds %.0g",
			ErrDegenerateCorrespondence, cond, float64(maxCondition))
	}

	var t mat.VecDense
	if err := t.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateCorrespondence, err)
	}

	return &ProjectiveTransform{
		A: t.AtVec(0), B: t.AtVec(1), C: t.AtVec(2),
		D: t.AtVec(3), E: t.AtVec(4), F: t.AtVec(5),
		G: t.AtVec(6), H: t.AtVec(7), I: 1,
	}, nil
}

// SolveTransformPoints is the slice-based entry to SolveTransform. Each
// list must hold exactly 4 points, top-left, top-right, bottom-right,
// bottom-left; any other count fails with ErrInvalidInputShape before any
// computation.
func SolveTransformPoints(src, dst []Point) (*ProjectiveTransform, error) {
	srcQuad, err := QuadFromPoints(src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	dstQuad, err := QuadFromPoints(dst)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}
	return SolveTransform(srcQuad, dstQuad)
}
