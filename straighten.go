package warp

import "context"

// Straighten squares up the quadrilateral region of src: it solves the
// transform that maps the quad onto its axis-aligned counterpart and
// warps the whole image through it. The counterpart keeps the quad's
// top-left corner and derives the remaining corners from the top-right
// X and bottom-left Y, so an already axis-aligned rectangle maps to
// itself and the image passes through unchanged.
//
// Returns the destination rectangle corners alongside the warped image.
// Solve and warp errors propagate unchanged.
func Straighten(src *ImageBuf, quad Quad, opts ...Option) (Quad, *ImageBuf, error) {
	return StraightenContext(context.Background(), src, quad, opts...)
}

// StraightenContext is Straighten with cancellation.
func StraightenContext(ctx context.Context, src *ImageBuf, quad Quad, opts ...Option) (Quad, *ImageBuf, error) {
	dst := Quad{
		quad[0],
		Point{X: quad[1].X, Y: quad[0].Y},
		Point{X: quad[1].X, Y: quad[3].Y},
		Point{X: quad[0].X, Y: quad[3].Y},
	}
	t, err := SolveTransform(quad, dst)
	if err != nil {
		return Quad{}, nil, err
	}
	out, err := WarpContext(ctx, src, t, opts...)
	if err != nil {
		return Quad{}, nil, err
	}
	return dst, out, nil
}

// Rectify extracts the quadrilateral region of src into a new image,
// mapping the quad corners to the output corners. The output size
// derives from the quad's average edge lengths unless WithOutputSize
// overrides it.
func Rectify(src *ImageBuf, quad Quad, opts ...Option) (*ImageBuf, error) {
	return RectifyContext(context.Background(), src, quad, opts...)
}

// RectifyContext is Rectify with cancellation.
func RectifyContext(ctx context.Context, src *ImageBuf, quad Quad, opts ...Option) (*ImageBuf, error) {
	o := defaultWarpOptions()
	for _, opt := range opts {
		opt(&o)
	}
	w, h := o.outWidth, o.outHeight
	if w <= 0 || h <= 0 {
		w, h = quad.RectifiedSize()
	}
	t, err := SolveTransform(quad, ImageQuad(w, h))
	if err != nil {
		return nil, err
	}
	return WarpContext(ctx, src, t, append(opts, WithOutputSize(w, h))...)
}
