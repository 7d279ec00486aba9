package image

import "math"

// SpreadMode determines how sampling coordinates outside the image are
// remapped onto it.
type SpreadMode uint8

const (
	// SpreadPad clamps coordinates to the nearest edge pixel (default).
	SpreadPad SpreadMode = iota

	// SpreadRepeat tiles the image. Coordinates wrap at the boundaries.
	SpreadRepeat

	// SpreadReflect mirrors the image at boundaries. The edge row and
	// column are not repeated.
	SpreadReflect
)

// String returns a string representation of the spread mode.
func (s SpreadMode) String() string {
	switch s {
	case SpreadPad:
		return "Pad"
	case SpreadRepeat:
		return "Repeat"
	case SpreadReflect:
		return "Reflect"
	default:
		return "Unknown"
	}
}

// InBounds reports whether (x, y) lies inside the continuous sampling
// domain [0, w-1] x [0, h-1].
func InBounds(x, y float64, w, h int) bool {
	return x >= 0 && x <= float64(w-1) && y >= 0 && y <= float64(h-1)
}

// ApplySpread remaps a one-dimensional coordinate into the sampling
// domain of an axis with size pixels. SpreadPad and SpreadReflect land
// in [0, size-1]; SpreadRepeat lands in [0, size).
func ApplySpread(t float64, size int, mode SpreadMode) float64 {
	switch mode {
	case SpreadRepeat:
		return repeatSpan(t, size)
	case SpreadReflect:
		return reflectSpan(t, size)
	default:
		return clampFloat(t, 0, float64(size-1))
	}
}

// SampleSpread samples the image at (x, y), remapping out-of-domain
// coordinates with the given spread mode first. Interpolation does not
// blend across the seam introduced by SpreadRepeat; neighbors clamp to
// the image as in Sample.
func SampleSpread(img *ImageBuf, x, y float64, interp InterpolationMode, mode SpreadMode) (r, g, b, a byte) {
	w, h := img.Bounds()
	x = ApplySpread(x, w, mode)
	y = ApplySpread(y, h, mode)
	return Sample(img, x, y, interp)
}

// repeatSpan wraps t into [0, size) with period size.
func repeatSpan(t float64, size int) float64 {
	fs := float64(size)
	p := math.Mod(t, fs)
	if p < 0 {
		p += fs
	}
	if p >= fs { // rounding at the period boundary
		p = 0
	}
	return p
}

// reflectSpan folds t into [0, size-1] with period 2*(size-1), so the
// reflection pivots on the edge pixels without doubling them. A
// single-pixel axis always maps to 0.
func reflectSpan(t float64, size int) float64 {
	if size <= 1 {
		return 0
	}
	edge := float64(size - 1)
	period := 2 * edge
	p := math.Mod(t, period)
	if p < 0 {
		p += period
	}
	if p > edge {
		p = period - p
	}
	return p
}
