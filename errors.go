package warp

import "errors"

// Errors reported by the solver, field builder, and warp engine. All are
// detected at the point of construction and returned without partial
// output; a degenerate transform never silently falls back to identity.
var (
	// ErrInvalidInputShape is returned when a correspondence list does not
	// contain exactly 4 points.
	ErrInvalidInputShape = errors.New("warp: correspondence must have exactly 4 points")

	// ErrDegenerateCorrespondence is returned when the correspondence system
	// is singular or near-singular (collinear or coincident points) and the
	// transform cannot be solved with numerical confidence.
	ErrDegenerateCorrespondence = errors.New("warp: degenerate correspondence")

	// ErrDimensionMismatch is returned when coordinate field dimensions do
	// not match the requested output dimensions.
	ErrDimensionMismatch = errors.New("warp: field dimensions do not match output")

	// ErrUnsupportedFormat is returned when the source pixel format cannot
	// be read by the resampling pipeline.
	ErrUnsupportedFormat = errors.New("warp: unsupported pixel format")

	// ErrInvalidSize is returned when requested dimensions are zero or
	// negative, or the source image is empty.
	ErrInvalidSize = errors.New("warp: dimensions must be positive")
)
