package warp

// Option configures a single warp invocation.
// Use functional options to customize sampling behavior.
//
// Example:
//
//	// Default: bilinear sampling, black background
//	out, err := warp.Warp(img, t)
//
//	// Mirror edges, auto-sized worker pool
//	out, err := warp.Warp(img, t, warp.WithExtend(warp.ExtendMirror))
type Option func(*warpOptions)

// warpOptions holds the per-call configuration for the warp engine.
type warpOptions struct {
	extend     ExtendMode
	background RGBA
	interp     InterpolationMode
	workers    int
	outWidth   int
	outHeight  int
}

// defaultWarpOptions returns the default warp options.
func defaultWarpOptions() warpOptions {
	return warpOptions{
		extend:     ExtendBackground,
		background: Black,
		interp:     InterpBilinear,
		workers:    0, // shared pool sized to GOMAXPROCS
	}
}

// WithExtend selects the extension policy applied to source coordinates
// that fall outside the image.
func WithExtend(mode ExtendMode) Option {
	return func(o *warpOptions) {
		o.extend = mode
	}
}

// WithBackground sets the color used by ExtendBackground and as the
// base every translucent source pixel is flattened against. Alpha is
// ignored; the fill is opaque.
func WithBackground(c RGBA) Option {
	return func(o *warpOptions) {
		o.background = c
	}
}

// WithBackgroundAverage fills out-of-bounds pixels with the mean color
// of the source image instead of a fixed background. Shorthand for
// WithExtend(ExtendBackgroundAverage).
func WithBackgroundAverage() Option {
	return func(o *warpOptions) {
		o.extend = ExtendBackgroundAverage
	}
}

// WithInterpolation selects the sampling filter. The default is
// InterpBilinear.
func WithInterpolation(mode InterpolationMode) Option {
	return func(o *warpOptions) {
		o.interp = mode
	}
}

// WithWorkers caps the number of goroutines sampling output rows.
// Values below 1 select the shared pool sized to GOMAXPROCS; 1 forces
// serial execution.
func WithWorkers(n int) Option {
	return func(o *warpOptions) {
		o.workers = n
	}
}

// WithOutputSize overrides the output dimensions. By default the output
// matches the source image size.
func WithOutputSize(width, height int) Option {
	return func(o *warpOptions) {
		o.outWidth = width
		o.outHeight = height
	}
}
