package warp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	intImage "github.com/gogpu/warp/internal/image"
	"github.com/gogpu/warp/internal/parallel"
)

// sharedPool is the process-wide sampling pool, created on first use and
// sized to GOMAXPROCS. It is never closed.
var sharedPool = sync.OnceValue(func() *parallel.WorkerPool {
	return parallel.NewWorkerPool(0)
})

// Warp resamples src through the transform and returns a new FormatRGBA8
// image. Each output pixel is sampled at the source coordinate the
// transform maps it to; coordinates outside the source are produced by
// the configured extension policy. The output matches the source size
// unless WithOutputSize overrides it.
//
// Translucent sources are flattened against the background color before
// sampling, so the result is always opaque.
func Warp(src *ImageBuf, t *ProjectiveTransform, opts ...Option) (*ImageBuf, error) {
	return WarpContext(context.Background(), src, t, opts...)
}

// WarpContext is Warp with cancellation. Cancellation is observed at row
// granularity; a canceled warp returns ctx.Err() and no image.
func WarpContext(ctx context.Context, src *ImageBuf, t *ProjectiveTransform, opts ...Option) (*ImageBuf, error) {
	if t == nil {
		return nil, errors.New("warp: transform must not be nil")
	}
	o := defaultWarpOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}

	outW, outH := o.outWidth, o.outHeight
	if outW <= 0 || outH <= 0 {
		outW, outH = src.Bounds()
	}
	f, err := t.Field(outW, outH)
	if err != nil {
		return nil, err
	}
	return warpThroughField(ctx, src, f, o)
}

// WarpField resamples src through a prebuilt coordinate field. The output
// dimensions are the field dimensions; WithOutputSize must agree with
// them or the call fails with ErrDimensionMismatch.
func WarpField(src *ImageBuf, f *Field, opts ...Option) (*ImageBuf, error) {
	return WarpFieldContext(context.Background(), src, f, opts...)
}

// WarpFieldContext is WarpField with cancellation.
func WarpFieldContext(ctx context.Context, src *ImageBuf, f *Field, opts ...Option) (*ImageBuf, error) {
	if f == nil {
		return nil, errors.New("warp: field must not be nil")
	}
	o := defaultWarpOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkSource(src); err != nil {
		return nil, err
	}
	if (o.outWidth > 0 && o.outWidth != f.Width()) ||
		(o.outHeight > 0 && o.outHeight != f.Height()) {
		return nil, fmt.Errorf("%w: field is %dx%d, output %dx%d",
			ErrDimensionMismatch, f.Width(), f.Height(), o.outWidth, o.outHeight)
	}
	return warpThroughField(ctx, src, f, o)
}

// checkSource validates the source image for sampling.
func checkSource(src *ImageBuf) error {
	if src == nil || src.IsEmpty() {
		return fmt.Errorf("%w: empty source image", ErrInvalidSize)
	}
	if !intImage.SamplerSupports(src.Format()) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Format())
	}
	return nil
}

// sampleConfig is the per-call sampling state shared by all rows.
type sampleConfig struct {
	flat          *ImageBuf
	interp        InterpolationMode
	mode          ExtendMode
	spread        intImage.SpreadMode
	bgR, bgG, bgB uint8
	srcW, srcH    int
}

// warpThroughField runs the sampling engine: flatten, resolve the
// background, try the registered accelerator, then sample on the CPU.
func warpThroughField(ctx context.Context, src *ImageBuf, f *Field, o warpOptions) (*ImageBuf, error) {
	bgR, bgG, bgB := o.background.rgb8()
	flat, err := intImage.Flatten(src, bgR, bgG, bgB)
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}
	defer intImage.PutToDefault(flat)
	if o.extend == ExtendBackgroundAverage {
		bgR, bgG, bgB = intImage.AverageRGB(flat)
	}

	out, err := intImage.NewImageBuf(f.Width(), f.Height(), intImage.FormatRGBA8)
	if err != nil {
		return nil, fmt.Errorf("warp: %w", err)
	}

	cfg := sampleConfig{
		flat:   flat,
		interp: o.interp,
		mode:   o.extend,
		bgR:    bgR,
		bgG:    bgG,
		bgB:    bgB,
	}
	cfg.srcW, cfg.srcH = flat.Bounds()
	switch o.extend {
	case ExtendReplicate:
		cfg.spread = intImage.SpreadPad
	case ExtendMirror:
		cfg.spread = intImage.SpreadReflect
	case ExtendTile:
		cfg.spread = intImage.SpreadRepeat
	}

	Logger().Debug("warp field",
		"width", f.Width(), "height", f.Height(),
		"extend", o.extend.String(), "interp", o.interp.String(),
		"workers", o.workers)

	if tryAccelerated(out, f, &cfg) {
		return out, nil
	}
	if err := sampleRows(ctx, out, f, &cfg, o.workers); err != nil {
		return nil, err
	}
	return out, nil
}

// tryAccelerated offers the warp to the registered GPU accelerator.
// Any failure falls back to CPU sampling.
func tryAccelerated(out *ImageBuf, f *Field, cfg *sampleConfig) bool {
	a := Accelerator()
	if a == nil || !a.CanAccelerate(AccelWarp) {
		return false
	}
	target := GPUTarget{
		Data:   out.Data(),
		Width:  out.Width(),
		Height: out.Height(),
		Stride: out.Stride(),
	}
	params := WarpParams{
		Extend:     cfg.mode,
		Interp:     cfg.interp,
		Background: [4]uint8{cfg.bgR, cfg.bgG, cfg.bgB, 255},
	}
	err := a.WarpField(target, cfg.flat, f, params)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrFallbackToCPU) {
		Logger().Debug("accelerator declined warp", "accelerator", a.Name())
	} else {
		Logger().Warn("gpu warp failed, falling back to CPU",
			"accelerator", a.Name(), "error", err)
	}
	return false
}

// sampleRows fills the output row by row, in parallel unless workers is 1.
func sampleRows(ctx context.Context, out *ImageBuf, f *Field, cfg *sampleConfig, workers int) error {
	h := f.Height()
	if workers == 1 || h == 1 {
		for dy := range h {
			if err := ctx.Err(); err != nil {
				return err
			}
			sampleRow(out, f, cfg, dy)
		}
		return nil
	}

	pool := sharedPool()
	if workers > 1 {
		pool = parallel.NewWorkerPool(workers)
		defer pool.Close()
	}
	work := make([]func(), h)
	for dy := range h {
		work[dy] = func() {
			if ctx.Err() != nil {
				return
			}
			sampleRow(out, f, cfg, dy)
		}
	}
	pool.ExecuteAll(work)
	return ctx.Err()
}

// sampleRow samples one output row through the field. Rows are disjoint,
// so concurrent calls need no synchronization.
func sampleRow(out *ImageBuf, f *Field, cfg *sampleConfig, dy int) {
	row := out.RowBytes(dy)
	coords := f.Coords()
	base := 2 * dy * f.Width()

	for dx := range f.Width() {
		sx := float64(coords[base+2*dx])
		sy := float64(coords[base+2*dx+1])

		var r, g, b byte
		switch cfg.mode {
		case ExtendReplicate, ExtendMirror, ExtendTile:
			r, g, b, _ = intImage.SampleSpread(cfg.flat, sx, sy, cfg.interp, cfg.spread)
		default:
			if intImage.InBounds(sx, sy, cfg.srcW, cfg.srcH) {
				r, g, b, _ = intImage.Sample(cfg.flat, sx, sy, cfg.interp)
			} else {
				r, g, b = cfg.bgR, cfg.bgG, cfg.bgB
			}
		}

		i := dx * 4
		row[i] = r
		row[i+1] = g
		row[i+2] = b
		row[i+3] = 255
	}
}
