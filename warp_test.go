package warp

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// testImage builds a deterministic opaque RGBA8 image with per-pixel
// distinct channel values.
func testImage(t testing.TB, w, h int) *ImageBuf {
	t.Helper()
	img, err := NewImage(w, h, FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	for y := range h {
		for x := range w {
			r := uint8((x*7 + 3) % 256)
			g := uint8((y*11 + 5) % 256)
			b := uint8((x*3 + y*5) % 256)
			if err := img.SetRGBA(x, y, r, g, b, 255); err != nil {
				t.Fatalf("SetRGBA(%d,%d) = %v", x, y, err)
			}
		}
	}
	return img
}

func TestWarpIdentity(t *testing.T) {
	src := testImage(t, 8, 6)

	out, err := Warp(src, IdentityTransform())
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	if out.Width() != 8 || out.Height() != 6 {
		t.Fatalf("output %dx%d, want 8x6", out.Width(), out.Height())
	}
	if out.Format() != FormatRGBA8 {
		t.Fatalf("output format %v, want RGBA8", out.Format())
	}

	// Integer coordinates sample pixels exactly, so the identity warp
	// reproduces the source.
	for y := range 6 {
		for x := range 8 {
			wr, wg, wb, wa := out.GetRGBA(x, y)
			sr, sg, sb, _ := src.GetRGBA(x, y)
			if wr != sr || wg != sg || wb != sb || wa != 255 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want (%d,%d,%d,255)",
					x, y, wr, wg, wb, wa, sr, sg, sb)
			}
		}
	}
}

func TestWarpNilTransform(t *testing.T) {
	src := testImage(t, 2, 2)
	if _, err := Warp(src, nil); err == nil {
		t.Error("Warp(nil transform) succeeded")
	}
}

func TestWarpInvalidSource(t *testing.T) {
	tests := []struct {
		name string
		src  *ImageBuf
		want error
	}{
		{"nil source", nil, ErrInvalidSize},
		{"empty source", &ImageBuf{}, ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Warp(tt.src, IdentityTransform())
			if !errors.Is(err, tt.want) {
				t.Errorf("Warp() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWarpRejectsGray16(t *testing.T) {
	src, err := NewImage(4, 4, FormatGray16)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	_, err = Warp(src, IdentityTransform())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Warp(Gray16) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestWarpBackgroundFill(t *testing.T) {
	src := testImage(t, 2, 2)

	// Shift sampling far outside the source: every output pixel takes
	// the background color.
	out, err := Warp(src, Translate(100, 100), WithBackground(Red))
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	for y := range 2 {
		for x := range 2 {
			r, g, b, a := out.GetRGBA(x, y)
			if r != 255 || g != 0 || b != 0 || a != 255 {
				t.Fatalf("pixel (%d,%d) = (%d,%d,%d,%d), want opaque red", x, y, r, g, b, a)
			}
		}
	}
}

func TestWarpExtendModes(t *testing.T) {
	// 3x1 source with distinct columns: A, B, C.
	src, err := NewImage(3, 1, FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	colors := [3][3]uint8{{10, 0, 0}, {0, 20, 0}, {0, 0, 30}}
	for x, c := range colors {
		if err := src.SetRGBA(x, 0, c[0], c[1], c[2], 255); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		tf   *ProjectiveTransform
		mode ExtendMode
		want [3]int // source column index per output pixel
	}{
		{"replicate clamps right", Translate(5, 0), ExtendReplicate, [3]int{2, 2, 2}},
		{"replicate clamps left", Translate(-5, 0), ExtendReplicate, [3]int{0, 0, 0}},
		{"tile wraps", Translate(3, 0), ExtendTile, [3]int{0, 1, 2}},
		{"tile wraps negative", Translate(-3, 0), ExtendTile, [3]int{0, 1, 2}},
		{"mirror folds", Translate(2, 0), ExtendMirror, [3]int{2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Warp(src, tt.tf,
				WithExtend(tt.mode),
				WithInterpolation(InterpNearest))
			if err != nil {
				t.Fatalf("Warp() = %v", err)
			}
			for x := range 3 {
				r, g, b, _ := out.GetRGBA(x, 0)
				want := colors[tt.want[x]]
				if r != want[0] || g != want[1] || b != want[2] {
					t.Errorf("pixel %d = (%d,%d,%d), want column %d (%d,%d,%d)",
						x, r, g, b, tt.want[x], want[0], want[1], want[2])
				}
			}
		})
	}
}

func TestWarpBackgroundAverage(t *testing.T) {
	src, err := NewImage(2, 1, FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	if err := src.SetRGBA(0, 0, 100, 0, 0, 255); err != nil {
		t.Fatal(err)
	}
	if err := src.SetRGBA(1, 0, 200, 0, 0, 255); err != nil {
		t.Fatal(err)
	}

	out, err := Warp(src, Translate(100, 100), WithBackgroundAverage())
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	r, g, b, a := out.GetRGBA(0, 0)
	if r != 150 || g != 0 || b != 0 || a != 255 {
		t.Errorf("average fill = (%d,%d,%d,%d), want (150,0,0,255)", r, g, b, a)
	}
}

func TestWarpBackgroundAverageAfterFlatten(t *testing.T) {
	// A fully transparent pixel flattens to the background before the
	// average is taken, so it drags the mean toward the background.
	src, err := NewImage(2, 1, FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	if err := src.SetRGBA(0, 0, 200, 0, 0, 255); err != nil {
		t.Fatal(err)
	}
	if err := src.SetRGBA(1, 0, 99, 99, 99, 0); err != nil {
		t.Fatal(err)
	}

	out, err := Warp(src, Translate(100, 100), WithBackgroundAverage())
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	r, g, b, _ := out.GetRGBA(0, 0)
	if r != 100 || g != 0 || b != 0 {
		t.Errorf("average fill = (%d,%d,%d), want (100,0,0)", r, g, b)
	}
}

func TestWarpFlattensTranslucentSource(t *testing.T) {
	src, err := NewImage(1, 1, FormatRGBA8)
	if err != nil {
		t.Fatalf("NewImage() = %v", err)
	}
	if err := src.SetRGBA(0, 0, 255, 0, 0, 128); err != nil {
		t.Fatal(err)
	}

	out, err := Warp(src, IdentityTransform(), WithBackground(White))
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	r, g, b, a := out.GetRGBA(0, 0)
	// Straight-alpha over white: (255*128 + 255*127 + 127)/255 = 255,
	// (0*128 + 255*127 + 127)/255 = 127.
	if r != 255 || g != 127 || b != 127 || a != 255 {
		t.Errorf("flattened pixel = (%d,%d,%d,%d), want (255,127,127,255)", r, g, b, a)
	}
}

func TestWarpWithOutputSize(t *testing.T) {
	src := testImage(t, 4, 4)
	out, err := Warp(src, IdentityTransform(), WithOutputSize(9, 5))
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	if out.Width() != 9 || out.Height() != 5 {
		t.Errorf("output %dx%d, want 9x5", out.Width(), out.Height())
	}
}

func TestWarpFieldNil(t *testing.T) {
	src := testImage(t, 2, 2)
	if _, err := WarpField(src, nil); err == nil {
		t.Error("WarpField(nil field) succeeded")
	}
}

func TestWarpFieldDimensionMismatch(t *testing.T) {
	src := testImage(t, 4, 4)
	f, err := IdentityTransform().Field(4, 4)
	if err != nil {
		t.Fatalf("Field() = %v", err)
	}

	_, err = WarpField(src, f, WithOutputSize(5, 4))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("WarpField() error = %v, want ErrDimensionMismatch", err)
	}

	// Matching sizes pass.
	if _, err := WarpField(src, f, WithOutputSize(4, 4)); err != nil {
		t.Errorf("WarpField(matching size) = %v", err)
	}
}

func TestWarpFieldMatchesWarp(t *testing.T) {
	src := testImage(t, 16, 12)
	tf, err := SolveTransform(ImageQuad(16, 12), Quad{
		Pt(1, 1), Pt(14, 2), Pt(15, 10), Pt(0, 11),
	})
	if err != nil {
		t.Fatalf("SolveTransform() = %v", err)
	}

	direct, err := Warp(src, tf)
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}

	f, err := tf.Field(16, 12)
	if err != nil {
		t.Fatalf("Field() = %v", err)
	}
	viaField, err := WarpField(src, f)
	if err != nil {
		t.Fatalf("WarpField() = %v", err)
	}

	if !bytes.Equal(direct.Data(), viaField.Data()) {
		t.Error("Warp and WarpField disagree for the same transform")
	}
}

func TestWarpParallelMatchesSerial(t *testing.T) {
	src := testImage(t, 64, 48)
	tf, err := SolveTransform(ImageQuad(64, 48), Quad{
		Pt(5, 3), Pt(60, 6), Pt(58, 44), Pt(2, 40),
	})
	if err != nil {
		t.Fatalf("SolveTransform() = %v", err)
	}

	serial, err := Warp(src, tf, WithWorkers(1), WithExtend(ExtendMirror))
	if err != nil {
		t.Fatalf("serial Warp() = %v", err)
	}

	for _, workers := range []int{0, 2, 4, 16} {
		parallel, err := Warp(src, tf, WithWorkers(workers), WithExtend(ExtendMirror))
		if err != nil {
			t.Fatalf("parallel Warp(workers=%d) = %v", workers, err)
		}
		if !bytes.Equal(serial.Data(), parallel.Data()) {
			t.Errorf("workers=%d output differs from serial", workers)
		}
	}
}

func TestWarpContextCanceled(t *testing.T) {
	src := testImage(t, 32, 32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 0} {
		out, err := WarpContext(ctx, src, IdentityTransform(), WithWorkers(workers))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: WarpContext() error = %v, want context.Canceled", workers, err)
		}
		if out != nil {
			t.Errorf("workers=%d: canceled warp returned an image", workers)
		}
	}
}

func TestWarpUsesAccelerator(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	mock := &mockAccelerator{
		name:     "filling",
		canAccel: AccelWarp,
		warpFn: func(target GPUTarget, _ *ImageBuf, _ *Field, _ WarpParams) error {
			for i := 0; i < len(target.Data); i += 4 {
				target.Data[i] = 1
				target.Data[i+1] = 2
				target.Data[i+2] = 3
				target.Data[i+3] = 255
			}
			return nil
		},
	}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("RegisterAccelerator() = %v", err)
	}

	src := testImage(t, 4, 4)
	out, err := Warp(src, IdentityTransform())
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	if mock.calls() != 1 {
		t.Fatalf("accelerator called %d times, want 1", mock.calls())
	}
	r, g, b, _ := out.GetRGBA(2, 2)
	if r != 1 || g != 2 || b != 3 {
		t.Errorf("accelerated output = (%d,%d,%d), want (1,2,3)", r, g, b)
	}
}

func TestWarpAcceleratorFallback(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	src := testImage(t, 8, 8)
	plain, err := Warp(src, IdentityTransform())
	if err != nil {
		t.Fatalf("Warp() = %v", err)
	}

	for _, tt := range []struct {
		name string
		err  error
	}{
		{"declines", ErrFallbackToCPU},
		{"fails", errors.New("device lost")},
	} {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAccelerator{
				name:     "declining",
				canAccel: AccelWarp,
				warpFn: func(GPUTarget, *ImageBuf, *Field, WarpParams) error {
					return tt.err
				},
			}
			if err := RegisterAccelerator(mock); err != nil {
				t.Fatalf("RegisterAccelerator() = %v", err)
			}

			out, err := Warp(src, IdentityTransform())
			if err != nil {
				t.Fatalf("Warp() = %v", err)
			}
			if mock.calls() != 1 {
				t.Fatalf("accelerator called %d times, want 1", mock.calls())
			}
			if !bytes.Equal(out.Data(), plain.Data()) {
				t.Error("CPU fallback output differs from unaccelerated output")
			}
		})
	}
}

func TestWarpAcceleratorParams(t *testing.T) {
	resetAccelerator()
	t.Cleanup(resetAccelerator)

	var got WarpParams
	mock := &mockAccelerator{
		name:     "capturing",
		canAccel: AccelWarp,
		warpFn: func(_ GPUTarget, _ *ImageBuf, _ *Field, params WarpParams) error {
			got = params
			return nil
		},
	}
	if err := RegisterAccelerator(mock); err != nil {
		t.Fatalf("RegisterAccelerator() = %v", err)
	}

	src, err := NewImage(2, 2, FormatRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	src.Fill(9, 9, 9, 255)

	// The engine resolves the average before handing off, so the
	// accelerator sees a plain background fill.
	if _, err := Warp(src, IdentityTransform(), WithBackgroundAverage()); err != nil {
		t.Fatalf("Warp() = %v", err)
	}
	if got.Background != [4]uint8{9, 9, 9, 255} {
		t.Errorf("params.Background = %v, want pre-resolved average (9,9,9,255)", got.Background)
	}
	if got.Extend != ExtendBackgroundAverage {
		t.Errorf("params.Extend = %v, want ExtendBackgroundAverage", got.Extend)
	}
}

func BenchmarkWarpBilinear(b *testing.B) {
	src := testImage(b, 640, 480)
	tf, err := SolveTransform(ImageQuad(640, 480), Quad{
		Pt(40, 30), Pt(600, 50), Pt(620, 460), Pt(20, 440),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Warp(src, tf, WithWorkers(1)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWarpParallel(b *testing.B) {
	src := testImage(b, 640, 480)
	tf, err := SolveTransform(ImageQuad(640, 480), Quad{
		Pt(40, 30), Pt(600, 50), Pt(620, 460), Pt(20, 440),
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := Warp(src, tf); err != nil {
			b.Fatal(err)
		}
	}
}
