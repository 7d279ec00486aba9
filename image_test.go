package warp

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  ImageFormat
		wantErr error
	}{
		{"rgba", 64, 48, FormatRGBA8, nil},
		{"gray", 1, 1, FormatGray8, nil},
		{"zero width", 0, 10, FormatRGBA8, ErrInvalidSize},
		{"zero height", 10, 0, FormatRGBA8, ErrInvalidSize},
		{"negative", -3, 4, FormatRGBA8, ErrInvalidSize},
		{"unknown format", 10, 10, ImageFormat(99), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.width, tt.height, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewImage() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewImage() failed: %v", err)
			}
			if img.Width() != tt.width || img.Height() != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", img.Width(), img.Height(), tt.width, tt.height)
			}
			if img.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", img.Format(), tt.format)
			}
		})
	}
}

func TestFromImage(t *testing.T) {
	std := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	std.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	img := FromImage(std)
	if img.Width() != 4 || img.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, want 4x3", img.Width(), img.Height())
	}
	if img.Format() != FormatRGBA8 {
		t.Errorf("Format() = %v, want FormatRGBA8", img.Format())
	}
	if r, g, b, a := img.GetRGBA(2, 1); r != 10 || g != 20 || b != 30 || a != 255 {
		t.Errorf("pixel = (%d,%d,%d,%d), want (10,20,30,255)", r, g, b, a)
	}
}

func TestFromImageUsableAsWarpSource(t *testing.T) {
	std := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			std.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), A: 255})
		}
	}

	out, err := Warp(FromImage(std), IdentityTransform(), WithOutputSize(8, 8))
	if err != nil {
		t.Fatalf("Warp failed: %v", err)
	}
	if r, _, _, _ := out.GetRGBA(4, 0); r != 120 {
		t.Errorf("warped pixel r = %d, want 120", r)
	}
}

func TestLoadImageMissing(t *testing.T) {
	if _, err := LoadImage("/nonexistent/input.png"); err == nil {
		t.Error("LoadImage succeeded for a missing file")
	}
	if _, err := LoadWebP("/nonexistent/input.webp"); err == nil {
		t.Error("LoadWebP succeeded for a missing file")
	}
}
