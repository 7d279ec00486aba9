package image

import "testing"

func TestFormatTraits(t *testing.T) {
	tests := []struct {
		format Format
		bpp    int
		alpha  bool
		premul bool
		gray   bool
	}{
		{FormatGray8, 1, false, false, true},
		{FormatGray16, 2, false, false, true},
		{FormatRGB8, 3, false, false, false},
		{FormatRGBA8, 4, true, false, false},
		{FormatRGBAPremul, 4, true, true, false},
		{FormatBGRA8, 4, true, false, false},
		{FormatBGRAPremul, 4, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.BytesPerPixel(); got != tt.bpp {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bpp)
			}
			if got := tt.format.HasAlpha(); got != tt.alpha {
				t.Errorf("HasAlpha() = %v, want %v", got, tt.alpha)
			}
			if got := tt.format.IsPremultiplied(); got != tt.premul {
				t.Errorf("IsPremultiplied() = %v, want %v", got, tt.premul)
			}
			if got := tt.format.IsGrayscale(); got != tt.gray {
				t.Errorf("IsGrayscale() = %v, want %v", got, tt.gray)
			}
			if !tt.format.IsValid() {
				t.Error("IsValid() = false for a defined format")
			}
		})
	}
}

func TestFormatUnknown(t *testing.T) {
	f := Format(99)
	if f.IsValid() {
		t.Error("IsValid() = true for format 99")
	}
	if f.BytesPerPixel() != 0 {
		t.Errorf("BytesPerPixel() = %d, want 0", f.BytesPerPixel())
	}
	if f.HasAlpha() || f.IsPremultiplied() || f.IsGrayscale() {
		t.Error("unknown format reports traits")
	}
	if f.String() != "Unknown" {
		t.Errorf("String() = %q, want %q", f.String(), "Unknown")
	}
}

func TestFormatRowBytes(t *testing.T) {
	tests := []struct {
		format Format
		width  int
		want   int
	}{
		{FormatGray8, 100, 100},
		{FormatGray16, 100, 200},
		{FormatRGB8, 100, 300},
		{FormatRGBA8, 100, 400},
		{FormatRGBA8, 0, 0},
	}
	for _, tt := range tests {
		if got := tt.format.RowBytes(tt.width); got != tt.want {
			t.Errorf("%v.RowBytes(%d) = %d, want %d", tt.format, tt.width, got, tt.want)
		}
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatGray8, "Gray8"},
		{FormatGray16, "Gray16"},
		{FormatRGB8, "RGB8"},
		{FormatRGBA8, "RGBA8"},
		{FormatRGBAPremul, "RGBAPremul"},
		{FormatBGRA8, "BGRA8"},
		{FormatBGRAPremul, "BGRAPremul"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSamplerSupports(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatGray8, true},
		{FormatGray16, false},
		{FormatRGB8, true},
		{FormatRGBA8, true},
		{FormatRGBAPremul, true},
		{FormatBGRA8, true},
		{FormatBGRAPremul, true},
		{Format(99), false},
	}
	for _, tt := range tests {
		if got := SamplerSupports(tt.format); got != tt.want {
			t.Errorf("SamplerSupports(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}
