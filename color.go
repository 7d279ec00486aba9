package warp

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Color converts RGBA to the standard color.Color interface.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// FromColor converts a standard color.Color to RGBA.
func FromColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1.0}
}

// RGBA2 creates a color from RGBA components.
func RGBA2(r, g, b, a float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: a}
}

// Hex parses an opaque color from a hex string in "#RGB" or "#RRGGBB"
// form. The leading '#' is optional.
func Hex(s string) (RGBA, error) {
	h := s
	if h == "" || h[0] != '#' {
		h = "#" + h
	}
	// colorful.Hex scans greedily and would accept odd lengths like "#12345".
	if len(h) != 4 && len(h) != 7 {
		return RGBA{}, fmt.Errorf("warp: malformed hex color %q", s)
	}
	c, err := colorful.Hex(h)
	if err != nil {
		return RGBA{}, fmt.Errorf("warp: %w", err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// MustHex is like Hex but panics on a malformed string. Use it for
// compile-time constants only.
func MustHex(s string) RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL creates a color from HSL values.
// h is hue [0, 360), s is saturation [0, 1], l is lightness [0, 1].
func HSL(h, s, l float64) RGBA {
	c := colorful.Hsl(h, s, l).Clamped()
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

// Distance returns the perceptual distance to another color in CIE-L*a*b*
// space. Alpha is ignored.
func (c RGBA) Distance(other RGBA) float64 {
	return c.colorful().DistanceLab(other.colorful())
}

// colorful bridges to the go-colorful color space math.
func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Lerp performs linear interpolation between two colors.
func (c RGBA) Lerp(other RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// rgb8 returns the color quantized to 8-bit channels, alpha dropped.
func (c RGBA) rgb8() (r, g, b uint8) {
	return uint8(clamp255(c.R * 255)),
		uint8(clamp255(c.G * 255)),
		uint8(clamp255(c.B * 255))
}

// clamp255 restricts a value to [0, 255] range.
func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	Black   = RGB(0, 0, 0)
	White   = RGB(1, 1, 1)
	Red     = RGB(1, 0, 0)
	Green   = RGB(0, 1, 0)
	Blue    = RGB(0, 0, 1)
	Yellow  = RGB(1, 1, 0)
	Cyan    = RGB(0, 1, 1)
	Magenta = RGB(1, 0, 1)
)
