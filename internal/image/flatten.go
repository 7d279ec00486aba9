package image

import "fmt"

// Flatten composites the image over an opaque background color and
// returns the result as FormatRGBA8. Translucent pixels blend against
// (bgR, bgG, bgB) and the output alpha channel is uniformly 255, so
// samplers never interpolate alpha. Gray16 cannot be flattened; convert
// it before calling.
//
// The result comes from the shared buffer pool; callers done with it may
// hand it back with PutToDefault.
func Flatten(img *ImageBuf, bgR, bgG, bgB uint8) (*ImageBuf, error) {
	if img == nil || img.IsEmpty() {
		return nil, fmt.Errorf("flatten: %w", ErrInvalidDimensions)
	}
	if !SamplerSupports(img.Format()) {
		return nil, fmt.Errorf("flatten: %w: %s", ErrInvalidFormat, img.Format())
	}

	w, h := img.Bounds()
	out := GetFromDefault(w, h, FormatRGBA8)
	if out == nil {
		return nil, fmt.Errorf("flatten: %w", ErrInvalidDimensions)
	}

	premul := img.Format().IsPremultiplied()
	for y := range h {
		row := out.RowBytes(y)
		for x := range w {
			r, g, b, a := img.GetRGBA(x, y)
			if a != 255 {
				if premul {
					r, g, b = premulOver(r, g, b, a, bgR, bgG, bgB)
				} else {
					r, g, b = straightOver(r, g, b, a, bgR, bgG, bgB)
				}
			}
			i := x * 4
			row[i] = r
			row[i+1] = g
			row[i+2] = b
			row[i+3] = 255
		}
	}
	return out, nil
}

// straightOver blends a straight-alpha pixel over an opaque background:
// out = src*a + bg*(1-a), with rounding.
func straightOver(r, g, b, a, bgR, bgG, bgB uint8) (uint8, uint8, uint8) {
	ia := 255 - int(a)
	return uint8((int(r)*int(a) + int(bgR)*ia + 127) / 255),
		uint8((int(g)*int(a) + int(bgG)*ia + 127) / 255),
		uint8((int(b)*int(a) + int(bgB)*ia + 127) / 255)
}

// premulOver blends a premultiplied pixel over an opaque background:
// out = src + bg*(1-a), with rounding. Clamps so malformed premultiplied
// data (channel > alpha) cannot wrap.
func premulOver(r, g, b, a, bgR, bgG, bgB uint8) (uint8, uint8, uint8) {
	ia := 255 - int(a)
	return uint8(clamp(int(r)+(int(bgR)*ia+127)/255, 0, 255)),
		uint8(clamp(int(g)+(int(bgG)*ia+127)/255, 0, 255)),
		uint8(clamp(int(b)+(int(bgB)*ia+127)/255, 0, 255))
}
