// Package image provides the pixel buffer for gogpu/warp.
//
// This package implements the in-memory image representation the warp
// engine samples from and writes to: a contiguous byte buffer with
// explicit stride and pixel format, plus the resampling, flattening,
// and I/O helpers built on top of it.
package image

import "errors"

// Errors reported by buffer construction and pixel access.
var (
	// ErrInvalidDimensions rejects non-positive width or height.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat rejects an unknown pixel format.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride rejects a stride smaller than one row of pixels.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall rejects a backing slice shorter than stride*height.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds reports pixel coordinates outside the image.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a pixel buffer backed by a contiguous byte slice with an
// explicit row stride.
//
// The warp engine treats source buffers as immutable and writes results
// into separately allocated outputs, so an ImageBuf may be sampled from
// any number of goroutines at once. Writers (Set*, Clear, Fill) need
// external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf allocates a zeroed buffer with the given dimensions and
// format. The stride is the tight row size for the format.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw wraps existing pixel data without copying. The data must stay
// valid for the life of the buffer and hold at least stride*height
// bytes, with stride no smaller than format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}
	size := stride * height
	if len(data) < size {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:size],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone returns a deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &ImageBuf{
		data:   data,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int { return b.height }

// Stride returns the bytes per row, including any padding.
func (b *ImageBuf) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *ImageBuf) Format() Format { return b.format }

// Bounds returns the dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) { return b.width, b.height }

// Data returns the backing pixel slice. Writes through it alter the
// image.
func (b *ImageBuf) Data() []byte { return b.data }

// ByteSize returns the size of the backing slice in bytes.
func (b *ImageBuf) ByteSize() int { return len(b.data) }

// IsEmpty reports whether the image has zero area.
func (b *ImageBuf) IsEmpty() bool { return b.width == 0 || b.height == 0 }

// RowBytes returns the pixel bytes of row y, excluding stride padding,
// or nil when y is out of range.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 when the
// coordinates are out of range.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns the raw bytes of pixel (x, y), or nil when the
// coordinates are out of range.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	return b.data[offset : offset+b.format.BytesPerPixel()]
}

// luminance converts RGB to gray with the BT.601 integer weights.
func luminance(r, g, bl uint8) byte {
	return byte((int(r)*299 + int(g)*587 + int(bl)*114) / 1000)
}

// GetRGBA returns the pixel at (x, y) as 8-bit RGBA. Grayscale formats
// expand to r=g=b, formats without alpha report a=255, and out-of-range
// coordinates return (0,0,0,0). Premultiplied formats return their
// channels unchanged.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	pixel := b.PixelBytes(x, y)
	if pixel == nil {
		return 0, 0, 0, 0
	}

	switch b.format {
	case FormatGray8:
		v := pixel[0]
		return v, v, v, 255
	case FormatGray16:
		v := pixel[1] // high byte
		return v, v, v, 255
	case FormatRGB8:
		return pixel[0], pixel[1], pixel[2], 255
	case FormatRGBA8, FormatRGBAPremul:
		return pixel[0], pixel[1], pixel[2], pixel[3]
	case FormatBGRA8, FormatBGRAPremul:
		return pixel[2], pixel[1], pixel[0], pixel[3]
	default:
		return 0, 0, 0, 0
	}
}

// SetRGBA stores an 8-bit RGBA color at (x, y), converting to the
// buffer's format. Grayscale formats store the luminance and drop
// alpha. Returns ErrOutOfBounds for coordinates outside the image.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}

	switch b.format {
	case FormatGray8:
		b.data[offset] = luminance(r, g, bl)
	case FormatGray16:
		v := luminance(r, g, bl)
		b.data[offset] = v
		b.data[offset+1] = v
	case FormatRGB8:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
	case FormatRGBA8, FormatRGBAPremul:
		b.data[offset] = r
		b.data[offset+1] = g
		b.data[offset+2] = bl
		b.data[offset+3] = a
	case FormatBGRA8, FormatBGRAPremul:
		b.data[offset] = bl
		b.data[offset+1] = g
		b.data[offset+2] = r
		b.data[offset+3] = a
	}

	return nil
}

// Clear zeroes every pixel.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given color. The first row is rendered
// once and then replicated, so filling is a series of copies rather
// than a per-pixel conversion.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	if b.IsEmpty() {
		return
	}
	_ = b.SetRGBA(0, 0, r, g, bl, a)

	row := b.RowBytes(0)
	bpp := b.format.BytesPerPixel()
	for filled := bpp; filled < len(row); filled *= 2 {
		copy(row[filled:], row[:filled])
	}
	for y := 1; y < b.height; y++ {
		copy(b.RowBytes(y), row)
	}
}

// SubImage returns a view of a rectangular region sharing the backing
// data, so writes to either image show in the other. Returns nil when
// the region does not fit inside the image.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	offset := y*b.stride + x*b.format.BytesPerPixel()
	end := (y+height-1)*b.stride + (x+width)*b.format.BytesPerPixel()
	return &ImageBuf{
		data:   b.data[offset:end],
		width:  width,
		height: height,
		stride: b.stride,
		format: b.format,
	}
}
