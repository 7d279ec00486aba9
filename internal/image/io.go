package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrEmptyData is returned when decoding from an empty byte slice.
var ErrEmptyData = errors.New("image: empty data")

// loadFile opens path and decodes it with the given decoder.
func loadFile(path string, decode func(io.Reader) (*ImageBuf, error)) (*ImageBuf, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("image: open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return decode(f)
}

// LoadPNG loads a PNG image from the given file path.
func LoadPNG(path string) (*ImageBuf, error) { return loadFile(path, DecodePNG) }

// LoadJPEG loads a JPEG image from the given file path.
func LoadJPEG(path string) (*ImageBuf, error) { return loadFile(path, DecodeJPEG) }

// LoadWebP loads a WebP image from the given file path.
func LoadWebP(path string) (*ImageBuf, error) { return loadFile(path, DecodeWebP) }

// LoadBMP loads a BMP image from the given file path.
func LoadBMP(path string) (*ImageBuf, error) { return loadFile(path, DecodeBMP) }

// LoadTIFF loads a TIFF image from the given file path.
func LoadTIFF(path string) (*ImageBuf, error) { return loadFile(path, DecodeTIFF) }

// LoadImage loads an image from the given file path, picking the decoder
// by extension and falling back to content sniffing. Supported formats:
// PNG, JPEG, WebP, BMP, TIFF.
func LoadImage(path string) (*ImageBuf, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return LoadPNG(path)
	case ".jpg", ".jpeg":
		return LoadJPEG(path)
	case ".webp":
		return LoadWebP(path)
	case ".bmp":
		return LoadBMP(path)
	case ".tif", ".tiff":
		return LoadTIFF(path)
	default:
		return loadFile(path, Decode)
	}
}

// LoadImageFromBytes decodes an image from a byte slice, auto-detecting
// the format.
func LoadImageFromBytes(data []byte) (*ImageBuf, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the reader, auto-detecting the format
// from the registered decoders.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodePNG decodes a PNG image from the given reader.
func DecodePNG(r io.Reader) (*ImageBuf, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode PNG: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeJPEG decodes a JPEG image from the given reader.
func DecodeJPEG(r io.Reader) (*ImageBuf, error) {
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode JPEG: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeWebP decodes a WebP image from the given reader.
func DecodeWebP(r io.Reader) (*ImageBuf, error) {
	img, err := webp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode WebP: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeBMP decodes a BMP image from the given reader.
func DecodeBMP(r io.Reader) (*ImageBuf, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode BMP: %w", err)
	}
	return FromStdImage(img), nil
}

// DecodeTIFF decodes a TIFF image from the given reader.
func DecodeTIFF(r io.Reader) (*ImageBuf, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode TIFF: %w", err)
	}
	return FromStdImage(img), nil
}

// saveFile creates path and streams the encoded image into it.
func saveFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// SavePNG saves the image as a PNG file.
func (b *ImageBuf) SavePNG(path string) error {
	return saveFile(path, b.EncodePNG)
}

// SaveJPEG saves the image as a JPEG file with the given quality (1-100).
func (b *ImageBuf) SaveJPEG(path string, quality int) error {
	return saveFile(path, func(w io.Writer) error { return b.EncodeJPEG(w, quality) })
}

// SaveBMP saves the image as a BMP file.
func (b *ImageBuf) SaveBMP(path string) error {
	return saveFile(path, b.EncodeBMP)
}

// SaveTIFF saves the image as a TIFF file with deflate compression.
func (b *ImageBuf) SaveTIFF(path string) error {
	return saveFile(path, b.EncodeTIFF)
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeJPEG encodes the image as JPEG to the given writer. Quality is
// clamped to 1-100.
func (b *ImageBuf) EncodeJPEG(w io.Writer, quality int) error {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	if err := jpeg.Encode(w, b.ToStdImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// EncodeBMP encodes the image as BMP to the given writer.
func (b *ImageBuf) EncodeBMP(w io.Writer) error {
	if err := bmp.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode BMP: %w", err)
	}
	return nil
}

// EncodeTIFF encodes the image as TIFF to the given writer using deflate
// compression.
func (b *ImageBuf) EncodeTIFF(w io.Writer) error {
	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(w, b.ToStdImage(), opts); err != nil {
		return fmt.Errorf("image: encode TIFF: %w", err)
	}
	return nil
}

// FromStdImage converts a standard library image to an RGBA8 buffer.
// RGBA and NRGBA inputs copy row by row; everything else converts pixel
// by pixel. A zero-area input yields an empty buffer.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return &ImageBuf{format: FormatRGBA8}
	}

	buf, _ := NewImageBuf(width, height, FormatRGBA8)

	switch src := img.(type) {
	case *image.RGBA:
		copyPix(buf, src.Pix, src.Stride, width, height)
	case *image.NRGBA:
		copyPix(buf, src.Pix, src.Stride, width, height)
	default:
		for y := range height {
			for x := range width {
				c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b, a := c.RGBA()
				// RGBA() yields 16-bit channels.
				_ = buf.SetRGBA(x, y, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
			}
		}
	}
	return buf
}

// copyPix copies 4-byte pixel rows from a std image Pix slice.
func copyPix(buf *ImageBuf, pix []byte, stride, width, height int) {
	if stride == buf.Stride() {
		copy(buf.Data(), pix)
		return
	}
	for y := range height {
		start := y * stride
		copy(buf.RowBytes(y), pix[start:start+width*4])
	}
}

// ToStdImage converts the buffer to a standard library image. Straight
// alpha formats map to *image.NRGBA, premultiplied ones to *image.RGBA,
// and grayscale to *image.Gray or *image.Gray16.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatGray16:
		gray16 := image.NewGray16(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dst := y * gray16.Stride
			for x := range b.width {
				// image.Gray16 stores big-endian samples.
				gray16.Pix[dst+x*2] = row[x*2+1]
				gray16.Pix[dst+x*2+1] = row[x*2]
			}
		}
		return gray16

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		if b.stride == nrgba.Stride {
			copy(nrgba.Pix, b.data)
		} else {
			for y := range b.height {
				copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
			}
		}
		return nrgba

	case FormatRGBAPremul:
		rgba := image.NewRGBA(rect)
		if b.stride == rgba.Stride {
			copy(rgba.Pix, b.data)
		} else {
			for y := range b.height {
				copy(rgba.Pix[y*rgba.Stride:], b.RowBytes(y))
			}
		}
		return rgba

	case FormatBGRA8:
		nrgba := image.NewNRGBA(rect)
		swapBGRA(nrgba.Pix, nrgba.Stride, b)
		return nrgba

	case FormatBGRAPremul:
		rgba := image.NewRGBA(rect)
		swapBGRA(rgba.Pix, rgba.Stride, b)
		return rgba

	case FormatRGB8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dst := y * nrgba.Stride
			for x := range b.width {
				s := x * 3
				d := dst + x*4
				nrgba.Pix[d] = row[s]
				nrgba.Pix[d+1] = row[s+1]
				nrgba.Pix[d+2] = row[s+2]
				nrgba.Pix[d+3] = 255
			}
		}
		return nrgba

	default:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			for x := range b.width {
				r, g, bl, a := b.GetRGBA(x, y)
				off := y*nrgba.Stride + x*4
				nrgba.Pix[off] = r
				nrgba.Pix[off+1] = g
				nrgba.Pix[off+2] = bl
				nrgba.Pix[off+3] = a
			}
		}
		return nrgba
	}
}

// swapBGRA copies BGRA rows into an RGBA-ordered Pix slice.
func swapBGRA(pix []byte, stride int, b *ImageBuf) {
	for y := range b.height {
		row := b.RowBytes(y)
		dst := y * stride
		for x := range b.width {
			s := x * 4
			d := dst + x*4
			pix[d] = row[s+2]
			pix[d+1] = row[s+1]
			pix[d+2] = row[s]
			pix[d+3] = row[s+3]
		}
	}
}
