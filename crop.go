package warp

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	intImage "github.com/gogpu/warp/internal/image"
)

// CropToQuad crops src to the axis-aligned bounding rectangle of the
// quad, intersected with the image bounds. Returns ErrInvalidSize when
// the quad lies entirely outside the image.
func CropToQuad(src *ImageBuf, quad Quad) (*ImageBuf, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	minPt, maxPt := quad.Bounds()
	rect := image.Rect(
		int(math.Floor(minPt.X)),
		int(math.Floor(minPt.Y)),
		int(math.Ceil(maxPt.X))+1,
		int(math.Ceil(maxPt.Y))+1,
	)
	w, h := src.Bounds()
	rect = rect.Intersect(image.Rect(0, 0, w, h))
	if rect.Empty() {
		return nil, fmt.Errorf("%w: quad lies outside the image", ErrInvalidSize)
	}
	cropped := imaging.Crop(src.ToStdImage(), rect)
	return intImage.FromStdImage(cropped), nil
}

// StraightenCrop straightens the quad and returns only the rectified
// region, cropped to the destination rectangle.
func StraightenCrop(src *ImageBuf, quad Quad, opts ...Option) (*ImageBuf, error) {
	dst, out, err := Straighten(src, quad, opts...)
	if err != nil {
		return nil, err
	}
	return CropToQuad(out, dst)
}
