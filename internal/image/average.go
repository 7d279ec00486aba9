package image

// AverageRGB returns the mean color of the image, rounded to the nearest
// 8-bit value per channel. Alpha does not weight the mean; call Flatten
// first when translucency should count toward the background. An empty
// image averages to black.
func AverageRGB(img *ImageBuf) (r, g, b uint8) {
	if img == nil || img.IsEmpty() {
		return 0, 0, 0
	}

	w, h := img.Bounds()
	var sumR, sumG, sumB uint64
	for y := range h {
		for x := range w {
			pr, pg, pb, _ := img.GetRGBA(x, y)
			sumR += uint64(pr)
			sumG += uint64(pg)
			sumB += uint64(pb)
		}
	}
	n := uint64(w) * uint64(h)
	return uint8((sumR + n/2) / n),
		uint8((sumG + n/2) / n),
		uint8((sumB + n/2) / n)
}
