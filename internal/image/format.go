package image

// Format identifies how pixel channels are laid out in memory.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale, one byte per pixel.
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit grayscale, two bytes per pixel.
	FormatGray16

	// FormatRGB8 is 24-bit RGB without alpha.
	FormatRGB8

	// FormatRGBA8 is 32-bit straight-alpha RGBA. The warp engine reads
	// any supported format but always produces this one.
	FormatRGBA8

	// FormatRGBAPremul is 32-bit RGBA with premultiplied alpha.
	FormatRGBAPremul

	// FormatBGRA8 is 32-bit straight-alpha BGRA, common on Windows
	// surfaces and some GPU swapchains.
	FormatBGRA8

	// FormatBGRAPremul is 32-bit BGRA with premultiplied alpha.
	FormatBGRAPremul

	formatCount
)

// formatTraits is the memory layout the samplers and flattener care
// about.
type formatTraits struct {
	bpp    int
	alpha  bool
	premul bool
	gray   bool
}

var traits = [formatCount]formatTraits{
	FormatGray8:      {bpp: 1, gray: true},
	FormatGray16:     {bpp: 2, gray: true},
	FormatRGB8:       {bpp: 3},
	FormatRGBA8:      {bpp: 4, alpha: true},
	FormatRGBAPremul: {bpp: 4, alpha: true, premul: true},
	FormatBGRA8:      {bpp: 4, alpha: true},
	FormatBGRAPremul: {bpp: 4, alpha: true, premul: true},
}

func (f Format) traits() formatTraits {
	if f >= formatCount {
		return formatTraits{}
	}
	return traits[f]
}

// IsValid reports whether f is a defined format.
func (f Format) IsValid() bool { return f < formatCount }

// BytesPerPixel returns the pixel size in bytes, or 0 for an unknown
// format.
func (f Format) BytesPerPixel() int { return f.traits().bpp }

// HasAlpha reports whether the format carries an alpha channel.
func (f Format) HasAlpha() bool { return f.traits().alpha }

// IsPremultiplied reports whether color channels are premultiplied by
// alpha.
func (f Format) IsPremultiplied() bool { return f.traits().premul }

// IsGrayscale reports whether the format stores a single gray channel.
func (f Format) IsGrayscale() bool { return f.traits().gray }

// RowBytes returns the tight size in bytes of one row of the given
// width.
func (f Format) RowBytes(width int) int { return width * f.BytesPerPixel() }

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatGray16:
		return "Gray16"
	case FormatRGB8:
		return "RGB8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBAPremul:
		return "RGBAPremul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatBGRAPremul:
		return "BGRAPremul"
	default:
		return "Unknown"
	}
}

// SamplerSupports reports whether the resampling pipeline accepts this
// format as a source. Gray16 is excluded: flattening reads 8 bits per
// channel, and rejecting 16-bit sources beats silently truncating them.
func SamplerSupports(f Format) bool {
	return f.IsValid() && f != FormatGray16
}
