package warp

// ExtendMode selects how the warp engine produces pixels whose source
// coordinate falls outside the source image, including field positions
// holding the off-plane sentinel.
type ExtendMode int

const (
	// ExtendBackground fills out-of-bounds pixels with a solid color,
	// black unless overridden via WithBackground. This is the default.
	ExtendBackground ExtendMode = iota

	// ExtendReplicate clamps the source coordinate to the nearest edge
	// pixel, smearing the border outward.
	ExtendReplicate

	// ExtendMirror reflects the source coordinate across the image
	// edges without repeating the edge row or column.
	ExtendMirror

	// ExtendTile wraps the source coordinate, repeating the image
	// periodically in both directions.
	ExtendTile

	// ExtendBackgroundAverage fills out-of-bounds pixels with the mean
	// color of the source image, computed once per warp call.
	ExtendBackgroundAverage
)

// String returns the name of the extension mode.
func (m ExtendMode) String() string {
	switch m {
	case ExtendBackground:
		return "background"
	case ExtendReplicate:
		return "replicate"
	case ExtendMirror:
		return "mirror"
	case ExtendTile:
		return "tile"
	case ExtendBackgroundAverage:
		return "background-average"
	default:
		return "unknown"
	}
}

// IsValid reports whether m is a defined extension mode.
func (m ExtendMode) IsValid() bool {
	return m >= ExtendBackground && m <= ExtendBackgroundAverage
}
