package gpu

import "math"

// kernelParams mirrors the Params uniform in shaders/warp.wgsl.
// Field order and size must match the WGSL struct exactly.
type kernelParams struct {
	OutWidth   uint32
	OutHeight  uint32
	SrcWidth   uint32
	SrcHeight  uint32
	ExtendMode uint32
	InterpMode uint32
	Background uint32 // packed RGBA, r in the low byte
	Pad0       uint32
}

// Extension mode encodings shared with shaders/warp.wgsl.
// Must match the numeric values of warp.ExtendMode.
const (
	kernelExtendBackground uint32 = iota
	kernelExtendReplicate
	kernelExtendMirror
	kernelExtendTile
	kernelExtendBackgroundAverage
)

// Interpolation encodings shared with shaders/warp.wgsl.
const (
	kernelInterpNearest uint32 = iota
	kernelInterpBilinear
)

// mirrorWarp executes the warp.wgsl algorithm on the CPU in float32,
// one pixel at a time. GPU parity tests compare dispatch output against
// this implementation; it is not a fallback path.
func mirrorWarp(dst []uint32, field []float32, src []uint32, p kernelParams) {
	for y := uint32(0); y < p.OutHeight; y++ {
		for x := uint32(0); x < p.OutWidth; x++ {
			idx := y*p.OutWidth + x
			sx := field[idx*2]
			sy := field[idx*2+1]

			var c [4]float32
			switch p.ExtendMode {
			case kernelExtendReplicate, kernelExtendMirror, kernelExtendTile:
				sx = spread32(sx, p.SrcWidth, p.ExtendMode)
				sy = spread32(sy, p.SrcHeight, p.ExtendMode)
				c = sampleAt32(src, p, sx, sy)
			default:
				if inBounds32(sx, sy, p.SrcWidth, p.SrcHeight) {
					c = sampleAt32(src, p, sx, sy)
				} else {
					c = unpack32(p.Background)
				}
			}

			r := uint32(clamp32(c[0], 0, 255))
			g := uint32(clamp32(c[1], 0, 255))
			b := uint32(clamp32(c[2], 0, 255))
			dst[idx] = r | g<<8 | b<<16 | 255<<24
		}
	}
}

func unpack32(p uint32) [4]float32 {
	return [4]float32{
		float32(p & 0xff),
		float32((p >> 8) & 0xff),
		float32((p >> 16) & 0xff),
		float32((p >> 24) & 0xff),
	}
}

// texel32 fetches a source pixel, clamping the index to the image.
func texel32(src []uint32, p kernelParams, x, y int32) [4]float32 {
	cx := clampI32(x, 0, int32(p.SrcWidth)-1)
	cy := clampI32(y, 0, int32(p.SrcHeight)-1)
	return unpack32(src[uint32(cy)*p.SrcWidth+uint32(cx)])
}

func sampleAt32(src []uint32, p kernelParams, x, y float32) [4]float32 {
	if p.InterpMode == kernelInterpNearest {
		return texel32(src, p, int32(floor32(x+0.5)), int32(floor32(y+0.5)))
	}
	fx := floor32(x)
	fy := floor32(y)
	x0 := int32(fx)
	y0 := int32(fy)
	tx := x - fx
	ty := y - fy
	top := mix4(texel32(src, p, x0, y0), texel32(src, p, x0+1, y0), tx)
	bot := mix4(texel32(src, p, x0, y0+1), texel32(src, p, x0+1, y0+1), tx)
	return mix4(top, bot, ty)
}

// spread32 remaps a coordinate into the sampling domain of one axis.
func spread32(t float32, size, mode uint32) float32 {
	edge := float32(size - 1)
	if mode == kernelExtendReplicate {
		return clamp32(t, 0, edge)
	}
	if mode == kernelExtendMirror {
		if size <= 1 {
			return 0
		}
		period := 2 * edge
		p := t - floor32(t/period)*period
		if p > edge {
			p = period - p
		}
		return p
	}
	// kernelExtendTile
	fs := float32(size)
	p := t - floor32(t/fs)*fs
	if p >= fs {
		p = 0
	}
	return p
}

func inBounds32(x, y float32, w, h uint32) bool {
	return x >= 0 && x <= float32(w-1) && y >= 0 && y <= float32(h-1)
}

func mix4(a, b [4]float32, t float32) [4]float32 {
	return [4]float32{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
