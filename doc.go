// Package warp provides geometric image warping and perspective correction.
//
// # Overview
//
// warp is a pure Go perspective-warping engine in the GoGPU ecosystem.
// It solves planar projective transforms (homographies) from four point
// correspondences, remaps destination pixels through the transform into
// source coordinates, and resamples the source image with configurable
// interpolation and out-of-bounds extension policies. A convenience layer
// straightens tilted quadrilateral regions, the bread-and-butter operation
// behind document scanning and perspective-corrected crops.
//
// # Quick Start
//
//	import "github.com/gogpu/warp"
//
//	img, _ := warp.LoadImage("receipt.png")
//
//	// The tilted region to square up: top-left, top-right,
//	// bottom-right, bottom-left.
//	quad := warp.Quad{
//	    warp.Pt(32, 18), warp.Pt(410, 44),
//	    warp.Pt(398, 530), warp.Pt(21, 505),
//	}
//
//	dstQuad, out, err := warp.Straighten(img, quad)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = dstQuad // axis-aligned region for cropping
//	_ = out.SavePNG("straightened.png")
//
// For full control, solve a transform between arbitrary quadrilaterals and
// warp through it directly:
//
//	t, err := warp.SolveTransform(srcQuad, dstQuad)
//	out, err := warp.Warp(img, t, warp.WithExtend(warp.ExtendMirror))
//
// # Coordinate System
//
// Uses standard image coordinates:
//   - Origin (0,0) at the top-left pixel center
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// Transforms returned by SolveTransform map destination pixels to source
// coordinates, the direction a sampler consumes.
//
// # Alpha
//
// Sources are flattened (alpha composited against the background color)
// before sampling; output images are opaque. Transparency semantics are
// undefined under perspective resampling, so alpha is intentionally not
// restored.
//
// # GPU Acceleration
//
// An optional wgpu-backed kernel can be registered via blank import:
//
//	import _ "github.com/gogpu/warp/gpu"
//
// When no accelerator is available the engine transparently samples on the
// CPU, parallelized across a worker pool.
package warp

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
