// Command warpdemo straightens or extracts a quadrilateral region of an
// image. Without an input file it generates a synthetic test card so the
// pipeline can be tried standalone.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/noise"
	"github.com/anthonynsimon/bild/transform"

	"github.com/gogpu/warp"
	_ "github.com/gogpu/warp/gpu" // enable GPU acceleration when available
)

func main() {
	var (
		in      = flag.String("in", "", "input image (PNG/JPEG/WebP/BMP/TIFF); empty generates a test card")
		out     = flag.String("out", "out.png", "output file")
		quadArg = flag.String("quad", "", "corner coordinates \"x1,y1,x2,y2,x3,y3,x4,y4\" clockwise from top-left")
		mode    = flag.String("mode", "rectify", "rectify | straighten | crop")
		extend  = flag.String("extend", "background", "background | replicate | mirror | tile | average")
		bg      = flag.String("bg", "#000000", "background color for out-of-bounds pixels")
		interp  = flag.String("interp", "bilinear", "nearest | bilinear | bicubic")
		workers = flag.Int("workers", 0, "sampling goroutines (0 = GOMAXPROCS)")
		maxDim  = flag.Int("maxdim", 0, "downscale input so no side exceeds this (0 = keep)")
		verbose = flag.Bool("v", false, "log engine diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		warp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	img, err := loadInput(*in, *maxDim)
	if err != nil {
		log.Fatalf("Failed to load input: %v", err)
	}

	quad, err := resolveQuad(*quadArg, img)
	if err != nil {
		log.Fatalf("Bad -quad: %v", err)
	}

	opts, err := buildOptions(*extend, *bg, *interp, *workers)
	if err != nil {
		log.Fatalf("Bad options: %v", err)
	}

	var result *warp.ImageBuf
	switch *mode {
	case "rectify":
		result, err = warp.Rectify(img, quad, opts...)
	case "straighten":
		_, result, err = warp.Straighten(img, quad, opts...)
	case "crop":
		result, err = warp.StraightenCrop(img, quad, opts...)
	default:
		log.Fatalf("Unknown -mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("Warp failed: %v", err)
	}

	if err := result.SavePNG(*out); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Saved %s (%dx%d)\n", *out, result.Width(), result.Height())
}

// loadInput reads the input image, or builds the test card when path is
// empty. With maxDim > 0, oversized inputs are downscaled to fit.
func loadInput(path string, maxDim int) (*warp.ImageBuf, error) {
	if path == "" {
		return testCard(640, 480), nil
	}
	img, err := warp.LoadImage(path)
	if err != nil {
		return nil, err
	}
	w, h := img.Bounds()
	if maxDim > 0 && (w > maxDim || h > maxDim) {
		scale := float64(maxDim) / float64(max(w, h))
		resized := transform.Resize(img.ToStdImage(),
			int(float64(w)*scale), int(float64(h)*scale), transform.Linear)
		img = warp.FromImage(resized)
	}
	return img, nil
}

// resolveQuad parses the corner list, or defaults to a skewed region
// covering the middle of the image.
func resolveQuad(arg string, img *warp.ImageBuf) (warp.Quad, error) {
	w, h := img.Bounds()
	fw, fh := float64(w), float64(h)
	if arg == "" {
		return warp.Quad{
			warp.Pt(0.20*fw, 0.15*fh),
			warp.Pt(0.85*fw, 0.10*fh),
			warp.Pt(0.90*fw, 0.85*fh),
			warp.Pt(0.15*fw, 0.80*fh),
		}, nil
	}

	fields := strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	pts := make([]warp.Point, 0, len(fields)/2)
	if len(fields)%2 != 0 {
		return warp.Quad{}, fmt.Errorf("need x,y pairs, got %d values", len(fields))
	}
	for i := 0; i < len(fields); i += 2 {
		x, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return warp.Quad{}, fmt.Errorf("value %q: %w", fields[i], err)
		}
		y, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return warp.Quad{}, fmt.Errorf("value %q: %w", fields[i+1], err)
		}
		pts = append(pts, warp.Pt(x, y))
	}
	return warp.QuadFromPoints(pts)
}

// buildOptions translates flag values into warp options.
func buildOptions(extend, bg, interp string, workers int) ([]warp.Option, error) {
	opts := []warp.Option{warp.WithWorkers(workers)}

	switch extend {
	case "background":
		opts = append(opts, warp.WithExtend(warp.ExtendBackground))
	case "replicate":
		opts = append(opts, warp.WithExtend(warp.ExtendReplicate))
	case "mirror":
		opts = append(opts, warp.WithExtend(warp.ExtendMirror))
	case "tile":
		opts = append(opts, warp.WithExtend(warp.ExtendTile))
	case "average":
		opts = append(opts, warp.WithBackgroundAverage())
	default:
		return nil, fmt.Errorf("unknown extend mode %q", extend)
	}

	color, err := warp.Hex(bg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, warp.WithBackground(color))

	switch interp {
	case "nearest":
		opts = append(opts, warp.WithInterpolation(warp.InterpNearest))
	case "bilinear":
		opts = append(opts, warp.WithInterpolation(warp.InterpBilinear))
	case "bicubic":
		opts = append(opts, warp.WithInterpolation(warp.InterpBicubic))
	default:
		return nil, fmt.Errorf("unknown interpolation %q", interp)
	}

	return opts, nil
}

// testCard builds a synthetic subject: a hue-banded checkerboard over
// gaussian noise, with a white border marking the frame.
func testCard(w, h int) *warp.ImageBuf {
	bgNoise := noise.Generate(w, h, &noise.Options{
		NoiseFn:    noise.Gaussian,
		Monochrome: true,
	})
	card := warp.FromImage(bgNoise)

	const tile = 40
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tx, ty := x/tile, y/tile
			if (tx+ty)%2 == 0 {
				continue
			}
			hue := float64((tx*7+ty*13)%12) * 30
			c := warp.HSL(hue, 0.6, 0.5)
			r, g, b := uint8(c.R*255), uint8(c.G*255), uint8(c.B*255)
			_ = card.SetRGBA(x, y, r, g, b, 255)
		}
	}
	for x := 0; x < w; x++ {
		_ = card.SetRGBA(x, 0, 255, 255, 255, 255)
		_ = card.SetRGBA(x, h-1, 255, 255, 255, 255)
	}
	for y := 0; y < h; y++ {
		_ = card.SetRGBA(0, y, 255, 255, 255, 255)
		_ = card.SetRGBA(w-1, y, 255, 255, 255, 255)
	}
	return card
}
