package warp

import (
	"errors"
	"math"
	"testing"
)

func TestQuadFromRect(t *testing.T) {
	q := QuadFromRect(10, 20, 30, 40)
	want := Quad{Pt(10, 20), Pt(40, 20), Pt(40, 60), Pt(10, 60)}
	if q != want {
		t.Errorf("QuadFromRect = %v, want %v", q, want)
	}
}

func TestImageQuad(t *testing.T) {
	q := ImageQuad(100, 50)
	want := Quad{Pt(0, 0), Pt(99, 0), Pt(99, 49), Pt(0, 49)}
	if q != want {
		t.Errorf("ImageQuad = %v, want %v", q, want)
	}
}

func TestQuadFromPoints(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(1, 0), Pt(1, 1), Pt(0, 1)}
	q, err := QuadFromPoints(pts)
	if err != nil {
		t.Fatalf("QuadFromPoints() = %v", err)
	}
	if q != (Quad{pts[0], pts[1], pts[2], pts[3]}) {
		t.Errorf("QuadFromPoints = %v", q)
	}

	for _, n := range []int{0, 1, 3, 5} {
		bad := make([]Point, n)
		if _, err := QuadFromPoints(bad); !errors.Is(err, ErrInvalidInputShape) {
			t.Errorf("QuadFromPoints(%d points) error = %v, want ErrInvalidInputShape", n, err)
		}
	}
}

func TestQuadBounds(t *testing.T) {
	q := Quad{Pt(5, 1), Pt(9, 3), Pt(7, 8), Pt(2, 6)}
	minPt, maxPt := q.Bounds()
	if minPt != Pt(2, 1) {
		t.Errorf("min = %v, want (2,1)", minPt)
	}
	if maxPt != Pt(9, 8) {
		t.Errorf("max = %v, want (9,8)", maxPt)
	}
}

func TestQuadCentroid(t *testing.T) {
	q := QuadFromRect(0, 0, 10, 20)
	if got := q.Centroid(); got != Pt(5, 10) {
		t.Errorf("Centroid = %v, want (5,10)", got)
	}
}

func TestQuadIsConvex(t *testing.T) {
	tests := []struct {
		name string
		q    Quad
		want bool
	}{
		{"rectangle", QuadFromRect(0, 0, 10, 10), true},
		{"skewed convex", Quad{Pt(1, 0), Pt(10, 2), Pt(9, 9), Pt(0, 8)}, true},
		{"bowtie", Quad{Pt(0, 0), Pt(10, 10), Pt(10, 0), Pt(0, 10)}, false},
		{"concave", Quad{Pt(0, 0), Pt(10, 0), Pt(2, 2), Pt(0, 10)}, false},
		{"collinear corner", Quad{Pt(0, 0), Pt(5, 0), Pt(10, 0), Pt(5, 5)}, false},
		{"degenerate point", Quad{Pt(1, 1), Pt(1, 1), Pt(1, 1), Pt(1, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.IsConvex(); got != tt.want {
				t.Errorf("IsConvex(%v) = %v, want %v", tt.q, got, tt.want)
			}
		})
	}
}

func TestQuadIsFinite(t *testing.T) {
	if !QuadFromRect(0, 0, 1, 1).IsFinite() {
		t.Error("finite quad reported non-finite")
	}
	bad := Quad{Pt(0, 0), Pt(math.NaN(), 0), Pt(1, 1), Pt(0, 1)}
	if bad.IsFinite() {
		t.Error("quad with NaN corner reported finite")
	}
}

func TestQuadRectifiedSize(t *testing.T) {
	tests := []struct {
		name  string
		q     Quad
		wantW int
		wantH int
	}{
		{
			// Edges span 100 and 50 pixels of distance, covering 101x51
			// pixel centers.
			name:  "axis aligned",
			q:     QuadFromRect(0, 0, 100, 50),
			wantW: 101,
			wantH: 51,
		},
		{
			// Opposite edges of different length average out.
			name:  "trapezoid",
			q:     Quad{Pt(0, 0), Pt(100, 0), Pt(80, 50), Pt(20, 50)},
			wantW: 81,
			wantH: 55,
		},
		{
			name:  "degenerate clamps to 1x1",
			q:     Quad{Pt(3, 3), Pt(3, 3), Pt(3, 3), Pt(3, 3)},
			wantW: 1,
			wantH: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.q.RectifiedSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("RectifiedSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestQuadPoints(t *testing.T) {
	q := QuadFromRect(1, 2, 3, 4)
	pts := q.Points()
	if len(pts) != 4 {
		t.Fatalf("Points() returned %d points", len(pts))
	}
	for i := range 4 {
		if pts[i] != q[i] {
			t.Errorf("Points()[%d] = %v, want %v", i, pts[i], q[i])
		}
	}
}
