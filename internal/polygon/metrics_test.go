package polygon

import (
	"math"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

func rect(w, l float64) []geom.Point {
	return []geom.Point{geom.Pt(0, 0), geom.Pt(w, 0), geom.Pt(w, l), geom.Pt(0, l)}
}

func TestSignedArea(t *testing.T) {
	tests := []struct {
		name   string
		points []geom.Point
		want   float64
	}{
		{"ccw rectangle", rect(6, 4), 24},
		{"cw rectangle", Reverse(rect(6, 4)), -24},
		{"triangle", []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 3)}, 6},
		{"two points", []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0)}, 0},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SignedArea(tt.points); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SignedArea = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAreaSignIndependence(t *testing.T) {
	ring := []geom.Point{geom.Pt(0, 0), geom.Pt(5, 0), geom.Pt(5, 2), geom.Pt(2, 2), geom.Pt(2, 4), geom.Pt(0, 4)}
	rev := Reverse(ring)

	if Area(ring) != Area(rev) {
		t.Errorf("area changed on reversal: %f vs %f", Area(ring), Area(rev))
	}
	if math.Abs(Area(ring)-14) > 1e-9 {
		t.Errorf("L-shape area = %f, want 14", Area(ring))
	}
	if WindingOf(ring) == WindingOf(rev) {
		t.Errorf("winding should flip, both %s", WindingOf(ring))
	}
	if WindingOf(ring) != CCW {
		t.Errorf("winding = %s, want ccw", WindingOf(ring))
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid(rect(6, 4))
	if math.Abs(c.X-3) > 1e-9 || math.Abs(c.Y-2) > 1e-9 {
		t.Errorf("rectangle centroid = %v, want (3, 2)", c)
	}

	// L-shape: exact centroid differs from the vertex mean.
	l := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 1), geom.Pt(1, 1), geom.Pt(1, 4), geom.Pt(0, 4)}
	exact := Centroid(l)
	mean := VertexMean(l)
	if exact == mean {
		t.Error("exact centroid should differ from vertex mean for an L")
	}
	// Area 7: (4x1 at (2, .5)) + (1x3 at (.5, 2.5)).
	wantX := (4*2 + 3*0.5) / 7
	wantY := (4*0.5 + 3*2.5) / 7
	if math.Abs(exact.X-wantX) > 1e-9 || math.Abs(exact.Y-wantY) > 1e-9 {
		t.Errorf("L centroid = %v, want (%f, %f)", exact, wantX, wantY)
	}
	r := Centroid(Reverse(l))
	if math.Abs(r.X-exact.X) > 1e-9 || math.Abs(r.Y-exact.Y) > 1e-9 {
		t.Errorf("reversed centroid = %v, want %v", r, exact)
	}
}

func TestCentroidDegenerateFallsBack(t *testing.T) {
	line := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(4, 0)}
	if got := Centroid(line); got != geom.Pt(2, 0) {
		t.Errorf("collinear centroid = %v, want vertex mean (2, 0)", got)
	}
}

func TestEnsureWinding(t *testing.T) {
	cw := Reverse(rect(2, 2))
	got := EnsureWinding(cw, CCW)
	if WindingOf(got) != CCW {
		t.Errorf("winding = %s, want ccw", WindingOf(got))
	}
	if WindingOf(cw) != CW {
		t.Error("input must not be modified")
	}
}

func TestPerimeter(t *testing.T) {
	if got := Perimeter(rect(6, 4)); got != 20 {
		t.Errorf("Perimeter = %f, want 20", got)
	}
}
