package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSegmentDistanceTo(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(4, 0))

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"above interior", Pt(2, 3), 3},
		{"on segment", Pt(1, 0), 0},
		{"past end clamps to B", Pt(7, 4), 5},
		{"before start clamps to A", Pt(-3, -4), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.DistanceTo(tt.p); !near(got, tt.want) {
				t.Errorf("DistanceTo(%v) = %f, want %f", tt.p, got, tt.want)
			}
		})
	}
}

func TestSegmentClosestPoint(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(0, 10))
	got := s.ClosestPoint(Pt(2, 4))
	if !near(got.X, 0) || !near(got.Y, 4) {
		t.Errorf("ClosestPoint = %v, want (0, 4)", got)
	}
}

func TestZeroLengthSegment(t *testing.T) {
	s := Seg(Pt(1, 1), Pt(1, 1))
	if got := s.Project(Pt(5, 5)); got != 0 {
		t.Errorf("Project on zero-length segment = %f, want 0", got)
	}
	if got := s.DistanceTo(Pt(4, 5)); !near(got, 5) {
		t.Errorf("DistanceTo = %f, want 5", got)
	}
}

func TestKeyOfQuantizes(t *testing.T) {
	a := KeyOf(Pt(1.0001, 2.0004), DefaultKeyQuantum)
	b := KeyOf(Pt(0.9999, 1.9996), DefaultKeyQuantum)
	if a != b {
		t.Errorf("keys differ: %v vs %v", a, b)
	}
	c := KeyOf(Pt(1.002, 2), DefaultKeyQuantum)
	if a == c {
		t.Errorf("keys should differ at 2mm: %v", a)
	}
	if got := KeyOf(Pt(1, 1), 0); got != (Key{X: 1000, Y: 1000}) {
		t.Errorf("zero quantum should fall back to default, got %v", got)
	}
}

func TestBounds(t *testing.T) {
	b := BoundsOf(Pt(-3, 2), Pt(3, -2), Pt(0, 0))
	if b.Width() != 6 || b.Length() != 4 {
		t.Errorf("size = %f x %f, want 6 x 4", b.Width(), b.Length())
	}
	if c := b.Center(); c != Pt(0, 0) {
		t.Errorf("center = %v, want origin", c)
	}
	if !b.Contains(Pt(3, 2)) {
		t.Error("box should contain its corner")
	}

	empty := EmptyBounds()
	if !empty.IsEmpty() {
		t.Error("EmptyBounds should be empty")
	}
	if empty.Width() != 0 {
		t.Errorf("empty width = %f, want 0", empty.Width())
	}
	if u := empty.Union(b); u != b {
		t.Errorf("empty.Union(b) = %+v, want %+v", u, b)
	}
}
