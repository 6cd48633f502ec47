package topology

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// chain builds walls p0→p1→…→pn, closing back to p0 when closed is set.
func chain(closed bool, pts ...geom.Point) []plan.Wall {
	var walls []plan.Wall
	n := len(pts)
	last := n - 1
	if closed {
		last = n
	}
	for i := 0; i < last; i++ {
		walls = append(walls, plan.Wall{
			ID:    fmt.Sprintf("w%d", len(walls)),
			Start: pts[i],
			End:   pts[(i+1)%n],
		})
	}
	return walls
}

func square() []plan.Wall {
	return chain(true, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4))
}

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name  string
		walls []plan.Wall
		want  bool
	}{
		{"empty", nil, false},
		{"two walls", chain(false, geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1)), false},
		{"open U", chain(false, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 3), geom.Pt(0, 3)), false},
		{"triangle", chain(true, geom.Pt(0, 0), geom.Pt(3, 0), geom.Pt(0, 3)), true},
		{"square", square(), true},
		{"square with spur", append(square(), plan.Wall{ID: "spur", Start: geom.Pt(4, 4), End: geom.Pt(6, 6)}), false},
		{"T junction", append(square(), plan.Wall{ID: "t", Start: geom.Pt(2, 0), End: geom.Pt(2, 4)}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosed(tt.walls); got != tt.want {
				t.Errorf("IsClosed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosureMatchesDegreeRule(t *testing.T) {
	cases := [][]plan.Wall{
		nil,
		square(),
		chain(false, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 3)),
		append(square(), chain(true, geom.Pt(10, 10), geom.Pt(12, 10), geom.Pt(10, 12))...),
	}
	for i, walls := range cases {
		a := Build(walls)
		allTwo := true
		for _, d := range a.Degrees() {
			if d != 2 {
				allTwo = false
			}
		}
		want := len(walls) >= 3 && allTwo
		if got := IsClosed(walls); got != want {
			t.Errorf("case %d: IsClosed = %v, degree rule says %v", i, got, want)
		}
	}
}

func TestOrderedBoundarySquare(t *testing.T) {
	got := OrderedBoundary(square())
	want := []geom.Point{geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 4), geom.Pt(0, 4)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("boundary = %v, want %v", got, want)
	}
}

func TestOrderedBoundaryMixedDirections(t *testing.T) {
	// Same square but walls drawn in arbitrary directions and order.
	walls := []plan.Wall{
		{ID: "a", Start: geom.Pt(4, 0), End: geom.Pt(0, 0)},
		{ID: "b", Start: geom.Pt(0, 4), End: geom.Pt(4, 4)},
		{ID: "c", Start: geom.Pt(4, 4), End: geom.Pt(4, 0)},
		{ID: "d", Start: geom.Pt(0, 0), End: geom.Pt(0, 4)},
	}
	got := OrderedBoundary(walls)
	if len(got) != 4 {
		t.Fatalf("boundary = %v, want 4 points", got)
	}
	// Consecutive points must be joined by a wall.
	for i := range got {
		a, b := got[i], got[(i+1)%len(got)]
		if !joined(walls, a, b) {
			t.Errorf("%v and %v are consecutive but share no wall", a, b)
		}
	}
}

func joined(walls []plan.Wall, a, b geom.Point) bool {
	for _, w := range walls {
		if (w.Start == a && w.End == b) || (w.Start == b && w.End == a) {
			return true
		}
	}
	return false
}

func TestOrderedBoundaryRepresentativeIsFirstSeen(t *testing.T) {
	walls := chain(true, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(0, 3))
	walls[1].Start = geom.Pt(4.0002, 0)
	got := OrderedBoundary(walls)
	if got[1] != geom.Pt(4, 0) {
		t.Errorf("representative = %v, want first-seen (4, 0)", got[1])
	}
}

func TestOrderedBoundaryTooFewPoints(t *testing.T) {
	walls := chain(false, geom.Pt(0, 0), geom.Pt(3, 0))
	if got := OrderedBoundary(walls); got != nil {
		t.Errorf("boundary = %v, want nil", got)
	}
}

func TestOrderedBoundaryOpenChainIsPartial(t *testing.T) {
	// Starting at an interior vertex of an open chain, the walk runs off one
	// end before visiting everything.
	walls := []plan.Wall{
		{ID: "a", Start: geom.Pt(1, 0), End: geom.Pt(2, 0)},
		{ID: "b", Start: geom.Pt(0, 0), End: geom.Pt(1, 0)},
		{ID: "c", Start: geom.Pt(2, 0), End: geom.Pt(3, 0)},
	}
	got := OrderedBoundary(walls)
	if len(got) >= 4 {
		t.Errorf("open chain walk = %v, expected a partial walk", got)
	}
}

func TestDerivationIsIdempotent(t *testing.T) {
	walls := square()
	first := Analyze(walls)
	second := Analyze(walls)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze changed between calls:\n%+v\n%+v", first, second)
	}
}

func TestDisjointTrianglesDegradeGracefully(t *testing.T) {
	walls := append(
		chain(true, geom.Pt(0, 0), geom.Pt(3, 0), geom.Pt(0, 3)),
		chain(true, geom.Pt(10, 10), geom.Pt(13, 10), geom.Pt(10, 13))...,
	)

	if !IsClosed(walls) {
		t.Fatal("two closed triangles satisfy the degree rule")
	}
	if got := OrderedBoundary(walls); len(got) != 3 {
		t.Fatalf("boundary = %v, want only the first triangle", got)
	}

	res := Analyze(walls)
	if !res.Closed || len(res.Boundary) != 3 || res.Components != 2 {
		t.Errorf("analysis = %+v", res)
	}
	var amb *AmbiguousTopologyError
	if !errors.As(res.Err, &amb) {
		t.Fatalf("Err = %v, want *AmbiguousTopologyError", res.Err)
	}
	if amb.Visited != 3 || amb.Total != 6 || amb.Components != 2 {
		t.Errorf("ambiguity = %+v", amb)
	}
}

func TestAnalyzeOpenHasNoBoundary(t *testing.T) {
	res := Analyze(chain(false, geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 3), geom.Pt(0, 3)))
	if res.Closed || res.Boundary != nil || res.Err != nil {
		t.Errorf("analysis = %+v", res)
	}
	if res.WallCount != 3 || res.PointCount != 4 || res.Components != 1 {
		t.Errorf("counts = %+v", res)
	}
}
