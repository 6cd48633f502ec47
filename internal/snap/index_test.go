package snap

import (
	"math"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

func wall(id string, x1, y1, x2, y2 float64) plan.Wall {
	return plan.Wall{ID: id, Start: geom.Pt(x1, y1), End: geom.Pt(x2, y2)}
}

func TestNearestConnectionPoint(t *testing.T) {
	idx := NewIndex([]plan.Wall{wall("w1", 1, 1, 4, 1)}, 0.5)

	got, ok := idx.NearestConnectionPoint(geom.Pt(1.2, 1.3))
	if !ok || got != geom.Pt(1, 1) {
		t.Errorf("NearestConnectionPoint = %v, %v, want (1, 1)", got, ok)
	}
	if _, ok := idx.NearestConnectionPoint(geom.Pt(5, 5)); ok {
		t.Error("(5, 5) should not snap")
	}
}

func TestNearestConnectionPointPicksClosest(t *testing.T) {
	idx := NewIndex([]plan.Wall{
		wall("w1", 0, 0, 0.6, 0),
	}, 0.5)
	got, ok := idx.NearestConnectionPoint(geom.Pt(0.4, 0))
	if !ok || got != geom.Pt(0.6, 0) {
		t.Errorf("got %v, want the closer (0.6, 0)", got)
	}
}

func TestNearestPointOnAnyWall(t *testing.T) {
	idx := NewIndex([]plan.Wall{wall("w1", 0, 0, 10, 0)}, 0.5)

	got, ok := idx.NearestPointOnAnyWall(geom.Pt(5, 0.2))
	if !ok || math.Abs(got.X-5) > 1e-9 || got.Y != 0 {
		t.Errorf("got %v, %v, want (5, 0)", got, ok)
	}
	if _, ok := idx.NearestPointOnAnyWall(geom.Pt(5, 0.3)); ok {
		t.Error("0.3m is beyond half the snap distance")
	}
}

func TestSnapPriority(t *testing.T) {
	idx := NewIndex([]plan.Wall{wall("w1", 0.3, 0.3, 10.3, 0.3)}, 0.5)

	tests := []struct {
		name     string
		p        geom.Point
		grid     bool
		want     geom.Point
		wantKind Kind
	}{
		{"connection beats grid", geom.Pt(0.1, 0.1), true, geom.Pt(0.3, 0.3), KindConnection},
		{"wall interior beats grid", geom.Pt(5.4, 0.4), true, geom.Pt(5.4, 0.3), KindWall},
		{"grid", geom.Pt(4.6, 3.2), true, geom.Pt(5, 3), KindGrid},
		{"no grid passes through", geom.Pt(4.6, 3.2), false, geom.Pt(4.6, 3.2), KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.Snap(tt.p, tt.grid)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if math.Abs(got.Point.X-tt.want.X) > 1e-9 || math.Abs(got.Point.Y-tt.want.Y) > 1e-9 {
				t.Errorf("point = %v, want %v", got.Point, tt.want)
			}
		})
	}
}

func TestSnapIsPure(t *testing.T) {
	idx := NewIndex([]plan.Wall{wall("w1", 1, 1, 4, 1)}, 0.5)
	first := idx.Snap(geom.Pt(1.1, 1.1), true)
	second := idx.Snap(geom.Pt(1.1, 1.1), true)
	if first != second {
		t.Errorf("snap changed between calls: %v vs %v", first, second)
	}
}

func TestExcludedWallDoesNotSnap(t *testing.T) {
	walls := []plan.Wall{
		wall("w1", 0, 0, 4, 0),
		wall("w2", 4, 0, 4, 3),
	}
	idx := NewIndex(walls, 0.5, "w2")
	if _, ok := idx.NearestConnectionPoint(geom.Pt(4, 3.1)); ok {
		t.Error("endpoint of excluded wall should not be a snap target")
	}
	if got, ok := idx.NearestConnectionPoint(geom.Pt(4, 0.1)); !ok || got != geom.Pt(4, 0) {
		t.Errorf("shared endpoint should survive via w1, got %v %v", got, ok)
	}
	if len(idx.ConnectionPoints()) != 2 {
		t.Errorf("connection points = %v, want 2", idx.ConnectionPoints())
	}
}
