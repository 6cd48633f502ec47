// Package snap resolves raw pointer positions to the point a new or dragged
// wall endpoint should actually use: an existing endpoint, a point on an
// existing wall, or the integer-meter grid.
package snap

import (
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// DefaultDistance is the connection-point snap tolerance in meters.
const DefaultDistance = 0.5

// Kind records which rule produced a snapped point.
type Kind string

const (
	KindNone       Kind = "none"
	KindConnection Kind = "connection"
	KindWall       Kind = "wall"
	KindGrid       Kind = "grid"
)

// Result is a snapped point plus the rule that fired. Kind is reported for
// highlighting and has no effect on later snaps.
type Result struct {
	Point geom.Point `json:"point"`
	Kind  Kind       `json:"kind"`
}

// Highlighted reports whether the UI should mark the snap target. Grid snaps
// are not highlighted.
func (r Result) Highlighted() bool {
	return r.Kind == KindConnection || r.Kind == KindWall
}

// Index answers nearest-point queries against a fixed set of walls. It is
// cheap to build and meant to be rebuilt whenever the walls change.
type Index struct {
	distance float64
	points   []geom.Point
	walls    []plan.Wall
}

// NewIndex builds an index over walls, skipping any wall whose id is listed
// in exclude. A non-positive distance uses DefaultDistance.
func NewIndex(walls []plan.Wall, distance float64, exclude ...string) *Index {
	if distance <= 0 {
		distance = DefaultDistance
	}
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	idx := &Index{distance: distance}
	seen := make(map[geom.Key]bool)
	for _, w := range walls {
		if skip[w.ID] {
			continue
		}
		idx.walls = append(idx.walls, w)
		for _, p := range [2]geom.Point{w.Start, w.End} {
			k := p.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			idx.points = append(idx.points, p)
		}
	}
	return idx
}

// Distance returns the snap tolerance.
func (idx *Index) Distance() float64 {
	return idx.distance
}

// ConnectionPoints returns the distinct endpoints in first-seen order.
func (idx *Index) ConnectionPoints() []geom.Point {
	return append([]geom.Point(nil), idx.points...)
}

// NearestConnectionPoint returns the existing endpoint closest to p, if one
// lies within the snap distance. Equal distances resolve to the endpoint
// seen first.
func (idx *Index) NearestConnectionPoint(p geom.Point) (geom.Point, bool) {
	var (
		best  geom.Point
		bestD = idx.distance
		found bool
	)
	for _, c := range idx.points {
		if d := c.Distance(p); d < bestD {
			best, bestD, found = c, d, true
		}
	}
	return best, found
}

// NearestPointOnAnyWall returns the point on any wall segment closest to p,
// if it lies within half the snap distance.
func (idx *Index) NearestPointOnAnyWall(p geom.Point) (geom.Point, bool) {
	var (
		best  geom.Point
		bestD = idx.distance / 2
		found bool
	)
	for _, w := range idx.walls {
		s := w.Segment()
		if s.Length() == 0 {
			continue
		}
		q := s.ClosestPoint(p)
		if d := q.Distance(p); d < bestD {
			best, bestD, found = q, d, true
		}
	}
	return best, found
}

// Snap applies, in order: existing connection point, point on an existing
// wall, integer grid when gridEnabled. Otherwise p comes back unchanged.
func (idx *Index) Snap(p geom.Point, gridEnabled bool) Result {
	if c, ok := idx.NearestConnectionPoint(p); ok {
		return Result{Point: c, Kind: KindConnection}
	}
	if q, ok := idx.NearestPointOnAnyWall(p); ok {
		return Result{Point: q, Kind: KindWall}
	}
	if gridEnabled {
		return Result{Point: p.Round(), Kind: KindGrid}
	}
	return Result{Point: p, Kind: KindNone}
}
