// Package polygon computes metrics over an ordered vertex ring: shoelace
// area, winding and centroid. The ring is implicitly closed; the last vertex
// connects back to the first.
package polygon

import (
	"math"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

// Winding is the orientation of a vertex ring.
type Winding string

const (
	CCW Winding = "ccw"
	CW  Winding = "cw"
)

// degenerateArea is the area below which the exact centroid is unstable.
const degenerateArea = 1e-12

// SignedArea returns the shoelace area. It is positive for counterclockwise
// rings in a Y-up frame. Fewer than three vertices give 0.
func SignedArea(points []geom.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area.
func Area(points []geom.Point) float64 {
	return math.Abs(SignedArea(points))
}

// WindingOf returns CCW for a non-negative signed area and CW otherwise.
func WindingOf(points []geom.Point) Winding {
	if SignedArea(points) >= 0 {
		return CCW
	}
	return CW
}

// Perimeter returns the length of the closed ring.
func Perimeter(points []geom.Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += points[i].Distance(points[(i+1)%n])
	}
	return total
}

// VertexMean returns the arithmetic mean of the vertices.
func VertexMean(points []geom.Point) geom.Point {
	if len(points) == 0 {
		return geom.Point{}
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return geom.Pt(sx/n, sy/n)
}

// Centroid returns the area centroid of the ring. Rings with (near) zero
// area fall back to the vertex mean.
func Centroid(points []geom.Point) geom.Point {
	a := SignedArea(points)
	if math.Abs(a) < degenerateArea {
		return VertexMean(points)
	}
	n := len(points)
	var cx, cy float64
	for i := 0; i < n; i++ {
		p, q := points[i], points[(i+1)%n]
		cross := p.X*q.Y - q.X*p.Y
		cx += (p.X + q.X) * cross
		cy += (p.Y + q.Y) * cross
	}
	return geom.Pt(cx/(6*a), cy/(6*a))
}

// Reverse returns the ring with vertex order reversed.
func Reverse(points []geom.Point) []geom.Point {
	n := len(points)
	out := make([]geom.Point, n)
	for i, p := range points {
		out[n-1-i] = p
	}
	return out
}

// EnsureWinding returns the ring in the requested orientation, reversing a
// copy when needed.
func EnsureWinding(points []geom.Point, w Winding) []geom.Point {
	if WindingOf(points) == w {
		return append([]geom.Point(nil), points...)
	}
	return Reverse(points)
}
