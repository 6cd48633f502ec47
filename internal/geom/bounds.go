package geom

import "math"

// Bounds is an axis-aligned bounding box on the room plane. The zero value
// is not a valid box; use EmptyBounds and Extend.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// EmptyBounds returns a box that contains nothing. Extending it with a point
// yields the degenerate box at that point.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
}

// BoundsOf returns the smallest box containing every point.
func BoundsOf(points ...Point) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Extend returns the smallest box containing b and p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinX: min(b.MinX, p.X),
		MaxX: max(b.MaxX, p.X),
		MinY: min(b.MinY, p.Y),
		MaxY: max(b.MaxY, p.Y),
	}
}

// IsEmpty reports whether the box contains no points.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width is the extent along X.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Length is the extent along Y. It becomes the room length (3D Z) on
// conversion.
func (b Bounds) Length() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

// Center returns the center point of the box.
func (b Bounds) Center() Point {
	if b.IsEmpty() {
		return Point{}
	}
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains checks if a point is inside the box, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Union returns the smallest box containing both boxes.
func (b Bounds) Union(other Bounds) Bounds {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}
	return Bounds{
		MinX: min(b.MinX, other.MinX),
		MaxX: max(b.MaxX, other.MaxX),
		MinY: min(b.MinY, other.MinY),
		MaxY: max(b.MaxY, other.MaxY),
	}
}

// Inset grows (negative d) or shrinks (positive d) the box on every side.
func (b Bounds) Inset(d float64) Bounds {
	if b.IsEmpty() {
		return b
	}
	return Bounds{MinX: b.MinX + d, MaxX: b.MaxX - d, MinY: b.MinY + d, MaxY: b.MaxY - d}
}
