package engine

import (
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

// DefaultGridSize is how many canvas pixels make one meter.
const DefaultGridSize = 20

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply transforms a point.
func (m Matrix2D) Apply(p geom.Point) geom.Point {
	return geom.Pt(m[0]*p.X+m[2]*p.Y+m[4], m[1]*p.X+m[3]*p.Y+m[5])
}

// ApplyBounds transforms b and returns the axis-aligned box of the result.
func (m Matrix2D) ApplyBounds(b geom.Bounds) geom.Bounds {
	return geom.BoundsOf(
		m.Apply(geom.Pt(b.MinX, b.MinY)),
		m.Apply(geom.Pt(b.MaxX, b.MinY)),
		m.Apply(geom.Pt(b.MaxX, b.MaxY)),
		m.Apply(geom.Pt(b.MinX, b.MaxY)),
	)
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// Viewport places the room plane on the drawing canvas: the canvas center
// is the room origin and GridSize pixels span one meter.
type Viewport struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	GridSize float64 `json:"gridSize"`
}

// DefaultViewport is an 800×600 canvas at DefaultGridSize.
func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600, GridSize: DefaultGridSize}
}

func (v Viewport) gridSize() float64 {
	if v.GridSize <= 0 {
		return DefaultGridSize
	}
	return v.GridSize
}

// Matrix maps room meters to canvas pixels.
func (v Viewport) Matrix() Matrix2D {
	g := v.gridSize()
	return Translate(v.Width/2, v.Height/2).Multiply(Scale(g, g))
}

// ToRoom converts a canvas pixel position to room meters.
func (v Viewport) ToRoom(px, py float64) geom.Point {
	return v.Matrix().Invert().Apply(geom.Pt(px, py))
}

// ToCanvas converts room meters to a canvas pixel position.
func (v Viewport) ToCanvas(p geom.Point) geom.Point {
	return v.Matrix().Apply(p)
}

// Visible returns the part of the room plane covered by the canvas.
func (v Viewport) Visible() geom.Bounds {
	return v.Matrix().Invert().ApplyBounds(geom.BoundsOf(geom.Pt(0, 0), geom.Pt(v.Width, v.Height)))
}
