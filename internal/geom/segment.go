package geom

// Segment is a straight line between two points.
type Segment struct {
	A Point
	B Point
}

// Seg is shorthand for Segment{A: a, B: b}.
func Seg(a, b Point) Segment {
	return Segment{A: a, B: b}
}

// Length returns the distance between the segment's endpoints.
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point {
	return s.A.Lerp(s.B, 0.5)
}

// Project returns the parameter t in [0, 1] of the point on s closest to p.
// A zero-length segment projects everything onto A (t = 0).
func (s Segment) Project(p Point) float64 {
	d := s.B.Sub(s.A)
	lengthSq := d.Dot(d)
	if lengthSq == 0 {
		return 0
	}
	t := p.Sub(s.A).Dot(d) / lengthSq
	return min(1, max(0, t))
}

// ClosestPoint returns the point on s nearest to p.
func (s Segment) ClosestPoint(p Point) Point {
	return s.A.Lerp(s.B, s.Project(p))
}

// DistanceTo returns the shortest distance from p to any point of s.
func (s Segment) DistanceTo(p Point) float64 {
	return p.Distance(s.ClosestPoint(p))
}

// Translate returns s moved by delta.
func (s Segment) Translate(delta Point) Segment {
	return Segment{A: s.A.Add(delta), B: s.B.Add(delta)}
}
