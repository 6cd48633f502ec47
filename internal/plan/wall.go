// Package plan holds the wall graph: the insertion-ordered set of wall
// segments a user has drawn, with the mutations the designer performs on it.
// Connectivity is never stored here. It is derived from endpoint coordinates
// by the topology package.
package plan

import (
	"errors"
	"fmt"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

// DefaultMinLength is the shortest wall, in meters, the graph admits.
const DefaultMinLength = 0.2

// DefaultHitThreshold is the distance within which FindWallNearPoint
// reports a wall.
const DefaultHitThreshold = 0.5

var (
	ErrDegenerateWall = errors.New("degenerate wall")
	ErrWallNotFound   = errors.New("wall not found")
	ErrDuplicateWall  = errors.New("duplicate wall id")
	ErrNonFinitePoint = errors.New("non-finite wall coordinate")

	ErrInvalidDimensions = errors.New("room dimensions must be positive")
)

// Endpoint names one end of a wall.
type Endpoint string

const (
	Start Endpoint = "start"
	End   Endpoint = "end"
)

// Wall is one straight section of room boundary.
type Wall struct {
	ID    string     `json:"id"`
	Start geom.Point `json:"start"`
	End   geom.Point `json:"end"`
}

// Segment returns the wall as a geometric segment.
func (w Wall) Segment() geom.Segment {
	return geom.Seg(w.Start, w.End)
}

// Length returns the wall length in meters.
func (w Wall) Length() float64 {
	return w.Start.Distance(w.End)
}

// Point returns the coordinates of the named endpoint.
func (w Wall) Point(e Endpoint) geom.Point {
	if e == End {
		return w.End
	}
	return w.Start
}

// WithPoint returns a copy of w with the named endpoint moved to p.
func (w Wall) WithPoint(e Endpoint, p geom.Point) Wall {
	if e == End {
		w.End = p
	} else {
		w.Start = p
	}
	return w
}

// DegenerateWallError reports a wall that would be shorter than the minimum
// length. It matches ErrDegenerateWall with errors.Is.
type DegenerateWallError struct {
	Start     geom.Point
	End       geom.Point
	MinLength float64
}

func (e *DegenerateWallError) Error() string {
	return fmt.Sprintf("degenerate wall %v-%v: length %.3fm is below minimum %.3fm",
		e.Start, e.End, e.Start.Distance(e.End), e.MinLength)
}

func (e *DegenerateWallError) Is(target error) bool {
	return target == ErrDegenerateWall
}
