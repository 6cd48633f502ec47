package plan

import (
	"fmt"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

// RectangleCorners returns the four corners of a width×length rectangle
// centered on the origin, in drawing order: top-left, top-right,
// bottom-right, bottom-left.
func RectangleCorners(width, length float64) [4]geom.Point {
	hw, hl := width/2, length/2
	return [4]geom.Point{
		geom.Pt(-hw, -hl),
		geom.Pt(hw, -hl),
		geom.Pt(hw, hl),
		geom.Pt(-hw, hl),
	}
}

// CreateRectangularRoom replaces every wall with four connected walls
// forming a width×length rectangle centered on the origin. The dimensions
// are validated before anything is cleared.
func (g *Graph) CreateRectangularRoom(width, length float64) ([]string, error) {
	if !(width > 0) || !(length > 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidDimensions, width, length)
	}
	c := RectangleCorners(width, length)
	for i := range c {
		if err := g.checkLength(c[i], c[(i+1)%4]); err != nil {
			return nil, fmt.Errorf("rectangular room %gx%g: %w", width, length, err)
		}
	}

	g.Clear()
	ids := make([]string, 0, 4)
	for i := range c {
		id, err := g.AddWall(c[i], c[(i+1)%4])
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// OpenEndpoints returns the endpoints that belong to exactly one wall, in
// first-seen order. Each is the first point that produced its key.
func (g *Graph) OpenEndpoints() []geom.Point {
	type entry struct {
		point geom.Point
		count int
	}
	var keys []geom.Key
	counts := make(map[geom.Key]*entry)
	for _, id := range g.order {
		w := g.walls[id]
		for _, p := range [2]geom.Point{w.Start, w.End} {
			k := p.Key()
			if e, ok := counts[k]; ok {
				e.count++
				continue
			}
			counts[k] = &entry{point: p, count: 1}
			keys = append(keys, k)
		}
	}

	var open []geom.Point
	for _, k := range keys {
		if e := counts[k]; e.count == 1 {
			open = append(open, e.point)
		}
	}
	return open
}

// CloseRoom adds one wall between the two open endpoints of the graph. It is
// a no-op returning "" unless there are exactly two open endpoints.
func (g *Graph) CloseRoom() (string, error) {
	open := g.OpenEndpoints()
	if len(open) != 2 {
		return "", nil
	}
	return g.AddWall(open[0], open[1])
}
