package plan

import (
	"fmt"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/typeid"
)

// Graph is the set of walls of one design. Iteration order is insertion
// order; updates keep a wall's position in that order.
type Graph struct {
	order     []string
	walls     map[string]Wall
	minLength float64
	newID     func() string
}

// Option configures a Graph.
type Option func(*Graph)

// WithMinLength sets the shortest admitted wall.
func WithMinLength(m float64) Option {
	return func(g *Graph) {
		if m > 0 {
			g.minLength = m
		}
	}
}

// WithIDGenerator replaces the typeid generator, mostly for tests that want
// predictable ids.
func WithIDGenerator(fn func() string) Option {
	return func(g *Graph) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// NewGraph creates an empty wall graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		walls:     make(map[string]Wall),
		minLength: DefaultMinLength,
		newID:     typeid.NewWallID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MinLength returns the shortest wall the graph admits.
func (g *Graph) MinLength() float64 {
	return g.minLength
}

// checkLength rejects walls with a NaN or infinite endpoint, then walls
// shorter than the minimum length.
func (g *Graph) checkLength(start, end geom.Point) error {
	if !start.IsFinite() || !end.IsFinite() {
		return fmt.Errorf("%w: %v-%v", ErrNonFinitePoint, start, end)
	}
	if !(start.Distance(end) >= g.minLength) {
		return &DegenerateWallError{Start: start, End: end, MinLength: g.minLength}
	}
	return nil
}

// AddWall inserts a new wall and returns its id. Walls shorter than the
// minimum length are rejected with a *DegenerateWallError and the graph is
// left untouched.
func (g *Graph) AddWall(start, end geom.Point) (string, error) {
	if err := g.checkLength(start, end); err != nil {
		return "", err
	}
	id := g.newID()
	if _, exists := g.walls[id]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateWall, id)
	}
	g.insert(Wall{ID: id, Start: start, End: end})
	return id, nil
}

func (g *Graph) insert(w Wall) {
	g.order = append(g.order, w.ID)
	g.walls[w.ID] = w
}

// UpdateWall replaces the endpoints of an existing wall. The id and the
// wall's place in iteration order are kept. Walls that used to share an
// endpoint with it are not moved.
func (g *Graph) UpdateWall(id string, start, end geom.Point) error {
	w, ok := g.walls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWallNotFound, id)
	}
	if err := g.checkLength(start, end); err != nil {
		return err
	}
	w.Start = start
	w.End = end
	g.walls[id] = w
	return nil
}

// RemoveWall deletes a wall by id. Unknown ids are ignored.
func (g *Graph) RemoveWall(id string) {
	if _, ok := g.walls[id]; !ok {
		return
	}
	delete(g.walls, id)
	for i, wid := range g.order {
		if wid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Clear removes every wall.
func (g *Graph) Clear() {
	g.order = nil
	g.walls = make(map[string]Wall)
}

// Load replaces the graph with a persisted wall list. The list is validated
// as a whole first, so a bad record leaves the graph unchanged.
func (g *Graph) Load(walls []Wall) error {
	seen := make(map[string]bool, len(walls))
	for _, w := range walls {
		if w.ID == "" {
			return fmt.Errorf("load walls: wall without id")
		}
		if seen[w.ID] {
			return fmt.Errorf("load walls: %w: %s", ErrDuplicateWall, w.ID)
		}
		seen[w.ID] = true
		if err := g.checkLength(w.Start, w.End); err != nil {
			return fmt.Errorf("load walls: %s: %w", w.ID, err)
		}
	}
	g.Clear()
	for _, w := range walls {
		g.insert(w)
	}
	return nil
}

// Get returns the wall with the given id.
func (g *Graph) Get(id string) (Wall, bool) {
	w, ok := g.walls[id]
	return w, ok
}

// Len returns the number of walls.
func (g *Graph) Len() int {
	return len(g.order)
}

// Walls returns a copy of the walls in insertion order.
func (g *Graph) Walls() []Wall {
	out := make([]Wall, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.walls[id])
	}
	return out
}

// FindWallNearPoint returns the first wall, in insertion order, whose
// segment lies closer than threshold to p. A non-positive threshold uses
// DefaultHitThreshold.
func (g *Graph) FindWallNearPoint(p geom.Point, threshold float64) (Wall, bool) {
	if threshold <= 0 {
		threshold = DefaultHitThreshold
	}
	for _, id := range g.order {
		w := g.walls[id]
		if w.Segment().DistanceTo(p) < threshold {
			return w, true
		}
	}
	return Wall{}, false
}

// BoundingBox scans every wall endpoint. ok is false for an empty graph.
func (g *Graph) BoundingBox() (b geom.Bounds, ok bool) {
	if len(g.order) == 0 {
		return geom.Bounds{}, false
	}
	b = geom.EmptyBounds()
	for _, id := range g.order {
		w := g.walls[id]
		b = b.Extend(w.Start).Extend(w.End)
	}
	return b, true
}

// ConnectionPoints returns the distinct wall endpoints, deduplicated by
// point key, in first-seen order (each wall's start before its end).
func (g *Graph) ConnectionPoints() []geom.Point {
	seen := make(map[geom.Key]bool)
	var out []geom.Point
	for _, id := range g.order {
		w := g.walls[id]
		for _, p := range [2]geom.Point{w.Start, w.End} {
			k := p.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}
