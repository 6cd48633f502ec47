package topology

import (
	"fmt"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// MinClosedWalls is the fewest walls that can enclose a room.
const MinClosedWalls = 3

// AmbiguousTopologyError marks a closed graph whose boundary walk could not
// reach every vertex, which means more than one loop. The boundary returned
// alongside it covers only the first loop.
type AmbiguousTopologyError struct {
	Components int
	Visited    int
	Total      int
}

func (e *AmbiguousTopologyError) Error() string {
	return fmt.Sprintf("ambiguous room topology: %d closed loops, boundary covers %d of %d vertices",
		e.Components, e.Visited, e.Total)
}

// IsClosed reports whether walls form closed loops: at least three walls,
// and every vertex touched by exactly two wall endpoints.
func IsClosed(walls []plan.Wall) bool {
	return Build(walls).IsClosed(len(walls))
}

// IsClosed applies the closure rule to a prebuilt view of wallCount walls.
func (a *Adjacency) IsClosed(wallCount int) bool {
	if wallCount < MinClosedWalls {
		return false
	}
	for _, k := range a.keys {
		if a.degree[k] != 2 {
			return false
		}
	}
	return true
}

// OrderedBoundary walks the adjacency view from its first key, always moving
// to the first unvisited neighbor, and returns the representative points in
// visiting order. The walk stops early when it runs out of unvisited
// neighbors; callers must check IsClosed before trusting the result.
func OrderedBoundary(walls []plan.Wall) []geom.Point {
	return Build(walls).Walk()
}

// Walk performs the boundary walk on a prebuilt view. Fewer than three
// distinct points yield nil.
func (a *Adjacency) Walk() []geom.Point {
	keys := a.walkKeys()
	if keys == nil {
		return nil
	}
	out := make([]geom.Point, 0, len(keys))
	for _, k := range keys {
		out = append(out, a.points[k])
	}
	return out
}

func (a *Adjacency) walkKeys() []geom.Key {
	if len(a.keys) < 3 {
		return nil
	}
	visited := map[geom.Key]bool{a.keys[0]: true}
	order := []geom.Key{a.keys[0]}
	current := a.keys[0]
	for len(order) < len(a.keys) {
		next, ok := geom.Key{}, false
		for _, n := range a.neighbors[current] {
			if !visited[n] {
				next, ok = n, true
				break
			}
		}
		if !ok {
			break
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// Components counts connected groups of vertices.
func (a *Adjacency) Components() int {
	seen := make(map[geom.Key]bool, len(a.keys))
	count := 0
	for _, start := range a.keys {
		if seen[start] {
			continue
		}
		count++
		stack := []geom.Key{start}
		seen[start] = true
		for len(stack) > 0 {
			k := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range a.neighbors[k] {
				if !seen[n] {
					seen[n] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return count
}

// Components counts connected groups of vertices in walls.
func Components(walls []plan.Wall) int {
	return Build(walls).Components()
}

// Analysis is the derived topology of one wall list.
type Analysis struct {
	WallCount  int
	PointCount int
	Closed     bool
	Components int
	// Boundary is the walk result when Closed, otherwise nil.
	Boundary []geom.Point
	// Err is an *AmbiguousTopologyError when Closed but the walk did not
	// cover every vertex.
	Err error
}

// Analyze derives closure, boundary and ambiguity in a single pass.
func Analyze(walls []plan.Wall) Analysis {
	a := Build(walls)
	res := Analysis{
		WallCount:  len(walls),
		PointCount: a.Len(),
		Closed:     a.IsClosed(len(walls)),
		Components: a.Components(),
	}
	if !res.Closed {
		return res
	}
	res.Boundary = a.Walk()
	if len(res.Boundary) < a.Len() {
		res.Err = &AmbiguousTopologyError{
			Components: res.Components,
			Visited:    len(res.Boundary),
			Total:      a.Len(),
		}
	}
	return res
}
