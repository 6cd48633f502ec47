// Package topology derives connectivity from a wall list: the endpoint
// adjacency view, the closure flag, and the ordered boundary polygon.
// Everything here is a pure function of its input walls.
package topology

import (
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// Adjacency maps each point key to the keys reachable over one wall. Keys
// and neighbor lists keep first-seen order so walks are reproducible.
type Adjacency struct {
	keys      []geom.Key
	neighbors map[geom.Key][]geom.Key
	degree    map[geom.Key]int
	points    map[geom.Key]geom.Point
}

// Build derives the adjacency view from walls, taking each wall's start
// before its end.
func Build(walls []plan.Wall) *Adjacency {
	a := &Adjacency{
		neighbors: make(map[geom.Key][]geom.Key),
		degree:    make(map[geom.Key]int),
		points:    make(map[geom.Key]geom.Point),
	}
	for _, w := range walls {
		sk := a.touch(w.Start)
		ek := a.touch(w.End)
		a.link(sk, ek)
		a.link(ek, sk)
	}
	return a
}

func (a *Adjacency) touch(p geom.Point) geom.Key {
	k := p.Key()
	if _, ok := a.points[k]; !ok {
		a.points[k] = p
		a.keys = append(a.keys, k)
	}
	a.degree[k]++
	return k
}

func (a *Adjacency) link(from, to geom.Key) {
	for _, n := range a.neighbors[from] {
		if n == to {
			return
		}
	}
	a.neighbors[from] = append(a.neighbors[from], to)
}

// Keys returns every distinct point key in first-seen order.
func (a *Adjacency) Keys() []geom.Key {
	return append([]geom.Key(nil), a.keys...)
}

// Len returns the number of distinct points.
func (a *Adjacency) Len() int {
	return len(a.keys)
}

// Neighbors returns the keys one wall away from k.
func (a *Adjacency) Neighbors(k geom.Key) []geom.Key {
	return append([]geom.Key(nil), a.neighbors[k]...)
}

// Degree returns how many wall endpoints landed on k. Parallel walls between
// the same two points count separately.
func (a *Adjacency) Degree(k geom.Key) int {
	return a.degree[k]
}

// Point returns the representative coordinates of k: the first endpoint
// that produced it.
func (a *Adjacency) Point(k geom.Key) (geom.Point, bool) {
	p, ok := a.points[k]
	return p, ok
}

// Degrees returns the endpoint count for every key.
func (a *Adjacency) Degrees() map[geom.Key]int {
	out := make(map[geom.Key]int, len(a.degree))
	for k, d := range a.degree {
		out[k] = d
	}
	return out
}

// OpenEnds returns the representative points touched by exactly one wall
// endpoint, in first-seen order.
func (a *Adjacency) OpenEnds() []geom.Point {
	var out []geom.Point
	for _, k := range a.keys {
		if a.degree[k] == 1 {
			out = append(out, a.points[k])
		}
	}
	return out
}
