package mesh

import (
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/polygon"
)

// Triangulate splits a simple polygon into triangles by ear clipping. The
// returned index triples refer to points and are counterclockwise in the
// plan frame whatever the input winding. Rings that stop yielding ears
// (self-intersecting input) are finished with a fan.
func Triangulate(points []geom.Point) [][3]int {
	n := len(points)
	if n < 3 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if polygon.WindingOf(points) == polygon.CW {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}

	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		clipped := false
		for i := range idx {
			a := idx[(i+len(idx)-1)%len(idx)]
			b := idx[i]
			c := idx[(i+1)%len(idx)]
			if !isEar(points, idx, a, b, c) {
				continue
			}
			tris = append(tris, [3]int{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			for i := 1; i+1 < len(idx); i++ {
				tris = append(tris, [3]int{idx[0], idx[i], idx[i+1]})
			}
			return tris
		}
	}
	return append(tris, [3]int{idx[0], idx[1], idx[2]})
}

func isEar(points []geom.Point, ring []int, a, b, c int) bool {
	pa, pb, pc := points[a], points[b], points[c]
	if pb.Sub(pa).Cross(pc.Sub(pb)) <= 0 {
		return false
	}
	for _, k := range ring {
		if k == a || k == b || k == c {
			continue
		}
		p := points[k]
		if p == pa || p == pb || p == pc {
			continue
		}
		if insideTriangle(p, pa, pb, pc) {
			return false
		}
	}
	return true
}

// insideTriangle is strict: points on an edge are outside.
func insideTriangle(p, a, b, c geom.Point) bool {
	return b.Sub(a).Cross(p.Sub(a)) > 0 &&
		c.Sub(b).Cross(p.Sub(b)) > 0 &&
		a.Sub(c).Cross(p.Sub(c)) > 0
}
