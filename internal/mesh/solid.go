package mesh

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultSolidCells is the marching cubes resolution along the longest axis.
const DefaultSolidCells = 200

// FloorSlab is the thickness of the floor in the solid export.
const FloorSlab = 0.1

// Solid builds the room shell as a signed distance field: one box per wall
// unioned with the floor outline extruded downward by FloorSlab.
func Solid(r *Room) (sdf.SDF3, error) {
	var parts []sdf.SDF3
	for _, w := range r.Walls {
		if w.Length <= 0 {
			continue
		}
		box, err := sdf.Box3D(v3.Vec{X: w.Thickness, Y: w.Height, Z: w.Length}, 0)
		if err != nil {
			return nil, fmt.Errorf("wall %s box: %w", w.WallID, err)
		}
		m := sdf.Translate3d(v3.Vec{X: w.Center[0], Y: w.Center[1], Z: w.Center[2]}).
			Mul(sdf.RotateY(w.RotationY))
		parts = append(parts, sdf.Transform3D(box, m))
	}

	if len(r.Floor) >= 3 {
		verts := make([]v2.Vec, len(r.Floor))
		for i, p := range r.Floor {
			verts[i] = v2.Vec{X: p.X, Y: p.Y}
		}
		outline, err := sdf.Polygon2D(verts)
		if err != nil {
			return nil, fmt.Errorf("floor outline: %w", err)
		}
		// Extrusion runs along Z; turn it so plan y lands on 3D z and the
		// slab's top face sits at y = 0.
		slab := sdf.Extrude3D(outline, FloorSlab)
		m := sdf.Translate3d(v3.Vec{Y: -FloorSlab / 2}).Mul(sdf.RotateX(math.Pi / 2))
		parts = append(parts, sdf.Transform3D(slab, m))
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("room has no geometry")
	}
	return sdf.Union3D(parts...), nil
}

// SolidMesh tessellates s with marching cubes. A non-positive cells uses
// DefaultSolidCells.
func SolidMesh(s sdf.SDF3, cells int) *Mesh {
	if cells <= 0 {
		cells = DefaultSolidCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := &Mesh{
		Part:     "solid",
		Vertices: make([]float32, 0, len(triangles)*9),
		Normals:  make([]float32, 0, len(triangles)*9),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			m.Normals = append(m.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}
	return m
}
