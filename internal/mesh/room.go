package mesh

import (
	"math"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/polygon"
)

// DefaultWallThickness is the wall depth in meters.
const DefaultWallThickness = 0.1

// WallPlacement positions one wall box in the 3D scene. The box is
// Thickness × Height × Length before rotation, centered on Center, and
// rotated by RotationY radians about the vertical axis.
type WallPlacement struct {
	WallID    string     `json:"wallId"`
	Center    [3]float64 `json:"center"`
	Length    float64    `json:"length"`
	Height    float64    `json:"height"`
	Thickness float64    `json:"thickness"`
	RotationY float64    `json:"rotationY"`
}

// Room is the 3D conversion of a plan.
type Room struct {
	Settings document.RoomSettings `json:"settings"`
	Walls    []WallPlacement       `json:"walls"`
	// Floor is the counterclockwise outline the floor mesh was built from.
	Floor     []geom.Point `json:"floor"`
	WallMesh  *Mesh        `json:"wallMesh"`
	FloorMesh *Mesh        `json:"floorMesh"`
}

type buildConfig struct {
	thickness float64
}

// Option configures Build.
type Option func(*buildConfig)

// WithWallThickness overrides DefaultWallThickness.
func WithWallThickness(t float64) Option {
	return func(c *buildConfig) {
		if t > 0 {
			c.thickness = t
		}
	}
}

// Build converts walls and their boundary into a room. Without walls the
// room gets four walls around a Width × Length rectangle. A boundary of
// fewer than three points gives a rectangular floor of the same size.
func Build(walls []plan.Wall, boundary []geom.Point, settings document.RoomSettings, opts ...Option) *Room {
	cfg := buildConfig{thickness: DefaultWallThickness}
	for _, opt := range opts {
		opt(&cfg)
	}
	settings = settings.Clamp()

	if len(walls) == 0 {
		walls = defaultWalls(settings.Width, settings.Length)
	}

	room := &Room{
		Settings:  settings,
		WallMesh:  &Mesh{Part: "walls"},
		FloorMesh: &Mesh{Part: "floor"},
	}
	for _, w := range walls {
		p := Place(w, settings.Height, cfg.thickness)
		room.Walls = append(room.Walls, p)
		addBox(room.WallMesh, p)
	}

	floor := boundary
	if len(floor) < 3 {
		c := plan.RectangleCorners(settings.Width, settings.Length)
		floor = c[:]
	}
	room.Floor = polygon.EnsureWinding(floor, polygon.CCW)
	addFloor(room.FloorMesh, room.Floor)
	return room
}

func defaultWalls(width, length float64) []plan.Wall {
	c := plan.RectangleCorners(width, length)
	ids := [4]string{"default-wall-1", "default-wall-2", "default-wall-3", "default-wall-4"}
	walls := make([]plan.Wall, 4)
	for i := range walls {
		walls[i] = plan.Wall{ID: ids[i], Start: c[i], End: c[(i+1)%4]}
	}
	return walls
}

// Place computes the 3D placement of w for the given height and thickness.
func Place(w plan.Wall, height, thickness float64) WallPlacement {
	dx := w.End.X - w.Start.X
	dz := w.End.Y - w.Start.Y
	return WallPlacement{
		WallID:    w.ID,
		Center:    [3]float64{(w.Start.X + w.End.X) / 2, height / 2, (w.Start.Y + w.End.Y) / 2},
		Length:    math.Hypot(dx, dz),
		Height:    height,
		Thickness: thickness,
		RotationY: -math.Atan2(dz, dx) + math.Pi/2,
	}
}

// rotateY turns v about the vertical axis; +Z rotates toward +X.
func rotateY(v [3]float64, a float64) [3]float64 {
	s, c := math.Sin(a), math.Cos(a)
	return [3]float64{c*v[0] + s*v[2], v[1], -s*v[0] + c*v[2]}
}

// boxFaces lists each face as normal, u, v with u × v = normal, so corners
// walked -u-v, +u-v, +u+v, -u+v are counterclockwise seen from outside.
var boxFaces = [6][3][3]float64{
	{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
}

func addBox(m *Mesh, p WallPlacement) {
	half := [3]float64{p.Thickness / 2, p.Height / 2, p.Length / 2}
	scale := func(v [3]float64) [3]float64 {
		return [3]float64{v[0] * half[0], v[1] * half[1], v[2] * half[2]}
	}
	for _, f := range boxFaces {
		n, u, v := f[0], scale(f[1]), scale(f[2])
		center := scale(n)
		normal := rotateY(n, p.RotationY)
		var idx [4]uint32
		for i, s := range [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			local := [3]float64{
				center[0] + s[0]*u[0] + s[1]*v[0],
				center[1] + s[0]*u[1] + s[1]*v[1],
				center[2] + s[0]*u[2] + s[1]*v[2],
			}
			world := rotateY(local, p.RotationY)
			world[0] += p.Center[0]
			world[1] += p.Center[1]
			world[2] += p.Center[2]
			idx[i] = m.addVertex(world, normal)
		}
		m.Indices = append(m.Indices, idx[0], idx[1], idx[2], idx[0], idx[2], idx[3])
	}
}

// addFloor triangulates outline at y = 0. A counterclockwise plan triangle
// faces -Y once (x, y) becomes (x, z), so each triangle is emitted reversed.
func addFloor(m *Mesh, outline []geom.Point) {
	up := [3]float64{0, 1, 0}
	base := uint32(m.VertexCount())
	for _, p := range outline {
		m.addVertex([3]float64{p.X, 0, p.Y}, up)
	}
	for _, t := range Triangulate(outline) {
		m.Indices = append(m.Indices, base+uint32(t[0]), base+uint32(t[2]), base+uint32(t[1]))
	}
}

// Combined returns walls and floor as one mesh.
func (r *Room) Combined() *Mesh {
	out := &Mesh{Part: "room"}
	out.Append(r.WallMesh)
	out.Append(r.FloorMesh)
	return out
}
