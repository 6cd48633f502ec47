package mesh

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/polygon"
)

func lShape() []geom.Point {
	return []geom.Point{
		geom.Pt(0, 0), geom.Pt(4, 0), geom.Pt(4, 1),
		geom.Pt(1, 1), geom.Pt(1, 4), geom.Pt(0, 4),
	}
}

func ring(points []geom.Point) []plan.Wall {
	walls := make([]plan.Wall, len(points))
	for i := range points {
		walls[i] = plan.Wall{ID: string(rune('a' + i)), Start: points[i], End: points[(i+1)%len(points)]}
	}
	return walls
}

func TestTriangulateCoversArea(t *testing.T) {
	for _, pts := range [][]geom.Point{lShape(), polygon.Reverse(lShape())} {
		tris := Triangulate(pts)
		if len(tris) != len(pts)-2 {
			t.Fatalf("triangles = %d, want %d", len(tris), len(pts)-2)
		}
		total := 0.0
		for _, tri := range tris {
			a := polygon.SignedArea([]geom.Point{pts[tri[0]], pts[tri[1]], pts[tri[2]]})
			if a <= 0 {
				t.Errorf("triangle %v is not counterclockwise (area %f)", tri, a)
			}
			total += a
		}
		if math.Abs(total-polygon.Area(pts)) > 1e-9 {
			t.Errorf("triangle area sum = %f, want %f", total, polygon.Area(pts))
		}
	}
}

func TestTriangulateTooFewPoints(t *testing.T) {
	if got := Triangulate([]geom.Point{geom.Pt(0, 0), geom.Pt(1, 0)}); got != nil {
		t.Errorf("Triangulate = %v, want nil", got)
	}
}

func TestPlaceWall(t *testing.T) {
	tests := []struct {
		name     string
		wall     plan.Wall
		center   [3]float64
		length   float64
		rotation float64
	}{
		{"along x", plan.Wall{Start: geom.Pt(0, 0), End: geom.Pt(4, 0)}, [3]float64{2, 1.5, 0}, 4, math.Pi / 2},
		{"along z", plan.Wall{Start: geom.Pt(1, 0), End: geom.Pt(1, 6)}, [3]float64{1, 1.5, 3}, 6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Place(tt.wall, 3, 0.1)
			if p.Center != tt.center {
				t.Errorf("center = %v, want %v", p.Center, tt.center)
			}
			if math.Abs(p.Length-tt.length) > 1e-9 {
				t.Errorf("length = %f, want %f", p.Length, tt.length)
			}
			if math.Abs(p.RotationY-tt.rotation) > 1e-9 {
				t.Errorf("rotation = %f, want %f", p.RotationY, tt.rotation)
			}
		})
	}
}

func TestBuildWallBoxes(t *testing.T) {
	room := Build(ring(lShape()), lShape(), document.DefaultRoomSettings())
	if len(room.Walls) != 6 {
		t.Fatalf("placements = %d, want 6", len(room.Walls))
	}
	if room.WallMesh.VertexCount() != 6*24 || room.WallMesh.TriangleCount() != 6*12 {
		t.Errorf("wall mesh = %d verts / %d tris", room.WallMesh.VertexCount(), room.WallMesh.TriangleCount())
	}
	for tri := 0; tri < room.WallMesh.TriangleCount(); tri++ {
		face := room.WallMesh.FaceNormal(tri)
		stored := room.WallMesh.Normal(room.WallMesh.Indices[3*tri])
		if dot(face, stored) <= 0 {
			t.Fatalf("triangle %d winding disagrees with its normal", tri)
		}
	}

	// A wall along +X spans its length on X and its thickness on Z.
	first := room.WallMesh
	minX, maxX := math.Inf(1), math.Inf(-1)
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i := uint32(0); i < 24; i++ {
		v := first.Vertex(i)
		minX, maxX = math.Min(minX, v[0]), math.Max(maxX, v[0])
		minZ, maxZ = math.Min(minZ, v[2]), math.Max(maxZ, v[2])
	}
	if math.Abs(maxX-minX-4) > 1e-5 || math.Abs(maxZ-minZ-DefaultWallThickness) > 1e-5 {
		t.Errorf("first wall extent x=%f z=%f", maxX-minX, maxZ-minZ)
	}
}

func TestFloorFacesUp(t *testing.T) {
	for _, outline := range [][]geom.Point{lShape(), polygon.Reverse(lShape())} {
		room := Build(ring(outline), outline, document.DefaultRoomSettings())
		fm := room.FloorMesh
		if fm.TriangleCount() != len(outline)-2 {
			t.Fatalf("floor triangles = %d", fm.TriangleCount())
		}
		for tri := 0; tri < fm.TriangleCount(); tri++ {
			n := fm.FaceNormal(tri)
			if n[1] <= 0 {
				t.Errorf("floor triangle %d normal = %v, want +Y", tri, n)
			}
		}
		if polygon.WindingOf(room.Floor) != polygon.CCW {
			t.Error("floor outline should be counterclockwise")
		}
	}
}

func TestBuildFallbacks(t *testing.T) {
	settings := document.DefaultRoomSettings()
	settings.Width, settings.Length = 6, 4

	room := Build(nil, nil, settings)
	if len(room.Walls) != 4 {
		t.Fatalf("default walls = %d, want 4", len(room.Walls))
	}
	if got := polygon.Area(room.Floor); math.Abs(got-24) > 1e-9 {
		t.Errorf("fallback floor area = %f, want 24", got)
	}
}

func TestBuildClampsSettings(t *testing.T) {
	s := document.DefaultRoomSettings()
	s.Height = 12
	room := Build(nil, nil, s)
	if room.Walls[0].Height != document.MaxRoomHeight {
		t.Errorf("height = %f, want %f", room.Walls[0].Height, document.MaxRoomHeight)
	}
}

func TestWriteSTL(t *testing.T) {
	room := Build(ring(lShape()), lShape(), document.DefaultRoomSettings())
	m := room.Combined()

	var buf bytes.Buffer
	if err := WriteSTL(&buf, m, "room"); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	want := 84 + 50*m.TriangleCount()
	if buf.Len() != want {
		t.Fatalf("stl size = %d, want %d", buf.Len(), want)
	}
	if got := binary.LittleEndian.Uint32(buf.Bytes()[80:84]); int(got) != m.TriangleCount() {
		t.Errorf("triangle count = %d, want %d", got, m.TriangleCount())
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("room")) {
		t.Error("header should start with the name")
	}
}

func TestSolidMesh(t *testing.T) {
	room := Build(ring(lShape()), lShape(), document.DefaultRoomSettings())
	s, err := Solid(room)
	if err != nil {
		t.Fatalf("Solid: %v", err)
	}
	bb := s.BoundingBox()
	if bb.Max.Y < 2.9 || bb.Min.Y > -FloorSlab+1e-6 {
		t.Errorf("solid bounds y = [%f, %f]", bb.Min.Y, bb.Max.Y)
	}
	m := SolidMesh(s, 40)
	if m.IsEmpty() {
		t.Fatal("solid mesh is empty")
	}
	if len(m.Vertices) != len(m.Normals) || len(m.Indices) != m.TriangleCount()*3 {
		t.Error("inconsistent mesh arrays")
	}
}
