// Package mesh converts a room plan into 3D geometry: an analytic mesh of
// extruded walls and a triangulated floor, and an SDF solid of the same
// shell for export. Plan coordinates (x, y) map to 3D (x, z); Y is up.
package mesh

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Part     string    `json:"part"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) addVertex(p, n [3]float64) uint32 {
	i := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, float32(p[0]), float32(p[1]), float32(p[2]))
	m.Normals = append(m.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
	return i
}

// Append copies other's geometry into m, re-basing its indices.
func (m *Mesh) Append(other *Mesh) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i uint32) [3]float64 {
	return [3]float64{
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	}
}

// Normal returns the normal stored for vertex i.
func (m *Mesh) Normal(i uint32) [3]float64 {
	return [3]float64{
		float64(m.Normals[3*i]),
		float64(m.Normals[3*i+1]),
		float64(m.Normals[3*i+2]),
	}
}

// FaceNormal returns the unnormalized geometric normal of triangle t,
// following its winding.
func (m *Mesh) FaceNormal(t int) [3]float64 {
	a := m.Vertex(m.Indices[3*t])
	b := m.Vertex(m.Indices[3*t+1])
	c := m.Vertex(m.Indices[3*t+2])
	return cross(sub(b, a), sub(c, a))
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
