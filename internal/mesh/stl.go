package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteSTL writes m as binary STL: an 80-byte header holding name, the
// triangle count, then normal, three vertices and a zero attribute word per
// triangle. Facet normals are recomputed from the winding.
func WriteSTL(w io.Writer, m *Mesh, name string) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, 80)
	copy(header, name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	count := uint32(m.TriangleCount())
	if err := binary.Write(bw, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for t := 0; t < int(count); t++ {
		var rec struct {
			Normal    [3]float32
			V         [3][3]float32
			Attribute uint16
		}
		n := m.FaceNormal(t)
		if l := math.Sqrt(dot(n, n)); l > 0 {
			rec.Normal = [3]float32{float32(n[0] / l), float32(n[1] / l), float32(n[2] / l)}
		}
		for j := 0; j < 3; j++ {
			v := m.Vertex(m.Indices[3*t+j])
			rec.V[j] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
		}
		if err := binary.Write(bw, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", t, err)
		}
	}
	return bw.Flush()
}
