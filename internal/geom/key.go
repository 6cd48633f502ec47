package geom

import (
	"fmt"
	"math"
)

// DefaultKeyQuantum is the grid a Key is quantized to: one millimeter.
const DefaultKeyQuantum = 0.001

// Key identifies a vertex by position. Two points share a Key when both
// coordinates round to the same multiple of the quantum, which is how walls
// that share an endpoint are recognized as connected.
type Key struct {
	X int64
	Y int64
}

// KeyOf quantizes p to the given quantum. A non-positive quantum falls back
// to DefaultKeyQuantum.
func KeyOf(p Point, quantum float64) Key {
	if quantum <= 0 {
		quantum = DefaultKeyQuantum
	}
	return Key{
		X: int64(math.Round(p.X / quantum)),
		Y: int64(math.Round(p.Y / quantum)),
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%d,%d", k.X, k.Y)
}
