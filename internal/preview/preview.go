// Package preview renders a top-down PNG thumbnail of a room plan.
package preview

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/topology"
)

// Options control the rendered image.
type Options struct {
	Size        int
	Margin      float64
	GridEnabled bool
	Background  string
	GridColor   string
	WallColor   string
	FloorColor  string
	PointColor  string
}

// DefaultOptions returns a 512 px square preview with the editor's palette.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Margin:      24,
		GridEnabled: true,
		Background:  "#FFFFFF",
		GridColor:   "#E6E6E6",
		WallColor:   "#333333",
		FloorColor:  "#E0E0E0",
		PointColor:  "#1E88E5",
	}
}

// frame maps plan meters to image pixels, keeping the aspect ratio.
type frame struct {
	scale  float64
	origin geom.Point
	offset geom.Point
}

func (f frame) apply(p geom.Point) (float64, float64) {
	q := p.Sub(f.origin).Scale(f.scale).Add(f.offset)
	return q.X, q.Y
}

func fit(b geom.Bounds, size int, margin float64) frame {
	avail := float64(size) - 2*margin
	if avail <= 0 {
		avail = float64(size)
		margin = 0
	}
	extent := math.Max(b.Width(), b.Length())
	if extent <= 0 {
		extent = 1
	}
	s := avail / extent
	return frame{
		scale:  s,
		origin: geom.Pt(b.MinX, b.MinY),
		offset: geom.Pt(
			margin+(avail-b.Width()*s)/2,
			margin+(avail-b.Length()*s)/2,
		),
	}
}

// Render draws walls, the floor when the analysis reports a closed room,
// and the connection points. An empty plan renders a blank 10 m square.
func Render(walls []plan.Wall, analysis topology.Analysis, opts Options) ([]byte, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}

	b := geom.EmptyBounds()
	for _, w := range walls {
		b = b.Extend(w.Start).Extend(w.End)
	}
	if b.IsEmpty() {
		b = geom.BoundsOf(geom.Pt(-5, -5), geom.Pt(5, 5))
	}
	f := fit(b, opts.Size, opts.Margin)

	dc := gg.NewContext(opts.Size, opts.Size)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(opts.Background))

	if opts.GridEnabled {
		if err := drawGrid(dc, b, f, opts); err != nil {
			return nil, fmt.Errorf("stroke grid: %w", err)
		}
	}

	if analysis.Closed && analysis.Err == nil && len(analysis.Boundary) >= 3 {
		dc.SetHexColor(opts.FloorColor)
		for i, p := range analysis.Boundary {
			x, y := f.apply(p)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill floor: %w", err)
		}
	}

	dc.SetHexColor(opts.WallColor)
	dc.SetLineWidth(math.Max(2, f.scale*0.1))
	for _, w := range walls {
		x1, y1 := f.apply(w.Start)
		x2, y2 := f.apply(w.End)
		dc.DrawLine(x1, y1, x2, y2)
		if err := dc.Stroke(); err != nil {
			return nil, fmt.Errorf("stroke wall %s: %w", w.ID, err)
		}
	}

	dc.SetHexColor(opts.PointColor)
	seen := make(map[geom.Key]bool)
	for _, w := range walls {
		for _, p := range [2]geom.Point{w.Start, w.End} {
			if seen[p.Key()] {
				continue
			}
			seen[p.Key()] = true
			x, y := f.apply(p)
			dc.DrawCircle(x, y, 3)
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("fill point: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawGrid(dc *gg.Context, b geom.Bounds, f frame, opts Options) error {
	dc.SetHexColor(opts.GridColor)
	dc.SetLineWidth(1)
	size := float64(opts.Size)
	// Extend past the plan so the grid fills the margins.
	pad := opts.Margin/f.scale + 1
	for x := math.Floor(b.MinX - pad); x <= math.Ceil(b.MaxX+pad); x++ {
		px, _ := f.apply(geom.Pt(x, 0))
		dc.DrawLine(px, 0, px, size)
	}
	for y := math.Floor(b.MinY - pad); y <= math.Ceil(b.MaxY+pad); y++ {
		_, py := f.apply(geom.Pt(0, y))
		dc.DrawLine(0, py, size, py)
	}
	return dc.Stroke()
}

// RenderGraph is Render over a graph's current walls.
func RenderGraph(g *plan.Graph, opts Options) ([]byte, error) {
	walls := g.Walls()
	return Render(walls, topology.Analyze(walls), opts)
}
