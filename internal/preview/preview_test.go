package preview

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/topology"
)

func TestRenderRectangle(t *testing.T) {
	g := plan.NewGraph()
	if _, err := g.CreateRectangularRoom(6, 4); err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Size = 128

	data, err := RenderGraph(g, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 128 {
		t.Errorf("size = %v, want 128x128", b)
	}

	// The room center is floor, not background.
	r, gr, bl, _ := img.At(64, 64).RGBA()
	if r == 0xffff && gr == 0xffff && bl == 0xffff {
		t.Error("center pixel is background; floor was not filled")
	}
}

func TestRenderEmptyPlan(t *testing.T) {
	data, err := Render(nil, topology.Analysis{}, Options{Size: 32})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestFitKeepsAspect(t *testing.T) {
	f := fit(geom.BoundsOf(geom.Pt(0, 0), geom.Pt(10, 5)), 120, 10)
	x0, y0 := f.apply(geom.Pt(0, 0))
	x1, y1 := f.apply(geom.Pt(10, 5))
	if x0 != 10 || x1 != 110 {
		t.Errorf("x range = [%f, %f], want [10, 110]", x0, x1)
	}
	if y1-y0 != 50 {
		t.Errorf("y extent = %f, want 50", y1-y0)
	}
	if y0 != 35 {
		t.Errorf("y offset = %f, want 35 (centered)", y0)
	}
}

func TestRenderGrid(t *testing.T) {
	g := plan.NewGraph()
	if _, err := g.CreateRectangularRoom(6, 4); err != nil {
		t.Fatal(err)
	}
	rendered := make(map[bool][]byte)
	for _, grid := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Size = 96
		opts.GridEnabled = grid
		data, err := RenderGraph(g, opts)
		if err != nil {
			t.Fatalf("grid=%v: Render: %v", grid, err)
		}
		if _, err := png.Decode(bytes.NewReader(data)); err != nil {
			t.Fatalf("grid=%v: decode: %v", grid, err)
		}
		rendered[grid] = data
	}
	if bytes.Equal(rendered[false], rendered[true]) {
		t.Error("grid lines left no trace in the image")
	}
}
