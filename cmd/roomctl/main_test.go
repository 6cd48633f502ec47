package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
)

func run(t *testing.T, args ...string) {
	t.Helper()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("roomctl %v: %v", args, err)
	}
}

func TestRectThenExport(t *testing.T) {
	dir := t.TempDir()
	designPath := filepath.Join(dir, "design.json")
	run(t, "rect", "--width", "6", "--length", "4", "--name", "Studio", "-o", designPath)

	data, err := os.ReadFile(designPath)
	if err != nil {
		t.Fatal(err)
	}
	d, err := document.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Studio" || len(d.Walls) != 4 {
		t.Fatalf("design = %q with %d walls", d.Name, len(d.Walls))
	}

	pngPath := filepath.Join(dir, "plan.png")
	run(t, "preview", designPath, "-o", pngPath, "--size", "128")
	img, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Error("preview is not a PNG")
	}

	stlPath := filepath.Join(dir, "room.stl")
	run(t, "mesh", designPath, "-o", stlPath)
	info, err := os.Stat(stlPath)
	if err != nil {
		t.Fatal(err)
	}
	// 80 byte header, triangle count, 50 bytes per triangle.
	if want := int64(84 + 50*50); info.Size() != want {
		t.Errorf("stl size = %d, want %d", info.Size(), want)
	}
}

func TestCloseOpenDesign(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "open.json")
	d := document.NewSampleDesign("design_cli")
	d.Walls = d.Walls[:len(d.Walls)-1]
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "closed.json")
	run(t, "close", in, "-o", out)

	closed, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got, err := document.Parse(closed)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Walls) != len(d.Walls)+1 {
		t.Errorf("walls = %d, want %d", len(got.Walls), len(d.Walls)+1)
	}
}
