package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
// All coordinates are canvas pixels.
type DrawCommand struct {
	Op          string        `json:"op"`                    // Operation: "path", "circle", "text"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        string        `json:"fill,omitempty"`        // Fill color
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // Stroke width
	Dash        []float64     `json:"dash,omitempty"`        // Line dash pattern
	X           float64       `json:"x,omitempty"`           // Circle center / text anchor
	Y           float64       `json:"y,omitempty"`
	Radius      float64       `json:"radius,omitempty"`
	Text        string        `json:"text,omitempty"`
	Font        string        `json:"font,omitempty"`
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []interface{}

const (
	colorGrid       = "#EEEEEE"
	colorFloor      = "rgba(33, 150, 243, 0.1)"
	colorWall       = "#333333"
	colorSelected   = "#2196F3"
	colorHovered    = "#64B5F6"
	colorPoint      = "#666666"
	colorPreview    = "#2196F3"
	colorSnap       = "#4CAF50"
	colorLabel      = "#333333"
	labelFont       = "12px sans-serif"
	areaFont        = "bold 14px sans-serif"
	pointRadius     = 4
	snapRadius      = 8
	labelOffsetPx   = 12
	minWallStrokePx = 3
)

// DrawCommands builds the frame in painter's order: grid, floor, walls,
// length labels, connection points, drawing preview, snap indicator and
// area label.
func (e *Engine) DrawCommands() []DrawCommand {
	vp := e.opts.Viewport
	walls := e.graph.Walls()
	var commands []DrawCommand

	if e.opts.GridEnabled {
		commands = append(commands, e.gridCommand())
	}

	// An ambiguous walk covers only one loop, so it is not drawn as the room.
	analysis := Analyze(walls)
	room := analysis.Closed && analysis.Err == nil
	if room && len(analysis.Boundary) >= 3 {
		commands = append(commands, DrawCommand{
			Op:       "path",
			ObjectID: "floor",
			Path:     polygonPath(vp, analysis.Boundary),
			Fill:     colorFloor,
		})
	}

	wallWidth := math.Max(minWallStrokePx, e.opts.WallThickness*vp.gridSize())
	for _, w := range walls {
		stroke := colorWall
		switch w.ID {
		case e.session.selected:
			stroke = colorSelected
		case e.session.hovered:
			stroke = colorHovered
		}
		commands = append(commands, DrawCommand{
			Op:          "path",
			ObjectID:    w.ID,
			Path:        linePath(vp, w.Start, w.End),
			Stroke:      stroke,
			StrokeWidth: wallWidth,
		})
	}
	for _, w := range walls {
		commands = append(commands, lengthLabel(vp, w.ID, w.Start, w.End))
	}

	for _, p := range e.graph.ConnectionPoints() {
		c := vp.ToCanvas(p)
		commands = append(commands, DrawCommand{Op: "circle", X: c.X, Y: c.Y, Radius: pointRadius, Fill: colorPoint})
	}

	if d, ok := e.session.state.(Drawing); ok {
		commands = append(commands, DrawCommand{
			Op:          "path",
			ObjectID:    "preview",
			Path:        linePath(vp, d.Start, d.Current),
			Stroke:      colorPreview,
			StrokeWidth: wallWidth,
			Dash:        []float64{5, 5},
		})
		if d.Start.Distance(d.Current) > 0 {
			commands = append(commands, lengthLabel(vp, "preview", d.Start, d.Current))
		}
	}

	if e.session.lastSnap.Highlighted() {
		c := vp.ToCanvas(e.session.lastSnap.Point)
		commands = append(commands, DrawCommand{
			Op:          "circle",
			ObjectID:    "snap",
			X:           c.X,
			Y:           c.Y,
			Radius:      snapRadius,
			Stroke:      colorSnap,
			StrokeWidth: 2,
		})
	}

	if room && analysis.Centroid != nil {
		c := vp.ToCanvas(*analysis.Centroid)
		commands = append(commands, DrawCommand{
			Op:   "text",
			X:    c.X,
			Y:    c.Y,
			Text: AreaLabel(analysis.Area),
			Font: areaFont,
			Fill: colorLabel,
		})
	}
	return commands
}

func (e *Engine) gridCommand() DrawCommand {
	vp := e.opts.Viewport
	vis := vp.Visible()
	var path []PathCommand
	for x := math.Ceil(vis.MinX); x <= vis.MaxX; x++ {
		a := vp.ToCanvas(geom.Pt(x, vis.MinY))
		b := vp.ToCanvas(geom.Pt(x, vis.MaxY))
		path = append(path, PathCommand{"M", a.X, a.Y}, PathCommand{"L", b.X, b.Y})
	}
	for y := math.Ceil(vis.MinY); y <= vis.MaxY; y++ {
		a := vp.ToCanvas(geom.Pt(vis.MinX, y))
		b := vp.ToCanvas(geom.Pt(vis.MaxX, y))
		path = append(path, PathCommand{"M", a.X, a.Y}, PathCommand{"L", b.X, b.Y})
	}
	return DrawCommand{Op: "path", ObjectID: "grid", Path: path, Stroke: colorGrid, StrokeWidth: 1}
}

func linePath(vp Viewport, a, b geom.Point) []PathCommand {
	ca, cb := vp.ToCanvas(a), vp.ToCanvas(b)
	return []PathCommand{{"M", ca.X, ca.Y}, {"L", cb.X, cb.Y}}
}

func polygonPath(vp Viewport, points []geom.Point) []PathCommand {
	path := make([]PathCommand, 0, len(points)+1)
	for i, p := range points {
		c := vp.ToCanvas(p)
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, PathCommand{op, c.X, c.Y})
	}
	return append(path, PathCommand{"Z"})
}

// lengthLabel places the wall length beside the midpoint, offset along the
// wall normal.
func lengthLabel(vp Viewport, id string, a, b geom.Point) DrawCommand {
	seg := geom.Seg(a, b)
	ca, cb := vp.ToCanvas(a), vp.ToCanvas(b)
	mid := ca.Lerp(cb, 0.5)
	dir := cb.Sub(ca)
	if l := dir.Len(); l > 0 {
		mid = mid.Add(geom.Pt(-dir.Y/l, dir.X/l).Scale(labelOffsetPx))
	}
	return DrawCommand{
		Op:       "text",
		ObjectID: id,
		X:        mid.X,
		Y:        mid.Y,
		Text:     LengthLabel(seg.Length()),
		Font:     labelFont,
		Fill:     colorLabel,
	}
}

// LengthLabel formats a wall length, e.g. "3.0m".
func LengthLabel(meters float64) string {
	return fmt.Sprintf("%.1fm", meters)
}

// AreaLabel formats a floor area, e.g. "Area: 24.0 m²".
func AreaLabel(area float64) string {
	return fmt.Sprintf("Area: %.1f m²", area)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
