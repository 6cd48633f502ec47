package engine

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/mesh"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/polygon"
	"github.com/roomcraft/roomcraft/backend-go/internal/snap"
	"github.com/roomcraft/roomcraft/backend-go/internal/topology"
)

// Options tune snapping, validation and the canvas mapping.
type Options struct {
	SnapDistance  float64
	MinWallLength float64
	GridEnabled   bool
	SnapEnabled   bool
	WallThickness float64
	Viewport      Viewport
}

// DefaultOptions returns the editor defaults.
func DefaultOptions() Options {
	return Options{
		SnapDistance:  snap.DefaultDistance,
		MinWallLength: plan.DefaultMinLength,
		GridEnabled:   true,
		SnapEnabled:   true,
		WallThickness: mesh.DefaultWallThickness,
		Viewport:      DefaultViewport(),
	}
}

// Engine is the room editor. It owns the wall graph of one design and the
// interaction session, processes commands from the frontend and answers
// queries about the derived topology. It is not safe for concurrent use.
type Engine struct {
	opts   Options
	design *document.Design
	graph  *plan.Graph

	session session
}

// NewEngine creates an engine holding an empty design.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.SnapDistance <= 0 {
		opts.SnapDistance = def.SnapDistance
	}
	if opts.MinWallLength <= 0 {
		opts.MinWallLength = def.MinWallLength
	}
	if opts.WallThickness <= 0 {
		opts.WallThickness = def.WallThickness
	}
	if opts.Viewport.GridSize <= 0 {
		opts.Viewport.GridSize = def.Viewport.GridSize
	}
	e := &Engine{opts: opts}
	e.reset(document.NewEmptyDesign("", "Untitled"), plan.NewGraph(plan.WithMinLength(opts.MinWallLength)))
	return e
}

func (e *Engine) reset(d *document.Design, g *plan.Graph) {
	e.design = d
	e.graph = g
	e.session = newSession()
}

// Options returns the engine configuration.
func (e *Engine) Options() Options {
	return e.opts
}

// SetGridEnabled toggles integer-grid snapping.
func (e *Engine) SetGridEnabled(on bool) {
	e.opts.GridEnabled = on
}

// SetSnapEnabled toggles connection-point and on-wall snapping.
func (e *Engine) SetSnapEnabled(on bool) {
	e.opts.SnapEnabled = on
}

// SetViewport changes the canvas size and scale.
func (e *Engine) SetViewport(v Viewport) {
	e.opts.Viewport = v
}

// Graph exposes the wall graph for callers that batch mutations.
func (e *Engine) Graph() *plan.Graph {
	return e.graph
}

// --- Wall graph ---

// Walls returns the walls in insertion order.
func (e *Engine) Walls() []plan.Wall {
	return e.graph.Walls()
}

// AddWall adds a wall between two points.
func (e *Engine) AddWall(start, end geom.Point) (string, error) {
	return e.graph.AddWall(start, end)
}

// UpdateWall moves both endpoints of an existing wall.
func (e *Engine) UpdateWall(id string, start, end geom.Point) error {
	return e.graph.UpdateWall(id, start, end)
}

// RemoveWall deletes a wall and drops it from the selection.
func (e *Engine) RemoveWall(id string) {
	e.graph.RemoveWall(id)
	if e.session.selected == id {
		e.session.selected = ""
	}
	if e.session.hovered == id {
		e.session.hovered = ""
	}
}

// CreateRectangularRoom replaces all walls with a width × length rectangle
// centered on the origin.
func (e *Engine) CreateRectangularRoom(width, length float64) ([]string, error) {
	ids, err := e.graph.CreateRectangularRoom(width, length)
	if err != nil {
		return nil, err
	}
	e.session = newSession()
	return ids, nil
}

// CloseRoom joins the two open endpoints, if there are exactly two.
func (e *Engine) CloseRoom() (string, error) {
	return e.graph.CloseRoom()
}

// --- Derived topology ---

// IsClosed reports whether the walls enclose a room.
func (e *Engine) IsClosed() bool {
	return topology.IsClosed(e.graph.Walls())
}

// OrderedBoundary returns the room outline, or an empty slice while the
// room is open.
func (e *Engine) OrderedBoundary() []geom.Point {
	res := topology.Analyze(e.graph.Walls())
	if !res.Closed {
		return []geom.Point{}
	}
	return res.Boundary
}

// Area returns the enclosed floor area in square meters, 0 while open.
func (e *Engine) Area() float64 {
	return polygon.Area(e.OrderedBoundary())
}

// BoundingBox returns the extent of all wall endpoints. It is the zero box
// when there are no walls.
func (e *Engine) BoundingBox() geom.Bounds {
	b, _ := e.graph.BoundingBox()
	return b
}

// Analysis is every derived property of the current walls.
type Analysis struct {
	WallCount  int             `json:"wallCount"`
	PointCount int             `json:"pointCount"`
	Closed     bool            `json:"closed"`
	Components int             `json:"components"`
	Boundary   []geom.Point    `json:"boundary"`
	Area       float64         `json:"area"`
	Perimeter  float64         `json:"perimeter"`
	Winding    polygon.Winding `json:"winding,omitempty"`
	Centroid   *geom.Point     `json:"centroid,omitempty"`
	Bounds     geom.Bounds     `json:"bounds"`
	// OpenEndpoints lists endpoints touched by a single wall.
	OpenEndpoints []geom.Point `json:"openEndpoints"`
	// Err is a *topology.AmbiguousTopologyError when several loops exist.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Analyze derives closure, boundary and metrics from walls.
func Analyze(walls []plan.Wall) Analysis {
	t := topology.Analyze(walls)
	a := Analysis{
		WallCount:     t.WallCount,
		PointCount:    t.PointCount,
		Closed:        t.Closed,
		Components:    t.Components,
		Boundary:      []geom.Point{},
		OpenEndpoints: []geom.Point{},
		Err:           t.Err,
	}
	if len(walls) > 0 {
		b := geom.EmptyBounds()
		for _, w := range walls {
			b = b.Extend(w.Start).Extend(w.End)
		}
		a.Bounds = b
	}
	if open := topology.Build(walls).OpenEnds(); open != nil {
		a.OpenEndpoints = open
	}
	if t.Err != nil {
		a.Error = t.Err.Error()
	}
	if !t.Closed {
		return a
	}
	a.Boundary = t.Boundary
	a.Area = polygon.Area(t.Boundary)
	a.Perimeter = polygon.Perimeter(t.Boundary)
	a.Winding = polygon.WindingOf(t.Boundary)
	c := polygon.Centroid(t.Boundary)
	a.Centroid = &c
	return a
}

// Analysis analyzes the current walls.
func (e *Engine) Analysis() Analysis {
	return Analyze(e.graph.Walls())
}

// --- Room settings and 3D ---

// Room returns the current room settings.
func (e *Engine) Room() document.RoomSettings {
	return e.design.Room
}

// SetRoom replaces the room settings, clamped.
func (e *Engine) SetRoom(s document.RoomSettings) {
	e.design.Room = s.Clamp()
}

// ApplyPreset sets the room settings from a named preset.
func (e *Engine) ApplyPreset(key string) error {
	p, err := document.LookupPreset(key)
	if err != nil {
		return err
	}
	e.design.Room = p.Settings
	return nil
}

// ProceedTo3D sizes the room from the wall bounding box and converts the
// plan into 3D. An empty plan keeps the current room size.
func (e *Engine) ProceedTo3D() *mesh.Room {
	walls := e.graph.Walls()
	if b, ok := e.graph.BoundingBox(); ok {
		e.design.Room.Width = b.Width()
		e.design.Room.Length = b.Length()
	}
	e.design.Room = e.design.Room.Clamp()
	// Several loops fall back to the rectangular floor over the bounding box.
	var outline []geom.Point
	if res := topology.Analyze(walls); res.Closed && res.Err == nil {
		outline = res.Boundary
	}
	return mesh.Build(walls, outline, e.design.Room, mesh.WithWallThickness(e.opts.WallThickness))
}

// --- Commands (frontend → backend) ---

// LoadDocument loads a design from JSON, replacing walls and session.
func (e *Engine) LoadDocument(jsonData string) error {
	d, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.LoadDesign(d)
}

// LoadDesign replaces walls, room settings and session with those of d.
// On error the engine is left unchanged.
func (e *Engine) LoadDesign(d *document.Design) error {
	g, err := d.Graph(plan.WithMinLength(e.opts.MinWallLength))
	if err != nil {
		return err
	}
	e.reset(d, g)
	return nil
}

// LoadSampleDocument loads the built-in L-shaped sample.
func (e *Engine) LoadSampleDocument(designID string) {
	d := document.NewSampleDesign(designID)
	g, err := d.Graph(plan.WithMinLength(e.opts.MinWallLength))
	if err != nil {
		// The sample walls are all longer than any sane minimum.
		g = plan.NewGraph(plan.WithMinLength(e.opts.MinWallLength))
	}
	e.reset(d, g)
}

// Design returns the current design with walls synced from the graph.
func (e *Engine) Design() *document.Design {
	d := *e.design
	d.Walls = e.graph.Walls()
	if d.Walls == nil {
		d.Walls = []plan.Wall{}
	}
	d.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return &d
}

// --- Queries (frontend ← backend) ---

// GetDocument returns the design as JSON.
func (e *Engine) GetDocument() (string, error) {
	return marshalString(e.Design())
}

// GetWalls returns the walls as JSON.
func (e *Engine) GetWalls() (string, error) {
	walls := e.graph.Walls()
	if walls == nil {
		walls = []plan.Wall{}
	}
	return marshalString(walls)
}

// GetAnalysis returns the analysis as JSON.
func (e *Engine) GetAnalysis() (string, error) {
	return marshalString(e.Analysis())
}

// GetSession returns the interaction state as JSON.
func (e *Engine) GetSession() (string, error) {
	return marshalString(e.sessionSnapshot())
}

// GetRoom3D converts to 3D and returns the room as JSON.
func (e *Engine) GetRoom3D() (string, error) {
	return marshalString(e.ProceedTo3D())
}

// Render returns the draw command buffer as JSON.
func (e *Engine) Render() (string, error) {
	return DrawCommandsToJSON(e.DrawCommands())
}

func marshalString(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(data), nil
}

// HitTest returns the id of the wall under a canvas position, or "".
func (e *Engine) HitTest(px, py float64) string {
	p := e.opts.Viewport.ToRoom(px, py)
	if w, ok := e.graph.FindWallNearPoint(p, plan.DefaultHitThreshold); ok {
		return w.ID
	}
	return ""
}
