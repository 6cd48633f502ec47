package engine

import (
	"errors"
	"log/slog"

	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
	"github.com/roomcraft/roomcraft/backend-go/internal/snap"
)

// State is the interaction mode of a session. Exactly one of Idle, Drawing,
// DraggingEndpoint or DraggingWall.
type State interface {
	Name() string
	state()
}

// Idle waits for a pointer-down.
type Idle struct{}

// Drawing previews a new wall from Start to the snapped pointer.
type Drawing struct {
	Start   geom.Point
	Current geom.Point
}

// DraggingEndpoint moves one end of an existing wall.
type DraggingEndpoint struct {
	WallID string
	End    plan.Endpoint
}

// DraggingWall translates a whole wall. GrabOffset is the pointer position
// relative to the wall start at pointer-down.
type DraggingWall struct {
	WallID     string
	GrabOffset geom.Point
}

func (Idle) Name() string             { return "idle" }
func (Drawing) Name() string          { return "drawing" }
func (DraggingEndpoint) Name() string { return "dragging-endpoint" }
func (DraggingWall) Name() string     { return "dragging-wall" }

func (Idle) state()             {}
func (Drawing) state()          {}
func (DraggingEndpoint) state() {}
func (DraggingWall) state()     {}

// session is the interaction state owned by one engine.
type session struct {
	state    State
	selected string
	hovered  string
	lastSnap snap.Result
}

func newSession() session {
	return session{state: Idle{}, lastSnap: snap.Result{Kind: snap.KindNone}}
}

// State returns the current interaction state.
func (e *Engine) State() State {
	return e.session.state
}

// Selected returns the selected wall id, or "".
func (e *Engine) Selected() string {
	return e.session.selected
}

// Hovered returns the wall under the pointer while idle, or "".
func (e *Engine) Hovered() string {
	return e.session.hovered
}

// LastSnap returns the most recent snap result.
func (e *Engine) LastSnap() snap.Result {
	return e.session.lastSnap
}

// Select marks a wall as selected. An unknown id clears the selection.
func (e *Engine) Select(id string) {
	if _, ok := e.graph.Get(id); !ok {
		id = ""
	}
	e.session.selected = id
}

func (e *Engine) snapPoint(p geom.Point, exclude ...string) snap.Result {
	if !e.opts.SnapEnabled {
		if e.opts.GridEnabled {
			return snap.Result{Point: p.Round(), Kind: snap.KindGrid}
		}
		return snap.Result{Point: p, Kind: snap.KindNone}
	}
	idx := snap.NewIndex(e.graph.Walls(), e.opts.SnapDistance, exclude...)
	return idx.Snap(p, e.opts.GridEnabled)
}

// PointerDown starts a gesture at p in room meters. It is ignored unless
// the session is idle.
func (e *Engine) PointerDown(p geom.Point) {
	if !p.IsFinite() {
		slog.Debug("pointer down ignored", "point", p)
		return
	}
	if _, ok := e.session.state.(Idle); !ok {
		slog.Debug("pointer down ignored", "state", e.session.state.Name())
		return
	}

	for _, w := range e.graph.Walls() {
		for _, end := range [2]plan.Endpoint{plan.Start, plan.End} {
			if w.Point(end).Distance(p) < e.opts.SnapDistance {
				e.session.state = DraggingEndpoint{WallID: w.ID, End: end}
				e.session.selected = w.ID
				return
			}
		}
	}

	if w, ok := e.graph.FindWallNearPoint(p, plan.DefaultHitThreshold); ok {
		if e.session.selected == w.ID {
			e.session.state = DraggingWall{WallID: w.ID, GrabOffset: p.Sub(w.Start)}
		} else {
			e.session.selected = w.ID
		}
		return
	}

	s := e.snapPoint(p)
	e.session.lastSnap = s
	e.session.selected = ""
	e.session.state = Drawing{Start: s.Point, Current: s.Point}
}

// PointerMove updates the active gesture, or hover while idle.
func (e *Engine) PointerMove(p geom.Point) {
	if !p.IsFinite() {
		return
	}
	switch st := e.session.state.(type) {
	case Idle:
		e.session.hovered = ""
		if w, ok := e.graph.FindWallNearPoint(p, plan.DefaultHitThreshold); ok {
			e.session.hovered = w.ID
		}
		e.session.lastSnap = e.snapPoint(p)

	case Drawing:
		s := e.snapPoint(p)
		e.session.lastSnap = s
		st.Current = s.Point
		e.session.state = st

	case DraggingEndpoint:
		w, ok := e.graph.Get(st.WallID)
		if !ok {
			e.session.state = Idle{}
			return
		}
		s := e.snapPoint(p, st.WallID)
		e.session.lastSnap = s
		moved := w.WithPoint(st.End, s.Point)
		e.applyDrag(st.WallID, moved.Start, moved.End)

	case DraggingWall:
		w, ok := e.graph.Get(st.WallID)
		if !ok {
			e.session.state = Idle{}
			return
		}
		s := e.snapPoint(p.Sub(st.GrabOffset), st.WallID)
		e.session.lastSnap = s
		delta := s.Point.Sub(w.Start)
		e.applyDrag(st.WallID, w.Start.Add(delta), w.End.Add(delta))
	}
}

func (e *Engine) applyDrag(id string, start, end geom.Point) {
	err := e.graph.UpdateWall(id, start, end)
	switch {
	case err == nil:
	case errors.Is(err, plan.ErrDegenerateWall):
		// The wall keeps its last valid position.
	default:
		slog.Debug("drag aborted", "wall", id, "error", err)
		e.session.state = Idle{}
	}
}

// PointerUp ends the active gesture. Finishing a drawing longer than the
// minimum wall length adds a wall and returns its id; each end is first
// moved onto the nearest existing connection point.
func (e *Engine) PointerUp(p geom.Point) (string, error) {
	st := e.session.state
	e.session.state = Idle{}

	d, ok := st.(Drawing)
	if !ok {
		return "", nil
	}
	s := e.snapPoint(p)
	e.session.lastSnap = s
	d.Current = s.Point

	if d.Start.Distance(d.Current) <= e.graph.MinLength() {
		e.session.selected = ""
		return "", nil
	}

	idx := snap.NewIndex(e.graph.Walls(), e.opts.SnapDistance)
	start, end := d.Start, d.Current
	if c, ok := idx.NearestConnectionPoint(start); ok {
		start = c
	}
	if c, ok := idx.NearestConnectionPoint(end); ok {
		end = c
	}
	return e.graph.AddWall(start, end)
}

// Cancel abandons the active gesture. A pending drawing is discarded; a
// drag keeps whatever position it last applied.
func (e *Engine) Cancel() {
	e.session.state = Idle{}
}

// DeleteSelected removes the selected wall. It only acts while idle and
// reports whether a wall was removed.
func (e *Engine) DeleteSelected() bool {
	if _, ok := e.session.state.(Idle); !ok || e.session.selected == "" {
		return false
	}
	id := e.session.selected
	if _, ok := e.graph.Get(id); !ok {
		e.session.selected = ""
		return false
	}
	e.graph.RemoveWall(id)
	e.session.selected = ""
	if e.session.hovered == id {
		e.session.hovered = ""
	}
	return true
}

// CanvasPointerDown is PointerDown in canvas pixels.
func (e *Engine) CanvasPointerDown(px, py float64) {
	e.PointerDown(e.opts.Viewport.ToRoom(px, py))
}

// CanvasPointerMove is PointerMove in canvas pixels.
func (e *Engine) CanvasPointerMove(px, py float64) {
	e.PointerMove(e.opts.Viewport.ToRoom(px, py))
}

// CanvasPointerUp is PointerUp in canvas pixels.
func (e *Engine) CanvasPointerUp(px, py float64) (string, error) {
	return e.PointerUp(e.opts.Viewport.ToRoom(px, py))
}

// SessionSnapshot is the JSON view of the interaction state.
type SessionSnapshot struct {
	State    string         `json:"state"`
	Selected string         `json:"selectedWallId,omitempty"`
	Hovered  string         `json:"hoveredWallId,omitempty"`
	Snap     snap.Result    `json:"snap"`
	Preview  *[2]geom.Point `json:"preview,omitempty"`
	WallID   string         `json:"wallId,omitempty"`
	End      string         `json:"end,omitempty"`
}

func (e *Engine) sessionSnapshot() SessionSnapshot {
	s := SessionSnapshot{
		State:    e.session.state.Name(),
		Selected: e.session.selected,
		Hovered:  e.session.hovered,
		Snap:     e.session.lastSnap,
	}
	switch st := e.session.state.(type) {
	case Drawing:
		s.Preview = &[2]geom.Point{st.Start, st.Current}
	case DraggingEndpoint:
		s.WallID, s.End = st.WallID, string(st.End)
	case DraggingWall:
		s.WallID = st.WallID
	}
	return s
}
