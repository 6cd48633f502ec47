package collab

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

var ErrInvalidOperation = errors.New("invalid operation")

// DocumentState holds the authoritative design state for a room
type DocumentState struct {
	mu        sync.RWMutex
	design    document.Design // everything but the walls
	graph     *plan.Graph
	serverSeq int64
	savedSeq  int64
}

// NewDocumentState loads doc's walls into a graph enforcing minLength.
func NewDocumentState(doc *document.Design, minLength float64) (*DocumentState, error) {
	g, err := doc.Graph(plan.WithMinLength(minLength))
	if err != nil {
		return nil, err
	}
	d := *doc
	d.Walls = nil
	return &DocumentState{design: d, graph: g}, nil
}

// Snapshot returns a copy of the current design and the sequence it reflects.
func (ds *DocumentState) Snapshot() (*document.Design, int64) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	d := ds.design
	d.Walls = ds.graph.Walls()
	if d.Walls == nil {
		d.Walls = []plan.Wall{}
	}
	return &d, ds.serverSeq
}

// Dirty reports whether operations were applied since the last MarkSaved.
func (ds *DocumentState) Dirty() bool {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.serverSeq > ds.savedSeq
}

// MarkSaved records that the snapshot taken at seq has been persisted.
func (ds *DocumentState) MarkSaved(seq int64) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if seq > ds.savedSeq {
		ds.savedSeq = seq
	}
}

// ApplyOperation applies an operation to the design and returns the server
// sequence and the ids of any walls it created. A failed operation changes
// nothing and does not consume a sequence number.
func (ds *DocumentState) ApplyOperation(op Operation) (int64, []string, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	created, err := ds.applyOperationLocked(op)
	if err != nil {
		return 0, nil, err
	}

	ds.serverSeq++
	ds.design.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return ds.serverSeq, created, nil
}

// applyOperationLocked applies the operation without locking (caller must hold lock)
func (ds *DocumentState) applyOperationLocked(op Operation) ([]string, error) {
	switch op.Type {
	case OpWallAdd:
		return ds.applyWallAdd(op)
	case OpWallUpdate:
		return nil, ds.applyWallUpdate(op)
	case OpWallRemove:
		return nil, ds.applyWallRemove(op)
	case OpRoomRectangle:
		return ds.graph.CreateRectangularRoom(op.Width, op.Length)
	case OpRoomClose:
		return ds.applyRoomClose()
	case OpRoomSettings:
		return nil, ds.applyRoomSettings(op)
	case OpRoomPreset:
		return nil, ds.applyRoomPreset(op)
	case OpDesignRename:
		return nil, ds.applyRename(op)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidOperation, op.Type)
	}
}

func (ds *DocumentState) applyWallAdd(op Operation) ([]string, error) {
	if op.Start == nil || op.End == nil {
		return nil, fmt.Errorf("%w: wall.add needs start and end", ErrInvalidOperation)
	}
	id, err := ds.graph.AddWall(*op.Start, *op.End)
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

func (ds *DocumentState) applyWallUpdate(op Operation) error {
	w, ok := ds.graph.Get(op.WallID)
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrWallNotFound, op.WallID)
	}
	start, end := w.Start, w.End
	if op.Start != nil {
		start = *op.Start
	}
	if op.End != nil {
		end = *op.End
	}
	return ds.graph.UpdateWall(op.WallID, start, end)
}

func (ds *DocumentState) applyWallRemove(op Operation) error {
	if _, ok := ds.graph.Get(op.WallID); !ok {
		return fmt.Errorf("%w: %s", plan.ErrWallNotFound, op.WallID)
	}
	ds.graph.RemoveWall(op.WallID)
	return nil
}

func (ds *DocumentState) applyRoomClose() ([]string, error) {
	id, err := ds.graph.CloseRoom()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: room needs exactly two open endpoints to close", ErrInvalidOperation)
	}
	return []string{id}, nil
}

func (ds *DocumentState) applyRoomSettings(op Operation) error {
	if op.Room == nil {
		return fmt.Errorf("%w: room.settings needs room", ErrInvalidOperation)
	}
	ds.design.Room = op.Room.Clamp()
	return nil
}

func (ds *DocumentState) applyRoomPreset(op Operation) error {
	p, err := document.LookupPreset(op.Preset)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	ds.design.Room = p.Settings
	return nil
}

func (ds *DocumentState) applyRename(op Operation) error {
	name := strings.TrimSpace(op.Name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidOperation)
	}
	ds.design.Name = name
	return nil
}

// GetServerTimestamp returns the current server timestamp
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
