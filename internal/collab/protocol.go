package collab

import (
	"encoding/json"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/geom"
)

type Message struct {
	Type     string          `json:"type"`
	DesignID string          `json:"designId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// CursorPos is in room meters.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// DocSyncPayload carries the full design and the sequence it reflects.
type DocSyncPayload struct {
	Document  *document.Design `json:"document"`
	ServerSeq int64            `json:"serverSeq"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync    = "doc.sync"
	TypeDocRequest = "doc.request"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types.
const (
	OpWallAdd       = "wall.add"
	OpWallUpdate    = "wall.update"
	OpWallRemove    = "wall.remove"
	OpRoomRectangle = "room.rectangle"
	OpRoomClose     = "room.close"
	OpRoomSettings  = "room.settings"
	OpRoomPreset    = "room.preset"
	OpDesignRename  = "design.rename"
)

// --- Operation Types ---

// Operation represents a design mutation
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// For wall.add / wall.update / wall.remove
	WallID string      `json:"wallId,omitempty"`
	Start  *geom.Point `json:"start,omitempty"`
	End    *geom.Point `json:"end,omitempty"`

	// For room.rectangle
	Width  float64 `json:"width,omitempty"`
	Length float64 `json:"length,omitempty"`

	// For room.settings / room.preset
	Room   *document.RoomSettings `json:"room,omitempty"`
	Preset string                 `json:"preset,omitempty"`

	// For design.rename
	Name string `json:"name,omitempty"`

	// Set by the server: ids of walls the operation created.
	WallIDs []string `json:"wallIds,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string   `json:"operationId"`
	ServerSeq       int64    `json:"serverSeq"`
	ServerTimestamp int64    `json:"serverTimestamp"`
	WallIDs         []string `json:"wallIds,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}
