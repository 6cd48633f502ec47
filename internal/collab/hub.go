package collab

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roomcraft/roomcraft/backend-go/internal/document"
	"github.com/roomcraft/roomcraft/backend-go/internal/plan"
)

// DocumentLoader returns the stored design for a room being opened.
type DocumentLoader func(designID string) (*document.Design, error)

// DocumentSaver persists the design of a room.
type DocumentSaver func(designID string, doc *document.Design) error

const DefaultSaveInterval = 30 * time.Second

type Room struct {
	designID string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	doc      *DocumentState
}

func NewRoom(designID string, doc *DocumentState) *Room {
	return &Room{
		designID: designID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		doc:      doc,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // designID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	stopOnce   sync.Once

	loader       DocumentLoader
	saver        DocumentSaver
	saveInterval time.Duration
	minLength    float64
}

type HubOption func(*Hub)

// WithSaveInterval sets how often dirty rooms are persisted.
func WithSaveInterval(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.saveInterval = d
		}
	}
}

// WithMinWallLength sets the shortest wall the rooms accept.
func WithMinWallLength(m float64) HubOption {
	return func(h *Hub) {
		if m > 0 {
			h.minLength = m
		}
	}
}

func NewHub(loader DocumentLoader, saver DocumentSaver, opts ...HubOption) *Hub {
	h := &Hub{
		rooms:        make(map[string]*Room),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		loader:       loader,
		saver:        saver,
		saveInterval: DefaultSaveInterval,
		minLength:    plan.DefaultMinLength,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run serializes joins and leaves and saves dirty rooms periodically until
// Stop is called.
func (h *Hub) Run() {
	defer close(h.done)

	ticker := time.NewTicker(h.saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirty()
		case <-h.stop:
			h.saveDirty()
			return
		}
	}
}

// Stop saves every dirty room and ends Run. It blocks until Run returns.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) openRoom(designID string) (*Room, error) {
	h.mu.RLock()
	room, ok := h.rooms[designID]
	h.mu.RUnlock()
	if ok {
		return room, nil
	}

	doc, err := h.loader(designID)
	if err != nil {
		return nil, fmt.Errorf("load design %s: %w", designID, err)
	}
	state, err := NewDocumentState(doc, h.minLength)
	if err != nil {
		return nil, fmt.Errorf("open design %s: %w", designID, err)
	}
	room = NewRoom(designID, state)

	h.mu.Lock()
	h.rooms[designID] = room
	h.mu.Unlock()
	return room, nil
}

func (h *Hub) addClient(client *Client) {
	room, err := h.openRoom(client.DesignID)
	if err != nil {
		slog.Error("open room", "error", err, "design", client.DesignID)
		client.Send(errorMessage("could not load design"))
		client.close()
		return
	}

	h.mu.Lock()
	room.clients[client.ClientID] = client
	h.mu.Unlock()
	room.presence.Join(client.UserID, client.DisplayName)

	welcome, _ := json.Marshal(WelcomePayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})
	client.Send(syncMessage(room))

	// Send current presence state to new client
	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.DesignID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.close()
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.DesignID)
	}
	h.mu.Unlock()

	if room.presence.Leave(client.UserID) {
		leavePayload, _ := json.Marshal(PresenceLeavePayload{
			UserID: client.UserID,
		})
		leaveMsg := &Message{
			Type:    TypePresenceLeave,
			UserID:  client.UserID,
			Payload: leavePayload,
		}
		h.broadcastToRoom(client.DesignID, leaveMsg, "")
	}

	if empty {
		h.saveRoom(room)
	}

	slog.Info("client left", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	case TypeDocRequest:
		if room := h.room(sender.DesignID); room != nil {
			sender.Send(syncMessage(room))
		}
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) room(designID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[designID]
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room := h.room(sender.DesignID)
	if room == nil {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.DesignID, outMsg, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		sender.Send(nackMessage("", "invalid payload"))
		return
	}
	op := submit.Operation

	room := h.room(sender.DesignID)
	if room == nil {
		sender.Send(nackMessage(op.ID, "room closed"))
		return
	}

	seq, created, err := room.doc.ApplyOperation(op)
	if err != nil {
		slog.Debug("operation rejected", "op", op.Type, "error", err, "user", sender.UserID)
		sender.Send(nackMessage(op.ID, err.Error()))
		return
	}
	if op.Type == OpWallRemove {
		room.presence.Deselect(op.WallID)
	}

	now := GetServerTimestamp()
	ackPayload, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: now,
		WallIDs:         created,
	})
	sender.Send(&Message{Type: TypeOpAck, Seq: seq, Payload: ackPayload})

	op.WallIDs = created
	op.Timestamp = now
	outPayload, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: seq,
	})
	h.broadcastToRoom(sender.DesignID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Seq:     seq,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(designID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[designID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveDirty() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if h.saver == nil || !room.doc.Dirty() {
		return
	}
	doc, seq := room.doc.Snapshot()
	if err := h.saver(room.designID, doc); err != nil {
		slog.Error("save design", "error", err, "design", room.designID)
		return
	}
	room.doc.MarkSaved(seq)
	slog.Info("design saved", "design", room.designID, "seq", seq)
}

func syncMessage(room *Room) *Message {
	doc, seq := room.doc.Snapshot()
	payload, _ := json.Marshal(DocSyncPayload{Document: doc, ServerSeq: seq})
	return &Message{Type: TypeDocSync, Seq: seq, Payload: payload}
}

func nackMessage(opID, reason string) *Message {
	payload, _ := json.Marshal(OperationNackPayload{OperationID: opID, Reason: reason})
	return &Message{Type: TypeOpNack, Payload: payload}
}

func errorMessage(text string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: text})
	return &Message{Type: TypeError, Payload: payload}
}
