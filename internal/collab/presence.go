package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks the cursor and wall selection of each user in a
// room. A user connected from several tabs shares one entry; the entry
// goes away with the user's last connection.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
	conns     map[string]int              // userID -> open connections
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
		conns:     make(map[string]int),
	}
}

// Join counts a new connection of userID.
func (pm *PresenceManager) Join(userID, displayName string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.conns[userID]++
	if _, ok := pm.presences[userID]; !ok {
		pm.presences[userID] = &PresencePayload{DisplayName: displayName}
	}
}

// Leave drops one connection of userID and reports whether it was the last.
func (pm *PresenceManager) Leave(userID string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.conns[userID]--
	if pm.conns[userID] > 0 {
		return false
	}
	delete(pm.conns, userID)
	delete(pm.presences, userID)
	return true
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[userID] = p
}

// Deselect removes wallID from every selection, after the wall is deleted.
func (pm *PresenceManager) Deselect(wallID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for userID, p := range pm.presences {
		kept := make([]string, 0, len(p.Selection))
		for _, id := range p.Selection {
			if id != wallID {
				kept = append(kept, id)
			}
		}
		if len(kept) != len(p.Selection) {
			cp := *p
			cp.Selection = kept
			pm.presences[userID] = &cp
		}
	}
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
