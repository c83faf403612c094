package ws

import (
	"encoding/json"
	"log"
	"sync"

	"tab_server/internal/domain"
)

// Hub fans live game state out to subscribed sockets. It holds no game
// logic: every mutation happens in the service layer, which calls
// Publish with a fresh snapshot after each change.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Client]struct{})}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[c.GameID]
	if !ok {
		set = make(map[*Client]struct{})
		h.subs[c.GameID] = set
	}
	set[c] = struct{}{}
	log.Printf("Hub.Subscribe: nick=%s game=%s (subs=%d)", c.Nick, c.GameID, len(set))
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[c.GameID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.subs, c.GameID)
	}
}

// Publish pushes a state snapshot to every subscriber of the game.
// Slow consumers are dropped rather than blocking the caller.
func (h *Hub) Publish(g *domain.Game) {
	msg, err := json.Marshal(stateMessage{Type: "state", Game: g})
	if err != nil {
		log.Printf("Hub.Publish: marshal failed for game=%s: %v", g.ID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subs[g.ID] {
		select {
		case c.Send <- msg:
		default:
			log.Printf("Hub.Publish: send buffer full, dropping update for nick=%s game=%s", c.Nick, c.GameID)
		}
	}
}

// Subscribers reports how many sockets follow the given game.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}
