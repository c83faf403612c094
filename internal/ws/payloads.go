package ws

import "tab_server/internal/domain"

// stateMessage is the single outbound frame type: the full game
// snapshot after every state change. Clients re-render from it.
type stateMessage struct {
	Type string       `json:"type"`
	Game *domain.Game `json:"game"`
}
