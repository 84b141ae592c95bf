package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/service/game"
)

type ServerMessage struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Game    *game.Snapshot `json:"game,omitempty"`
}

// ClientMessage is an action sent by a socket. Column is required for make_move.
type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
}

// client is one socket watching one game
type client struct {
	conn    *websocket.Conn
	gameID  string
	seat    domain.Player
	canPlay bool

	// gorilla connections allow a single concurrent writer
	writeMu sync.Mutex
}

func (c *client) send(msg ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(msg)
}

// Hub tracks the sockets subscribed to each game and fans out state updates
type Hub struct {
	games map[string]map[*client]struct{}
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{games: make(map[string]map[*client]struct{})}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.games[c.gameID]
	if !ok {
		subs = make(map[*client]struct{})
		h.games[c.gameID] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.games[c.gameID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.games, c.gameID)
		}
	}
}

// SubscriberCount reports how many sockets are watching gameID
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// BroadcastState implements game.Notifier
func (h *Hub) BroadcastState(snap game.Snapshot) {
	h.mu.RLock()
	subs := make([]*client, 0, len(h.games[snap.GameID]))
	for c := range h.games[snap.GameID] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	msg := ServerMessage{Type: "state", Game: &snap}
	for _, c := range subs {
		if err := c.send(msg); err != nil {
			log.Printf("[WS] Failed to send state for game %s: %v", snap.GameID, err)
		}
	}
}
