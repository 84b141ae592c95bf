package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connectfour/internal/service/game"
	"github.com/iamasit07/connectfour/pkg/auth"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
)

type SeatValidator interface {
	ValidateSeatToken(token string) (*auth.SeatClaims, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	Hub      *Hub
	Manager  *game.Manager
	Tokens   SeatValidator
	Upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, manager *game.Manager, tokens SeatValidator, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		Hub:     hub,
		Manager: manager,
		Tokens:  tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket serves GET /ws/games/:id. A valid seat token in the
// query string lets the socket play; without one it only watches.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	if _, err := h.Manager.Snapshot(c.Request.Context(), gameID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	cl := &client{gameID: gameID}
	if token := c.Query("token"); token != "" {
		claims, err := h.Tokens.ValidateSeatToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if claims.GameID != gameID {
			c.JSON(http.StatusForbidden, gin.H{"error": game.ErrSeatMismatch.Error()})
			return
		}
		cl.seat = claims.Player
		cl.canPlay = true
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}
	cl.conn = conn

	h.handleConnection(cl)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(cl *client) {
	conn := cl.conn
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	h.Hub.add(cl)
	log.Printf("[WS] Client joined game %s (seat %d, canPlay %v)", cl.gameID, cl.seat, cl.canPlay)

	defer func() {
		close(done)
		h.Hub.remove(cl)
		conn.Close()
		log.Printf("[WS] Client left game %s", cl.gameID)
	}()

	ctx := context.Background()
	snap, err := h.Manager.Snapshot(ctx, cl.gameID)
	if err != nil {
		cl.send(ServerMessage{Type: "error", Message: err.Error()})
		return
	}
	if err := cl.send(ServerMessage{Type: "state", Game: &snap}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Client disconnected unexpectedly: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			cl.send(ServerMessage{Type: "error", Message: "invalid message format"})
			continue
		}

		if err := h.processMessage(ctx, cl, msg); err != nil {
			cl.send(ServerMessage{Type: "error", Message: err.Error()})
		}
	}
}

var (
	errSpectator     = errors.New("spectators cannot change the game")
	errMissingColumn = errors.New("make_move requires a column")
)

// processMessage routes client actions. State changes reach every
// subscriber through the hub, including the sender.
func (h *Handler) processMessage(ctx context.Context, cl *client, msg ClientMessage) error {
	switch msg.Type {
	case "make_move":
		if !cl.canPlay {
			return errSpectator
		}
		if msg.Column == nil {
			return errMissingColumn
		}
		_, err := h.Manager.PlayMove(ctx, cl.gameID, cl.seat, *msg.Column)
		return err

	case "reset":
		if !cl.canPlay {
			return errSpectator
		}
		_, err := h.Manager.Reset(ctx, cl.gameID)
		return err

	case "get_state":
		snap, err := h.Manager.Snapshot(ctx, cl.gameID)
		if err != nil {
			return err
		}
		return cl.send(ServerMessage{Type: "state", Game: &snap})
	}

	return errors.New("unknown message type")
}

var _ game.Notifier = (*Hub)(nil)
var _ SeatValidator = (*auth.Issuer)(nil)
