package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/service/game"
	"github.com/iamasit07/connectfour/pkg/auth"
)

func newTestServer(t *testing.T) (*httptest.Server, *game.Manager, *Hub, *auth.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := auth.NewIssuer("ws-test-secret", time.Hour)
	hub := NewHub()
	manager := game.NewManager(issuer, game.Options{Notifier: hub})
	handler := NewHandler(hub, manager, issuer, func(r *http.Request) bool { return true })

	router := gin.New()
	router.GET("/ws/games/:id", handler.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, manager, hub, issuer
}

func dial(t *testing.T, srv *httptest.Server, gameID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/" + gameID
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func column(c int) *int {
	return &c
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestPlayerMovesAreBroadcast(t *testing.T) {
	srv, manager, hub, _ := newTestServer(t)
	snap, seats, err := manager.CreateSession(context.Background(), game.ModeHotseat)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	player := dial(t, srv, snap.GameID, seats.Hotseat)
	if msg := readMessage(t, player); msg.Type != "state" || msg.Game == nil || msg.Game.MoveCount != 0 {
		t.Fatalf("unexpected initial message %+v", msg)
	}

	watcher := dial(t, srv, snap.GameID, "")
	if msg := readMessage(t, watcher); msg.Type != "state" {
		t.Fatalf("unexpected initial watcher message %+v", msg)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount(snap.GameID) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := player.WriteJSON(ClientMessage{Type: "make_move", Column: column(3)}); err != nil {
		t.Fatalf("write: %v", err)
	}

	for name, conn := range map[string]*websocket.Conn{"player": player, "watcher": watcher} {
		msg := readMessage(t, conn)
		if msg.Type != "state" || msg.Game.MoveCount != 1 || msg.Game.Board[0][3] != int(domain.First) {
			t.Fatalf("%s: unexpected broadcast %+v", name, msg)
		}
	}
}

func TestSpectatorCannotPlay(t *testing.T) {
	srv, manager, _, _ := newTestServer(t)
	snap, _, _ := manager.CreateSession(context.Background(), game.ModeVersus)

	watcher := dial(t, srv, snap.GameID, "")
	readMessage(t, watcher)

	watcher.WriteJSON(ClientMessage{Type: "make_move", Column: column(0)})
	msg := readMessage(t, watcher)
	if msg.Type != "error" || msg.Message != errSpectator.Error() {
		t.Fatalf("expected spectator error, got %+v", msg)
	}

	after, _ := manager.Snapshot(context.Background(), snap.GameID)
	if after.MoveCount != 0 {
		t.Fatalf("spectator changed the game: %+v", after)
	}
}

func TestRejectedMoveReturnsError(t *testing.T) {
	srv, manager, _, _ := newTestServer(t)
	snap, seats, _ := manager.CreateSession(context.Background(), game.ModeVersus)

	second := dial(t, srv, snap.GameID, seats.Second)
	readMessage(t, second)

	second.WriteJSON(ClientMessage{Type: "make_move", Column: column(0)})
	if msg := readMessage(t, second); msg.Type != "error" || msg.Message != game.ErrNotYourTurn.Error() {
		t.Fatalf("expected not-your-turn error, got %+v", msg)
	}

	second.WriteJSON(ClientMessage{Type: "dance"})
	if msg := readMessage(t, second); msg.Type != "error" {
		t.Fatalf("expected error for unknown type, got %+v", msg)
	}
}

func TestMoveWithoutColumnIsRejected(t *testing.T) {
	srv, manager, _, _ := newTestServer(t)
	snap, seats, _ := manager.CreateSession(context.Background(), game.ModeHotseat)

	player := dial(t, srv, snap.GameID, seats.Hotseat)
	readMessage(t, player)

	if err := player.WriteMessage(websocket.TextMessage, []byte(`{"type":"make_move"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readMessage(t, player)
	if msg.Type != "error" || msg.Message != errMissingColumn.Error() {
		t.Fatalf("expected missing column error, got %+v", msg)
	}

	after, _ := manager.Snapshot(context.Background(), snap.GameID)
	if after.MoveCount != 0 {
		t.Fatalf("move without a column changed the game: %+v", after)
	}

	// column 0 is still a legal explicit choice
	player.WriteMessage(websocket.TextMessage, []byte(`{"type":"make_move","column":0}`))
	if msg := readMessage(t, player); msg.Type != "state" || msg.Game.MoveCount != 1 || msg.Game.Board[0][0] != int(domain.First) {
		t.Fatalf("expected explicit column 0 to play, got %+v", msg)
	}
}

func TestHandshakeRejections(t *testing.T) {
	srv, manager, _, issuer := newTestServer(t)
	snap, _, _ := manager.CreateSession(context.Background(), game.ModeVersus)
	foreign, _ := issuer.IssueSeatToken("some-other-game", domain.First)

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/"
	cases := []struct {
		url  string
		code int
	}{
		{base + "missing", http.StatusNotFound},
		{base + snap.GameID + "?token=garbage", http.StatusUnauthorized},
		{base + snap.GameID + "?token=" + foreign, http.StatusForbidden},
	}

	for _, tc := range cases {
		_, resp, err := websocket.DefaultDialer.Dial(tc.url, nil)
		if err == nil {
			t.Fatalf("%s: expected handshake failure", tc.url)
		}
		if resp == nil || resp.StatusCode != tc.code {
			t.Fatalf("%s: expected status %d, got %+v", tc.url, tc.code, resp)
		}
	}
}
