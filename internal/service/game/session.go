package game

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
)

type Mode string

const (
	ModeHotseat Mode = "hotseat" // one token plays both sides
	ModeVersus  Mode = "versus"  // one token per seat
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeHotseat:
		return ModeHotseat, nil
	case ModeVersus:
		return ModeVersus, nil
	}
	return "", ErrInvalidMode
}

type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrGameNotFound Error = "game not found"
	ErrNotYourTurn  Error = "not your turn"
	ErrSeatMismatch Error = "token does not belong to this game"
	ErrInvalidMode  Error = "invalid game mode"
)

// Snapshot is a point-in-time copy of a session, safe to marshal and share.
type Snapshot struct {
	GameID        string            `json:"gameId"`
	Mode          Mode              `json:"mode"`
	Board         [][]int           `json:"board"`
	CurrentPlayer domain.Player     `json:"currentPlayer"`
	Status        domain.GameStatus `json:"status"`
	LastMove      *domain.Move      `json:"lastMove,omitempty"`
	Moves         []int             `json:"moves"`
	MoveCount     int               `json:"moveCount"`
	CreatedAt     time.Time         `json:"createdAt"`
	StartedAt     time.Time         `json:"startedAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	FinishedAt    *time.Time        `json:"finishedAt,omitempty"`
}

// Session wraps a domain.Game. Every access goes through mu.
type Session struct {
	ID        string
	Mode      Mode
	CreatedAt time.Time

	startedAt  time.Time // start of the current game, moved forward by a reset
	updatedAt  time.Time
	finishedAt time.Time
	game       *domain.Game
	mu         sync.Mutex
}

func newSession(id string, mode Mode, now time.Time) *Session {
	return &Session{
		ID:        id,
		Mode:      mode,
		CreatedAt: now,
		startedAt: now,
		updatedAt: now,
		game:      domain.NewGame(),
	}
}

// restoreSession rebuilds a session from a cached snapshot by replaying its moves.
func restoreSession(snap Snapshot) (*Session, error) {
	g, err := domain.Replay(snap.Moves)
	if err != nil {
		return nil, err
	}
	if !reflect.DeepEqual(g.Board().Grid(), snap.Board) {
		return nil, fmt.Errorf("snapshot %s: %w: board does not match move log", snap.GameID, domain.ErrInvalidBoard)
	}

	s := &Session{
		ID:        snap.GameID,
		Mode:      snap.Mode,
		CreatedAt: snap.CreatedAt,
		startedAt: snap.StartedAt,
		updatedAt: snap.UpdatedAt,
		game:      g,
	}
	if s.startedAt.IsZero() {
		s.startedAt = snap.CreatedAt
	}
	if snap.FinishedAt != nil {
		s.finishedAt = *snap.FinishedAt
	}
	return s, nil
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	moves := s.game.Moves()
	columns := make([]int, len(moves))
	for i, m := range moves {
		columns[i] = m.Column
	}

	snap := Snapshot{
		GameID:        s.ID,
		Mode:          s.Mode,
		Board:         s.game.Board().Grid(),
		CurrentPlayer: s.game.CurrentPlayer(),
		Status:        s.game.Status(),
		Moves:         columns,
		MoveCount:     len(moves),
		CreatedAt:     s.CreatedAt,
		StartedAt:     s.startedAt,
		UpdatedAt:     s.updatedAt,
	}
	if last, ok := s.game.LastMove(); ok {
		snap.LastMove = &last
	}
	if !s.finishedAt.IsZero() {
		finished := s.finishedAt
		snap.FinishedAt = &finished
	}
	return snap
}

// recordLocked converts a finished session into a history record
func (s *Session) recordLocked() GameRecord {
	status := s.game.Status()
	reason := "draw"
	if status.State == domain.StatusWon {
		reason = "connect_four"
	}

	snap := s.snapshotLocked()
	return GameRecord{
		GameID:          s.ID,
		Mode:            s.Mode,
		Winner:          status.Winner,
		Reason:          reason,
		TotalMoves:      snap.MoveCount,
		DurationSeconds: int(s.finishedAt.Sub(s.startedAt).Seconds()),
		CreatedAt:       s.startedAt,
		FinishedAt:      s.finishedAt,
		BoardState:      snap.Board,
		WinningCells:    status.Cells,
		Moves:           snap.Moves,
	}
}
