package game

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/pkg/uid"
)

// GameRecord is what gets persisted once a game reaches a terminal state
type GameRecord struct {
	GameID          string
	Mode            Mode
	Winner          domain.Player // NoPlayer for a draw
	Reason          string
	TotalMoves      int
	DurationSeconds int
	CreatedAt       time.Time // when this game started, which a reset moves forward
	FinishedAt      time.Time
	BoardState      [][]int
	WinningCells    []domain.Position
	Moves           []int
}

type GameRepository interface {
	SaveGame(ctx context.Context, record GameRecord) error
}

// SnapshotCache keeps live sessions outside process memory.
// LoadSnapshot returns nil, nil when nothing is stored for gameID.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context, gameID string) (*Snapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}

type Notifier interface {
	BroadcastState(snap Snapshot)
}

type TokenIssuer interface {
	IssueSeatToken(gameID string, player domain.Player) (string, error)
}

// Seats holds the tokens handed out when a game is created
type Seats struct {
	Hotseat string `json:"hotseat,omitempty"`
	First   string `json:"first,omitempty"`
	Second  string `json:"second,omitempty"`
}

type Options struct {
	Repo        GameRepository
	Cache       SnapshotCache
	Notifier    Notifier
	FinishedTTL time.Duration
	IdleTTL     time.Duration
}

// Manager owns every live game session
type Manager struct {
	sessions    map[string]*Session
	mu          sync.RWMutex
	tokens      TokenIssuer
	repo        GameRepository
	cache       SnapshotCache
	notifier    Notifier
	finishedTTL time.Duration
	idleTTL     time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
}

func NewManager(tokens TokenIssuer, opts Options) *Manager {
	if opts.FinishedTTL <= 0 {
		opts.FinishedTTL = time.Hour
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 24 * time.Hour
	}
	return &Manager{
		sessions:    make(map[string]*Session),
		tokens:      tokens,
		repo:        opts.Repo,
		cache:       opts.Cache,
		notifier:    opts.Notifier,
		finishedTTL: opts.FinishedTTL,
		idleTTL:     opts.IdleTTL,
		now:         time.Now,
	}
}

func (m *Manager) CreateSession(ctx context.Context, mode Mode) (Snapshot, Seats, error) {
	if mode != ModeHotseat && mode != ModeVersus {
		return Snapshot{}, Seats{}, ErrInvalidMode
	}

	gameID := uid.GenerateGameID()
	seats, err := m.issueSeats(gameID, mode)
	if err != nil {
		return Snapshot{}, Seats{}, err
	}

	session := newSession(gameID, mode, m.now())

	m.mu.Lock()
	m.sessions[gameID] = session
	m.mu.Unlock()

	session.mu.Lock()
	snap := session.snapshotLocked()
	m.publishLocked(ctx, snap)
	session.mu.Unlock()

	log.Printf("[SESSION] Created %s session %s", mode, gameID)
	return snap, seats, nil
}

func (m *Manager) issueSeats(gameID string, mode Mode) (Seats, error) {
	var seats Seats
	var err error

	if mode == ModeHotseat {
		seats.Hotseat, err = m.tokens.IssueSeatToken(gameID, domain.NoPlayer)
		return seats, err
	}

	if seats.First, err = m.tokens.IssueSeatToken(gameID, domain.First); err != nil {
		return Seats{}, err
	}
	if seats.Second, err = m.tokens.IssueSeatToken(gameID, domain.Second); err != nil {
		return Seats{}, err
	}
	return seats, nil
}

// Session looks a game up in memory, falling back to the snapshot cache.
func (m *Manager) Session(ctx context.Context, gameID string) (*Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[gameID]
	m.mu.RUnlock()
	if exists {
		return session, nil
	}

	if m.cache == nil {
		return nil, ErrGameNotFound
	}

	snap, err := m.cache.LoadSnapshot(ctx, gameID)
	if err != nil {
		log.Printf("[SESSION] Failed to load snapshot for %s: %v", gameID, err)
		return nil, ErrGameNotFound
	}
	if snap == nil {
		return nil, ErrGameNotFound
	}

	restored, err := restoreSession(*snap)
	if err != nil {
		log.Printf("[SESSION] Discarding unusable snapshot for %s: %v", gameID, err)
		return nil, ErrGameNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[gameID]; ok {
		return existing, nil
	}
	m.sessions[gameID] = restored
	log.Printf("[SESSION] Restored session %s from cache (%d moves)", gameID, len(snap.Moves))
	return restored, nil
}

func (m *Manager) Snapshot(ctx context.Context, gameID string) (Snapshot, error) {
	session, err := m.Session(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// PlayMove drops a disc for seat. A NoPlayer seat may move for either side.
func (m *Manager) PlayMove(ctx context.Context, gameID string, seat domain.Player, column int) (Snapshot, error) {
	session, err := m.Session(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if seat != domain.NoPlayer && !session.game.Status().Finished() && seat != session.game.CurrentPlayer() {
		return session.snapshotLocked(), ErrNotYourTurn
	}

	status, err := session.game.PlayMove(column)
	if err != nil {
		return session.snapshotLocked(), err
	}

	now := m.now()
	session.updatedAt = now
	if status.Finished() {
		session.finishedAt = now
	}

	snap := session.snapshotLocked()
	m.publishLocked(ctx, snap)

	if status.Finished() {
		log.Printf("[GAME] Game %s finished: %s (winner %v, %d moves)", gameID, status.State, status.Winner, snap.MoveCount)
		m.saveGameAsync(session.recordLocked())
	}

	return snap, nil
}

// Reset puts the session back to an empty board with First to move
func (m *Manager) Reset(ctx context.Context, gameID string) (Snapshot, error) {
	session, err := m.Session(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := m.now()
	session.game.Reset()
	session.startedAt = now
	session.updatedAt = now
	session.finishedAt = time.Time{}

	snap := session.snapshotLocked()
	m.publishLocked(ctx, snap)

	log.Printf("[GAME] Game %s reset", gameID)
	return snap, nil
}

// publishLocked stores and broadcasts snap. The caller holds the session
// lock so subscribers see updates in move order.
func (m *Manager) publishLocked(ctx context.Context, snap Snapshot) {
	if m.cache != nil {
		if err := m.cache.SaveSnapshot(ctx, snap); err != nil {
			log.Printf("[SESSION] Failed to cache snapshot for %s: %v", snap.GameID, err)
		}
	}
	if m.notifier != nil {
		m.notifier.BroadcastState(snap)
	}
}

// Saves the finished game in the background so moves never wait on the database
func (m *Manager) saveGameAsync(record GameRecord) {
	if m.repo == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.repo.SaveGame(ctx, record); err != nil {
			log.Printf("[GAME] Error saving game %s: %v", record.GameID, err)
			return
		}
		log.Printf("[GAME] Game %s saved successfully", record.GameID)
	}()
}

// Wait blocks until every pending save has finished
func (m *Manager) Wait() {
	m.wg.Wait()
}

type Summary struct {
	GameID        string        `json:"gameId"`
	Mode          Mode          `json:"mode"`
	CurrentPlayer domain.Player `json:"currentPlayer"`
	MoveCount     int           `json:"moveCount"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ActiveGames lists the in-progress sessions, oldest first
func (m *Manager) ActiveGames() []Summary {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	games := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		snap := s.Snapshot()
		if snap.Status.Finished() {
			continue
		}
		games = append(games, Summary{
			GameID:        snap.GameID,
			Mode:          snap.Mode,
			CurrentPlayer: snap.CurrentPlayer,
			MoveCount:     snap.MoveCount,
			CreatedAt:     snap.CreatedAt,
			UpdatedAt:     snap.UpdatedAt,
		})
	}

	sort.Slice(games, func(i, j int) bool {
		if games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].GameID < games[j].GameID
		}
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games
}

func (m *Manager) RemoveSession(ctx context.Context, gameID string) error {
	m.mu.Lock()
	_, exists := m.sessions[gameID]
	delete(m.sessions, gameID)
	m.mu.Unlock()

	if !exists {
		return ErrGameNotFound
	}

	log.Printf("[SESSION] Removing session %s", gameID)
	if m.cache != nil {
		if err := m.cache.DeleteSnapshot(ctx, gameID); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
	}
	return nil
}

// CleanupOldSessions drops finished sessions past the finished TTL and
// sessions nobody has touched within the idle TTL. Their cached snapshots
// are deleted too so a later lookup cannot restore them.
func (m *Manager) CleanupOldSessions(now time.Time) int {
	m.mu.Lock()
	var removed []string
	for gameID, session := range m.sessions {
		session.mu.Lock()
		finished := session.game.Status().Finished()
		finishedAt, updatedAt := session.finishedAt, session.updatedAt
		session.mu.Unlock()

		if (finished && now.Sub(finishedAt) > m.finishedTTL) || now.Sub(updatedAt) > m.idleTTL {
			delete(m.sessions, gameID)
			removed = append(removed, gameID)
		}
	}
	m.mu.Unlock()

	if len(removed) == 0 {
		return 0
	}

	if m.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, gameID := range removed {
			if err := m.cache.DeleteSnapshot(ctx, gameID); err != nil {
				log.Printf("[SESSION] Failed to delete snapshot for %s: %v", gameID, err)
			}
		}
	}

	log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", len(removed))
	return len(removed)
}
