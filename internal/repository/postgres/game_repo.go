package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/connectfour/internal/domain"
	"github.com/iamasit07/connectfour/internal/service/game"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameResult represents a finished game as stored in the history table
type GameResult struct {
	GameID          string            `json:"gameId"`
	Mode            string            `json:"mode"`
	Winner          domain.Player     `json:"winner"`
	Reason          string            `json:"reason"`
	TotalMoves      int               `json:"totalMoves"`
	DurationSeconds int               `json:"durationSeconds"`
	CreatedAt       time.Time         `json:"createdAt"`
	FinishedAt      time.Time         `json:"finishedAt"`
	BoardState      [][]int           `json:"boardState"`
	WinningCells    []domain.Position `json:"winningCells"`
	Moves           []int             `json:"moves"`
}

const selectGameColumns = `
	SELECT game_id, mode, winner, reason, total_moves, duration_seconds,
	       created_at, finished_at, board_state, winning_cells, moves
	FROM game`

// SaveGame upserts a finished game record
func (r *GameRepo) SaveGame(ctx context.Context, rec game.GameRecord) error {
	boardJSON, err := json.Marshal(rec.BoardState)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}
	cellsJSON, err := json.Marshal(nonNilCells(rec.WinningCells))
	if err != nil {
		return fmt.Errorf("failed to marshal winning cells: %w", err)
	}
	movesJSON, err := json.Marshal(nonNilMoves(rec.Moves))
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}

	var winner sql.NullInt16
	if rec.Winner.Valid() {
		winner = sql.NullInt16{Int16: int16(rec.Winner), Valid: true}
	}

	query := `
	INSERT INTO game (game_id, mode, winner, reason, total_moves, duration_seconds, created_at, finished_at, board_state, winning_cells, moves)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state,
		winning_cells = EXCLUDED.winning_cells,
		moves = EXCLUDED.moves;
	`

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, string(rec.Mode), winner, rec.Reason, rec.TotalMoves, rec.DurationSeconds,
		rec.CreatedAt, rec.FinishedAt, string(boardJSON), string(cellsJSON), string(movesJSON))
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

// GetGameByID returns nil, nil when the game is not in the history
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*GameResult, error) {
	row := r.DB.QueryRowContext(ctx, selectGameColumns+` WHERE game_id = $1;`, gameID)

	result, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return result, nil
}

// ListGames returns the most recently finished games first
func (r *GameRepo) ListGames(ctx context.Context, limit int) ([]GameResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.DB.QueryContext(ctx, selectGameColumns+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []GameResult{}
	for rows.Next() {
		result, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game history: %w", err)
	}
	return games, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*GameResult, error) {
	var result GameResult
	var winner sql.NullInt16
	var boardJSON, cellsJSON, movesJSON []byte

	err := s.Scan(
		&result.GameID,
		&result.Mode,
		&winner,
		&result.Reason,
		&result.TotalMoves,
		&result.DurationSeconds,
		&result.CreatedAt,
		&result.FinishedAt,
		&boardJSON,
		&cellsJSON,
		&movesJSON,
	)
	if err != nil {
		return nil, err
	}

	if winner.Valid {
		result.Winner = domain.Player(winner.Int16)
	}
	if err := decodeColumns(&result, boardJSON, cellsJSON, movesJSON); err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeColumns(result *GameResult, boardJSON, cellsJSON, movesJSON []byte) error {
	if err := json.Unmarshal(boardJSON, &result.BoardState); err != nil {
		return fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	if len(cellsJSON) > 0 {
		if err := json.Unmarshal(cellsJSON, &result.WinningCells); err != nil {
			return fmt.Errorf("failed to unmarshal winning cells: %w", err)
		}
	}
	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &result.Moves); err != nil {
			return fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	result.WinningCells = nonNilCells(result.WinningCells)
	result.Moves = nonNilMoves(result.Moves)
	return nil
}

func nonNilCells(cells []domain.Position) []domain.Position {
	if cells == nil {
		return []domain.Position{}
	}
	return cells
}

func nonNilMoves(moves []int) []int {
	if moves == nil {
		return []int{}
	}
	return moves
}
