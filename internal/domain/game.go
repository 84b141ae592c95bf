package domain

import "fmt"

// Game is a single Connect-Four session. It is not safe for concurrent use;
// callers that share a Game must serialize access to it.
type Game struct {
	board         *Board
	currentPlayer Player
	status        GameStatus
	moves         []Move
}

func NewGame() *Game {
	return &Game{
		board:         NewBoard(),
		currentPlayer: First,
		status:        GameStatus{State: StatusInProgress},
	}
}

// PlayMove drops the current player's disc into column. Rejected moves
// leave the game untouched.
func (g *Game) PlayMove(column int) (GameStatus, error) {
	if g.status.Finished() {
		return g.Status(), ErrGameAlreadyEnded
	}

	move, err := g.board.Drop(column, g.currentPlayer)
	if err != nil {
		return g.Status(), err
	}
	g.moves = append(g.moves, move)

	if win := CheckWin(g.board, move); win.Won() {
		g.status = GameStatus{State: StatusWon, Winner: win.Player, Cells: win.Cells}
		return g.Status(), nil
	}

	if g.board.IsFull() {
		g.status = GameStatus{State: StatusDraw}
		return g.Status(), nil
	}

	g.currentPlayer = g.currentPlayer.Opponent()
	return g.Status(), nil
}

func (g *Game) Reset() {
	g.board.Reset()
	g.currentPlayer = First
	g.status = GameStatus{State: StatusInProgress}
	g.moves = nil
}

// Status returns a copy of the current status.
func (g *Game) Status() GameStatus {
	s := g.status
	if s.Cells != nil {
		s.Cells = append([]Position(nil), s.Cells...)
	}
	return s
}

func (g *Game) CurrentPlayer() Player {
	return g.currentPlayer
}

func (g *Game) Get(row, column int) (CellState, error) {
	return g.board.Get(row, column)
}

// Board returns a copy of the board, safe to read after the game moves on.
func (g *Game) Board() *Board {
	return g.board.Clone()
}

func (g *Game) MoveCount() int {
	return len(g.moves)
}

func (g *Game) LastMove() (Move, bool) {
	if len(g.moves) == 0 {
		return Move{}, false
	}
	return g.moves[len(g.moves)-1], true
}

func (g *Game) Moves() []Move {
	return append([]Move(nil), g.moves...)
}

// Replay rebuilds a game by playing columns in order from a fresh start.
func Replay(columns []int) (*Game, error) {
	g := NewGame()
	for i, col := range columns {
		if _, err := g.PlayMove(col); err != nil {
			return nil, fmt.Errorf("replay move %d (column %d): %w", i, col, err)
		}
	}
	return g, nil
}
