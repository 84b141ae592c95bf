package domain

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Player identifies one of the two sides. The zero value is NoPlayer.
type Player int

const (
	NoPlayer Player = 0
	First    Player = 1
	Second   Player = 2
)

func (p Player) Valid() bool {
	return p == First || p == Second
}

func (p Player) Opponent() Player {
	switch p {
	case First:
		return Second
	case Second:
		return First
	}
	return NoPlayer
}

// String returns the glyph used to display the player.
func (p Player) String() string {
	switch p {
	case First:
		return "X"
	case Second:
		return "O"
	}
	return " "
}

// CellState is either Empty or Occupied by a player.
type CellState int

const Empty CellState = 0

func Occupied(p Player) CellState {
	return CellState(p)
}

func (c CellState) IsEmpty() bool {
	return c == Empty
}

// Owner reports which player occupies the cell.
func (c CellState) Owner() (Player, bool) {
	p := Player(c)
	if !p.Valid() {
		return NoPlayer, false
	}
	return p, true
}

type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Move is the cell filled by a successful drop.
type Move struct {
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Player Player `json:"player"`
}

func (m Move) Position() Position {
	return Position{Row: m.Row, Column: m.Column}
}

// GameState describes where the game session is in its lifecycle
type GameState string

const (
	StatusInProgress GameState = "in_progress"
	StatusWon        GameState = "won"
	StatusDraw       GameState = "draw"
)

type GameStatus struct {
	State  GameState  `json:"state"`
	Winner Player     `json:"winner,omitempty"`
	Cells  []Position `json:"cells,omitempty"`
}

func (s GameStatus) Finished() bool {
	return s.State == StatusWon || s.State == StatusDraw
}

// basic errors that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn    Error = "invalid column"
	ErrColumnFull       Error = "column is full"
	ErrOutOfBounds      Error = "position out of bounds"
	ErrGameAlreadyEnded Error = "game already ended"
	ErrInvalidPlayer    Error = "invalid player"
	ErrInvalidBoard     Error = "invalid board"
)
