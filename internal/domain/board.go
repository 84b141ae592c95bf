package domain

import "fmt"

// Board is a 6x7 grid. Row 0 is the bottom row, where discs settle first.
type Board struct {
	cells  [Rows][Columns]CellState
	filled int
}

func NewBoard() *Board {
	return &Board{}
}

// Drop places a disc in the lowest empty cell of column.
func (b *Board) Drop(column int, player Player) (Move, error) {
	if column < 0 || column >= Columns {
		return Move{}, ErrInvalidColumn
	}
	if !player.Valid() {
		return Move{}, ErrInvalidPlayer
	}

	for row := 0; row < Rows; row++ {
		if b.cells[row][column] == Empty {
			b.cells[row][column] = Occupied(player)
			b.filled++
			return Move{Row: row, Column: column, Player: player}, nil
		}
	}

	return Move{}, ErrColumnFull
}

func (b *Board) Get(row, column int) (CellState, error) {
	if !inBounds(row, column) {
		return Empty, ErrOutOfBounds
	}
	return b.cells[row][column], nil
}

func (b *Board) IsFull() bool {
	return b.filled == Rows*Columns
}

func (b *Board) Reset() {
	*b = Board{}
}

// Height returns how many discs are stacked in column.
func (b *Board) Height(column int) int {
	if column < 0 || column >= Columns {
		return 0
	}
	h := 0
	for h < Rows && b.cells[h][column] != Empty {
		h++
	}
	return h
}

// ValidColumns lists the columns that still accept a disc, left to right.
func (b *Board) ValidColumns() []int {
	cols := make([]int, 0, Columns)
	for c := 0; c < Columns; c++ {
		if b.cells[Rows-1][c] == Empty {
			cols = append(cols, c)
		}
	}
	return cols
}

func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Grid returns the board as rows of ints (0 empty, 1 first, 2 second),
// starting with the bottom row.
func (b *Board) Grid() [][]int {
	grid := make([][]int, Rows)
	for r := range grid {
		grid[r] = make([]int, Columns)
		for c := range grid[r] {
			grid[r][c] = int(b.cells[r][c])
		}
	}
	return grid
}

// BoardFromGrid rebuilds a board from the layout produced by Grid.
func BoardFromGrid(grid [][]int) (*Board, error) {
	if len(grid) != Rows {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(grid))
	}

	b := NewBoard()
	for r, row := range grid {
		if len(row) != Columns {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrInvalidBoard, r, len(row))
		}
		for c, v := range row {
			cell := CellState(v)
			if cell == Empty {
				continue
			}
			if _, ok := cell.Owner(); !ok {
				return nil, fmt.Errorf("%w: unknown value %d at (%d,%d)", ErrInvalidBoard, v, r, c)
			}
			if r > 0 && b.cells[r-1][c] == Empty {
				return nil, fmt.Errorf("%w: floating disc at (%d,%d)", ErrInvalidBoard, r, c)
			}
			b.cells[r][c] = cell
			b.filled++
		}
	}
	return b, nil
}

func inBounds(row, column int) bool {
	return row >= 0 && row < Rows && column >= 0 && column < Columns
}
