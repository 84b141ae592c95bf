package domain

import "sort"

// WinResult is the outcome of CheckWin. A zero value means no win.
type WinResult struct {
	Player Player
	Cells  []Position
}

func (w WinResult) Won() bool {
	return len(w.Cells) > 0
}

// CheckWin looks for runs of ToWin or more discs of move.Player on the
// four lines through the move. Every cell of every winning run is reported.
func CheckWin(b *Board, move Move) WinResult {
	if !move.Player.Valid() || !inBounds(move.Row, move.Column) {
		return WinResult{}
	}

	r, c := move.Row, move.Column
	lines := [][]Position{
		line(0, c, 1, 0),
		line(r, 0, 0, 1),
		// diagonal \ (row and column both increasing)
		line(max(r-c, 0), max(c-r, 0), 1, 1),
		// diagonal / (row increasing, column decreasing)
		line(max(r+c-(Columns-1), 0), min(r+c, Columns-1), 1, -1),
	}

	seen := make(map[Position]bool)
	var cells []Position
	for _, l := range lines {
		for _, p := range winningRuns(b, l, move.Player) {
			if !seen[p] {
				seen[p] = true
				cells = append(cells, p)
			}
		}
	}

	if len(cells) == 0 {
		return WinResult{}
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Column < cells[j].Column
	})

	return WinResult{Player: move.Player, Cells: cells}
}

// line walks from (row, col) in direction (dRow, dCol) until it leaves the board.
func line(row, col, dRow, dCol int) []Position {
	var cells []Position
	for inBounds(row, col) {
		cells = append(cells, Position{Row: row, Column: col})
		row += dRow
		col += dCol
	}
	return cells
}

// winningRuns returns the cells of every maximal run of player's discs
// along l that is at least ToWin long.
func winningRuns(b *Board, l []Position, player Player) []Position {
	var out []Position
	start := -1
	flush := func(end int) {
		if start >= 0 && end-start >= ToWin {
			out = append(out, l[start:end]...)
		}
		start = -1
	}

	for i, p := range l {
		if b.cells[p.Row][p.Column] == Occupied(player) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(l))

	return out
}
