package terminal

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iamasit07/connectfour/internal/domain"
)

const columnLabels = "ABCDEFG"

var ErrUnknownColumn = errors.New("enter a column A-G or 1-7")

// Glyphs maps cell states to the characters drawn for them
type Glyphs struct {
	First  string
	Second string
	Empty  string
}

func DefaultGlyphs() Glyphs {
	return Glyphs{First: domain.First.String(), Second: domain.Second.String(), Empty: "."}
}

func (g Glyphs) For(cell domain.CellState) string {
	owner, _ := cell.Owner()
	switch owner {
	case domain.First:
		return g.First
	case domain.Second:
		return g.Second
	}
	return g.Empty
}

func (g Glyphs) forPlayer(p domain.Player) string {
	return g.For(domain.Occupied(p))
}

// Render draws the board with the top row first and column labels beneath.
// Cells in highlight are wrapped in brackets.
func Render(w io.Writer, b *domain.Board, g Glyphs, highlight []domain.Position) error {
	marked := make(map[domain.Position]bool, len(highlight))
	for _, p := range highlight {
		marked[p] = true
	}

	var sb strings.Builder
	for row := domain.Rows - 1; row >= 0; row-- {
		sb.WriteString("|")
		for col := 0; col < domain.Columns; col++ {
			cell, _ := b.Get(row, col)
			glyph := g.For(cell)
			if marked[domain.Position{Row: row, Column: col}] {
				fmt.Fprintf(&sb, "[%s]", glyph)
			} else {
				fmt.Fprintf(&sb, " %s ", glyph)
			}
		}
		sb.WriteString("|\n")
	}

	sb.WriteString(" ")
	for _, label := range columnLabels {
		fmt.Fprintf(&sb, " %c ", label)
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// ParseColumn accepts a column letter (case-insensitive) or a 1-based number
func ParseColumn(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		if idx := strings.IndexByte(columnLabels, strings.ToUpper(s)[0]); idx >= 0 {
			return idx, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > domain.Columns {
		return 0, ErrUnknownColumn
	}
	return n - 1, nil
}
