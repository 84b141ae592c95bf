package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iamasit07/connectfour/internal/domain"
)

// Run plays a hotseat game on in/out until the input ends or "quit" is read.
func Run(in io.Reader, out io.Writer, g Glyphs) error {
	game := domain.NewGame()
	scanner := bufio.NewScanner(in)

	show := func() error {
		if err := Render(out, game.Board(), g, game.Status().Cells); err != nil {
			return err
		}
		return prompt(out, game, g)
	}
	if err := show(); err != nil {
		return err
	}

	for scanner.Scan() {
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "":
			continue
		case "quit", "q", "exit":
			fmt.Fprintln(out, "Bye.")
			return nil
		case "reset", "r":
			game.Reset()
			if err := show(); err != nil {
				return err
			}
			continue
		}

		column, err := ParseColumn(input)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}

		if _, err := game.PlayMove(column); err != nil {
			switch {
			case errors.Is(err, domain.ErrColumnFull):
				fmt.Fprintf(out, "Column %c is full.\n", columnLabels[column])
			case errors.Is(err, domain.ErrGameAlreadyEnded):
				fmt.Fprintln(out, "The game is over. Type reset or quit.")
			default:
				fmt.Fprintln(out, err)
			}
			continue
		}

		if err := show(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func prompt(out io.Writer, game *domain.Game, g Glyphs) error {
	status := game.Status()
	var err error
	switch status.State {
	case domain.StatusWon:
		_, err = fmt.Fprintf(out, "%s wins! Type reset or quit.\n", g.forPlayer(status.Winner))
	case domain.StatusDraw:
		_, err = fmt.Fprintln(out, "Draw. Type reset or quit.")
	default:
		_, err = fmt.Fprintf(out, "%s to move (A-G): ", g.forPlayer(game.CurrentPlayer()))
	}
	return err
}
