package main

import (
	"log"
	"os"

	"github.com/iamasit07/connectfour/internal/terminal"
	"github.com/urfave/cli/v2"
)

func main() {
	defaults := terminal.DefaultGlyphs()

	app := &cli.App{
		Name:  "connectfour",
		Usage: "play Connect Four on one terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "x", Value: defaults.First, Usage: "glyph for the first player"},
			&cli.StringFlag{Name: "o", Value: defaults.Second, Usage: "glyph for the second player"},
			&cli.StringFlag{Name: "empty", Value: defaults.Empty, Usage: "glyph for an empty cell"},
		},
		Action: func(c *cli.Context) error {
			glyphs := terminal.Glyphs{
				First:  c.String("x"),
				Second: c.String("o"),
				Empty:  c.String("empty"),
			}
			if glyphs.First == glyphs.Second {
				return cli.Exit("players need different glyphs", 2)
			}
			return terminal.Run(os.Stdin, os.Stdout, glyphs)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
