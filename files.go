package main

import (
	"os"

	"github.com/robalobadob/wordhunt/internal/game"
	"github.com/robalobadob/wordhunt/internal/wordlist"
)

func parseFile(path string) (game.Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return game.Puzzle{}, err
	}
	defer f.Close()
	return wordlist.Parse(f, path)
}
