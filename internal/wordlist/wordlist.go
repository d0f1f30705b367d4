// internal/wordlist/wordlist.go
//
// Word list sources for the word hunt server.
//
// Responsibilities:
//   - Define Source, the capability a session draws puzzles from.
//   - Parse the puzzle file format shared by every adapter.
//   - Choose which puzzle to deal (random or per-day deterministic).
//
// Puzzle file format:
//   line 1   puzzle text shown to the player (opaque)
//   line 2   number of words the player must find
//   line 3.. target words, one per line
//
// Adapters:
//   - FSSource over a directory on disk (NewDirSource) or the embedded
//     defaults (NewEmbeddedSource).
//   - SQLiteSource over puzzles imported into a sqlite database.

package wordlist

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/robalobadob/wordhunt/internal/daily"
	"github.com/robalobadob/wordhunt/internal/game"
)

var (
	// ErrNoWordLists is returned by Draw when the source has nothing to deal.
	ErrNoWordLists = errors.New("wordlist: no word lists available")

	// ErrBadFormat is returned when a puzzle cannot be parsed.
	ErrBadFormat = errors.New("wordlist: invalid puzzle format")
)

// Source supplies puzzles on demand.
type Source interface {
	// Draw returns a fresh puzzle. It fails with ErrNoWordLists when the
	// source is empty.
	Draw(ctx context.Context) (game.Puzzle, error)

	// Stats reports what the source can serve.
	Stats(ctx context.Context) (Stats, error)
}

// Stats describes a source for diagnostics.
type Stats struct {
	Kind    string `json:"kind"`
	Puzzles int    `json:"puzzles"`
}

// Parse reads one puzzle in the file format described above.
func Parse(r io.Reader, name string) (game.Puzzle, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return game.Puzzle{}, fmt.Errorf("read %s: %w", name, err)
	}
	if len(lines) < 3 {
		return game.Puzzle{}, fmt.Errorf("%w: %s has %d lines, need at least 3", ErrBadFormat, name, len(lines))
	}

	required, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil || required < 0 {
		return game.Puzzle{}, fmt.Errorf("%w: %s: bad word count %q", ErrBadFormat, name, lines[1])
	}

	words := make([]string, 0, len(lines)-2)
	for _, l := range lines[2:] {
		if w := strings.TrimSpace(l); w != "" {
			words = append(words, w)
		}
	}

	return game.Puzzle{
		Name:     name,
		Text:     lines[0],
		Required: required,
		Words:    words,
	}, nil
}

// Picker chooses an index in [0, n) for n > 0.
type Picker interface {
	Pick(n int) int
}

// RandomPicker picks uniformly using crypto/rand.
type RandomPicker struct{}

func (RandomPicker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// DailyPicker returns the same index for every draw on the same UTC day.
type DailyPicker struct {
	Salt string
	Now  func() time.Time // defaults to time.Now
}

func (d DailyPicker) Pick(n int) int {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	return daily.Index(now(), d.Salt, n)
}

// NewPicker maps a draw mode name ("random" or "daily") to a Picker.
func NewPicker(mode, salt string) (Picker, error) {
	switch mode {
	case "", "random":
		return RandomPicker{}, nil
	case "daily":
		return DailyPicker{Salt: salt}, nil
	default:
		return nil, fmt.Errorf("unknown draw mode %q", mode)
	}
}
