package wordlist

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/game"
)

// FSSource deals puzzles from *.txt files in a file system. The listing is
// taken on every draw so files added or removed at runtime are picked up.
type FSSource struct {
	fsys   fs.FS
	kind   string
	picker Picker
}

// NewDirSource serves the puzzle files in dir.
func NewDirSource(dir string, p Picker) (*FSSource, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("words dir: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("words dir: %s is not a directory", dir)
	}
	return NewFSSource(os.DirFS(dir), "dir:"+dir, p), nil
}

// NewEmbeddedSource serves the puzzles bundled with the binary.
func NewEmbeddedSource(p Picker) *FSSource {
	return NewFSSource(assets.Puzzles(), "embedded", p)
}

// NewFSSource serves the puzzle files at the root of fsys.
func NewFSSource(fsys fs.FS, kind string, p Picker) *FSSource {
	if p == nil {
		p = RandomPicker{}
	}
	return &FSSource{fsys: fsys, kind: kind, picker: p}
}

func (s *FSSource) names() ([]string, error) {
	names, err := fs.Glob(s.fsys, "*.txt")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Draw picks one file and parses it.
func (s *FSSource) Draw(ctx context.Context) (game.Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return game.Puzzle{}, err
	}
	names, err := s.names()
	if err != nil {
		return game.Puzzle{}, fmt.Errorf("list puzzles: %w", err)
	}
	if len(names) == 0 {
		return game.Puzzle{}, ErrNoWordLists
	}

	name := names[s.picker.Pick(len(names))]
	f, err := s.fsys.Open(name)
	if err != nil {
		return game.Puzzle{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	return Parse(f, name)
}

func (s *FSSource) Stats(ctx context.Context) (Stats, error) {
	names, err := s.names()
	if err != nil {
		return Stats{}, err
	}
	return Stats{Kind: s.kind, Puzzles: len(names)}, nil
}
