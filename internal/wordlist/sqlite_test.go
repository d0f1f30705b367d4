package wordlist

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/robalobadob/wordhunt/internal/game"
)

func openTestDB(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "words.db"), fixedPicker(0))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestSQLiteEmpty(t *testing.T) {
	src := openTestDB(t)
	if _, err := src.Draw(context.Background()); !errors.Is(err, ErrNoWordLists) {
		t.Fatalf("err = %v, want ErrNoWordLists", err)
	}
}

func TestSQLiteImportAndDraw(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t)

	p := game.Puzzle{Text: "CATDOG", Required: 2, Words: []string{"dog", "cat", "cat"}}
	if err := src.Import(ctx, "pets", p); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := src.Draw(ctx)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if got.Name != "pets" || got.Text != "CATDOG" || got.Required != 2 {
		t.Fatalf("drew %+v", got)
	}
	sort.Strings(got.Words)
	if len(got.Words) != 2 || got.Words[0] != "cat" || got.Words[1] != "dog" {
		t.Fatalf("words = %v", got.Words)
	}
}

func TestSQLiteImportReplacesByName(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t)

	if err := src.Import(ctx, "x", game.Puzzle{Text: "OLD", Required: 1, Words: []string{"old"}}); err != nil {
		t.Fatal(err)
	}
	if err := src.Import(ctx, "x", game.Puzzle{Text: "NEW", Required: 1, Words: []string{"new"}}); err != nil {
		t.Fatal(err)
	}

	st, err := src.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Puzzles != 1 {
		t.Fatalf("puzzles = %d, want 1", st.Puzzles)
	}
	got, err := src.Draw(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "NEW" || len(got.Words) != 1 || got.Words[0] != "new" {
		t.Fatalf("drew %+v", got)
	}
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.db")
	for i := 0; i < 2; i++ {
		src, err := OpenSQLite(path, nil)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		_ = src.Close()
	}
}

func TestSQLiteImportRejectsEmptyName(t *testing.T) {
	src := openTestDB(t)
	err := src.Import(context.Background(), "  ", game.Puzzle{Text: "X", Required: 1, Words: []string{"x"}})
	if !errors.Is(err, ErrBadFormat) {
		t.Fatalf("err = %v, want ErrBadFormat", err)
	}
}
