package wordlist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

const samplePuzzle = "ABCDCATBATRAT\r\n3\r\ncat\nbat\n\n  rat  \n"

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(samplePuzzle), "sample.txt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Text != "ABCDCATBATRAT" {
		t.Fatalf("text = %q", p.Text)
	}
	if p.Required != 3 {
		t.Fatalf("required = %d, want 3", p.Required)
	}
	want := []string{"cat", "bat", "rat"}
	if strings.Join(p.Words, ",") != strings.Join(want, ",") {
		t.Fatalf("words = %v, want %v", p.Words, want)
	}
	if p.Name != "sample.txt" {
		t.Fatalf("name = %q", p.Name)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"too short":   "PUZZLE\n3\n",
		"non-numeric": "PUZZLE\nthree\ncat\n",
		"negative":    "PUZZLE\n-1\ncat\n",
		"empty":       "",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in), name)
			if !errors.Is(err, ErrBadFormat) {
				t.Fatalf("err = %v, want ErrBadFormat", err)
			}
		})
	}
}

type fixedPicker int

func (f fixedPicker) Pick(n int) int { return int(f) % n }

func TestFSSourceDraw(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt":    {Data: []byte("AAAA\n1\nant\n")},
		"b.txt":    {Data: []byte("BBBB\n2\nbee\nbat\n")},
		"notes.md": {Data: []byte("ignored")},
	}
	src := NewFSSource(fsys, "test", fixedPicker(1))

	p, err := src.Draw(context.Background())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.Name != "b.txt" || p.Required != 2 {
		t.Fatalf("drew %s/%d, want b.txt/2", p.Name, p.Required)
	}

	st, err := src.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Puzzles != 2 || st.Kind != "test" {
		t.Fatalf("stats = %+v", st)
	}
}

func TestFSSourceEmpty(t *testing.T) {
	src := NewFSSource(fstest.MapFS{}, "empty", nil)
	if _, err := src.Draw(context.Background()); !errors.Is(err, ErrNoWordLists) {
		t.Fatalf("err = %v, want ErrNoWordLists", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "one.txt"), []byte("XYZ\n1\nxyz\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewDirSource(dir, nil)
	if err != nil {
		t.Fatalf("new dir source: %v", err)
	}
	p, err := src.Draw(context.Background())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.Text != "XYZ" {
		t.Fatalf("text = %q", p.Text)
	}

	if _, err := NewDirSource(filepath.Join(dir, "missing"), nil); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestEmbeddedSourceHasPuzzles(t *testing.T) {
	src := NewEmbeddedSource(nil)
	st, err := src.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Puzzles == 0 {
		t.Fatalf("no embedded puzzles")
	}
	p, err := src.Draw(context.Background())
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if p.Required == 0 || len(p.Words) < p.Required {
		t.Fatalf("embedded puzzle %s is unwinnable: %d words, need %d", p.Name, len(p.Words), p.Required)
	}
}

func TestNewPicker(t *testing.T) {
	if _, err := NewPicker("random", ""); err != nil {
		t.Fatalf("random: %v", err)
	}
	p, err := NewPicker("daily", "salt")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if _, ok := p.(DailyPicker); !ok {
		t.Fatalf("daily picker type = %T", p)
	}
	if _, err := NewPicker("weekly", ""); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestDailyPickerStable(t *testing.T) {
	day := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	p := DailyPicker{Salt: "s", Now: func() time.Time { return day }}
	first := p.Pick(50)
	for i := 0; i < 5; i++ {
		if got := p.Pick(50); got != first {
			t.Fatalf("pick = %d, want %d", got, first)
		}
	}
}

func TestRandomPickerRange(t *testing.T) {
	var p RandomPicker
	for i := 0; i < 100; i++ {
		if got := p.Pick(3); got < 0 || got >= 3 {
			t.Fatalf("pick = %d out of range", got)
		}
	}
	if got := p.Pick(1); got != 0 {
		t.Fatalf("pick(1) = %d", got)
	}
}
