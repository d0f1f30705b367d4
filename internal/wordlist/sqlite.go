// internal/wordlist/sqlite.go
//
// SQLite-backed puzzle source.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Importing parsed puzzle files and dealing them back out.

package wordlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordhunt/assets"
	"github.com/robalobadob/wordhunt/internal/game"
)

// SQLiteSource deals puzzles stored in the puzzles/puzzle_words tables.
type SQLiteSource struct {
	db     *sql.DB
	picker Picker
}

/**
 * OpenSQLite opens (and creates if missing) the puzzle database at dsn and
 * applies migrations.
 *
 * - Ensures the parent directory exists for relative paths (e.g. ./data/words.db).
 * - Configures busy timeout, WAL journaling and foreign keys on every connection.
 */
func OpenSQLite(dsn string, p Picker) (*SQLiteSource, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if p == nil {
		p = RandomPicker{}
	}
	return &SQLiteSource{db: db, picker: p}, nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error { return s.db.Close() }

/**
 * migrate applies the *.sql files in fsys in lexical order.
 *
 * - Uses a _migrations table to track applied files.
 * - Each file runs inside its own transaction together with its record row.
 */
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/**
 * Import stores p under name, replacing any puzzle already stored under the
 * same name. Duplicate words collapse to one row.
 */
func (s *SQLiteSource) Import(ctx context.Context, name string, p game.Puzzle) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty puzzle name", ErrBadFormat)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM puzzle_words WHERE puzzle_id IN (SELECT id FROM puzzles WHERE name=?)`, name); err != nil {
		return fmt.Errorf("clear words %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM puzzles WHERE name=?`, name); err != nil {
		return fmt.Errorf("clear puzzle %s: %w", name, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO puzzles (name, text, required) VALUES (?, ?, ?)`, name, p.Text, p.Required)
	if err != nil {
		return fmt.Errorf("insert puzzle %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, w := range p.Words {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO puzzle_words (puzzle_id, word) VALUES (?, ?)`, id, w); err != nil {
			return fmt.Errorf("insert word %s: %w", w, err)
		}
	}
	return tx.Commit()
}

// Draw picks one stored puzzle.
func (s *SQLiteSource) Draw(ctx context.Context) (game.Puzzle, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM puzzles`).Scan(&n); err != nil {
		return game.Puzzle{}, fmt.Errorf("count puzzles: %w", err)
	}
	if n == 0 {
		return game.Puzzle{}, ErrNoWordLists
	}

	var (
		id int64
		p  game.Puzzle
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, text, required FROM puzzles ORDER BY id LIMIT 1 OFFSET ?`,
		s.picker.Pick(n),
	).Scan(&id, &p.Name, &p.Text, &p.Required)
	if errors.Is(err, sql.ErrNoRows) {
		// deleted between the count and the select
		return game.Puzzle{}, ErrNoWordLists
	}
	if err != nil {
		return game.Puzzle{}, fmt.Errorf("select puzzle: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word FROM puzzle_words WHERE puzzle_id=? ORDER BY word`, id)
	if err != nil {
		return game.Puzzle{}, fmt.Errorf("select words: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return game.Puzzle{}, err
		}
		p.Words = append(p.Words, w)
	}
	return p, rows.Err()
}

func (s *SQLiteSource) Stats(ctx context.Context) (Stats, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM puzzles`).Scan(&n); err != nil {
		return Stats{}, err
	}
	return Stats{Kind: "sqlite", Puzzles: n}, nil
}
