// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Keeps one row per wish note with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS wishes (
			author_id  TEXT PRIMARY KEY,
			present1   TEXT NOT NULL,
			present2   TEXT NOT NULL,
			present3   TEXT NOT NULL,
			my_place   TEXT NOT NULL,
			santa_id   TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_wishes_santa ON wishes(santa_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// LoadAll returns every wish note in insertion order.
func (s *SQLiteStore) LoadAll(ctx context.Context) ([]*WishNote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author_id, present1, present2, present3, my_place, santa_id
		FROM wishes
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying wishes: %w", err)
	}
	defer rows.Close()

	var notes []*WishNote
	for rows.Next() {
		var n WishNote
		var p1, p2, p3 string
		if err := rows.Scan(&n.AuthorID, &p1, &p2, &p3, &n.MyPlace, &n.SantaID); err != nil {
			return nil, fmt.Errorf("scanning wish: %w", err)
		}
		n.Presents = []string{p1, p2, p3}
		notes = append(notes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wishes: %w", err)
	}

	s.logger.Info("loaded wish notes", "count", len(notes))
	return notes, nil
}

// Put writes or overwrites the record keyed by the note's author id.
// The full record is rewritten on every call.
func (s *SQLiteStore) Put(ctx context.Context, note *WishNote) error {
	if len(note.Presents) != 3 {
		return fmt.Errorf("wish note must have exactly 3 presents, got %d", len(note.Presents))
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wishes (author_id, present1, present2, present3, my_place, santa_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(author_id) DO UPDATE SET
			present1   = excluded.present1,
			present2   = excluded.present2,
			present3   = excluded.present3,
			my_place   = excluded.my_place,
			santa_id   = excluded.santa_id,
			updated_at = excluded.updated_at
	`, note.AuthorID, note.Presents[0], note.Presents[1], note.Presents[2], note.MyPlace, note.SantaID, now, now)
	if err != nil {
		return fmt.Errorf("writing wish %s: %w", note.AuthorID, err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
