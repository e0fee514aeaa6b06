// ABOUTME: File-per-record implementation of the Store interface
// ABOUTME: Writes one JSON document per wish note, named by author id

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// FileStore implements the Store interface with one JSON file per wish note
// under a single directory. The layout matches the original deployment's
// data/wishes/<author_id> files, so an existing data directory can be reused.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating wishes directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		logger: slog.Default().With("component", "store"),
	}
	s.logger.Info("file store initialized", "dir", dir)
	return s, nil
}

// LoadAll reads every record in the directory, oldest file first.
func (s *FileStore) LoadAll(ctx context.Context) ([]*WishNote, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading wishes directory: %w", err)
	}

	type fileInfo struct {
		name string
		mod  int64
	}
	infos := make([]fileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		infos = append(infos, fileInfo{name: e.Name(), mod: fi.ModTime().UnixNano()})
	}

	// Oldest first, name as tiebreaker, so the in-memory board keeps
	// submission order across restarts.
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].mod != infos[j].mod {
			return infos[i].mod < infos[j].mod
		}
		return infos[i].name < infos[j].name
	})

	notes := make([]*WishNote, 0, len(infos))
	for _, fi := range infos {
		data, err := os.ReadFile(filepath.Join(s.dir, fi.name))
		if err != nil {
			return nil, fmt.Errorf("reading wish %s: %w", fi.name, err)
		}
		var n WishNote
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("parsing wish %s: %w", fi.name, err)
		}
		notes = append(notes, &n)
	}

	s.logger.Info("loaded wish notes", "count", len(notes))
	return notes, nil
}

// Put writes the full record to <dir>/<author_id>, overwriting any previous
// version. Author ids are session tokens (alphanumeric), but validate anyway
// before using one as a filename.
func (s *FileStore) Put(_ context.Context, note *WishNote) error {
	if !validRecordKey(note.AuthorID) {
		return fmt.Errorf("invalid author id %q", note.AuthorID)
	}

	data, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("encoding wish %s: %w", note.AuthorID, err)
	}

	path := filepath.Join(s.dir, note.AuthorID)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing wish %s: %w", note.AuthorID, err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

// validRecordKey reports whether id is safe to use as a filename.
func validRecordKey(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
