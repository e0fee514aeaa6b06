// ABOUTME: In-memory authoritative wish-note set backed by a durable store
// ABOUTME: All mutations persist through the store before becoming visible in memory

package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/2389/santa-exchange/internal/store"
)

// Domain errors surfaced to the transport layer.
var (
	// ErrDuplicateSubmission is returned when an author submits a second note.
	ErrDuplicateSubmission = errors.New("wish note already submitted")

	// ErrNotYetSubmitted is returned when someone tries to draw before
	// submitting their own note.
	ErrNotYetSubmitted = errors.New("no wish note submitted yet")

	// ErrAlreadyDrawn is returned when someone who already drew tries again.
	ErrAlreadyDrawn = errors.New("already drawn")

	// ErrNothingAvailable is returned when every note has a santa.
	ErrNothingAvailable = errors.New("no notes available to draw")
)

// ValidationError reports the first empty required field of a submission,
// checked in order present1, present2, present3, place.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// PickFunc selects one author id from the eligible pool. It is called with
// the board's write lock held and must not call back into the board.
type PickFunc func(avail []string, requesterID string) string

// Board owns every wish note in memory. Listings take a read lock and may
// proceed concurrently; append and draw mutations are exclusive. A mutation
// persists through the durable store before it is committed to memory, so a
// storage failure never leaves the two diverged.
type Board struct {
	mu       sync.RWMutex
	notes    []*store.WishNote
	byAuthor map[string]*store.WishNote
	store    store.Store
	logger   *slog.Logger
}

// NewBoard loads the durable record set and seeds the in-memory board.
func NewBoard(ctx context.Context, st store.Store) (*Board, error) {
	loaded, err := st.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading wish notes: %w", err)
	}

	b := &Board{
		notes:    make([]*store.WishNote, 0, len(loaded)),
		byAuthor: make(map[string]*store.WishNote, len(loaded)),
		store:    st,
		logger:   slog.Default().With("component", "notes"),
	}
	for _, n := range loaded {
		if _, ok := b.byAuthor[n.AuthorID]; ok {
			return nil, fmt.Errorf("duplicate author %s in durable store", n.AuthorID)
		}
		b.notes = append(b.notes, n)
		b.byAuthor[n.AuthorID] = n
	}
	return b, nil
}

// List returns copies of all notes in insertion order.
func (b *Board) List() []store.WishNote {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]store.WishNote, 0, len(b.notes))
	for _, n := range b.notes {
		out = append(out, *n.Clone())
	}
	return out
}

// HasAuthor reports whether id has submitted a note.
func (b *Board) HasAuthor(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.byAuthor[id]
	return ok
}

// FindByAuthor returns a copy of the note authored by id.
func (b *Board) FindByAuthor(id string) (*store.WishNote, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n, ok := b.byAuthor[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// FindBySanta returns a copy of the note id was assigned to fulfil.
func (b *Board) FindBySanta(id string) (*store.WishNote, bool) {
	if id == "" {
		return nil, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, n := range b.notes {
		if n.SantaID == id {
			return n.Clone(), true
		}
	}
	return nil, false
}

// AuthorIDs returns every author id in insertion order.
func (b *Board) AuthorIDs() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.notes))
	for _, n := range b.notes {
		ids = append(ids, n.AuthorID)
	}
	return ids
}

// Append validates and stores a new wish note. The duplicate check comes
// before field validation. The note is persisted before it is committed to
// memory: if the durable write fails, the note never becomes visible.
func (b *Board) Append(ctx context.Context, note *store.WishNote) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byAuthor[note.AuthorID]; ok {
		return ErrDuplicateSubmission
	}
	if err := validate(note); err != nil {
		return err
	}

	stored := note.Clone()
	stored.SantaID = ""
	if err := b.store.Put(ctx, stored); err != nil {
		return fmt.Errorf("persisting wish note: %w", err)
	}

	b.notes = append(b.notes, stored)
	b.byAuthor[stored.AuthorID] = stored
	b.logger.Info("wish note submitted", "author", stored.AuthorID)
	return nil
}

// DrawWith runs the whole pick-assign-persist draw sequence under one
// exclusive hold, so at most one santa is ever assigned per note even when
// draws race. Preconditions are checked in order: the requester must have
// authored a note, must not already be a santa, and the eligible pool must
// be non-empty. The updated record is persisted before the in-memory
// santa id is set.
func (b *Board) DrawWith(ctx context.Context, requesterID string, pick PickFunc) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.byAuthor[requesterID]; !ok {
		return "", ErrNotYetSubmitted
	}
	for _, n := range b.notes {
		if n.SantaID == requesterID {
			return "", ErrAlreadyDrawn
		}
	}

	var avail []string
	for _, n := range b.notes {
		if n.SantaID == "" {
			avail = append(avail, n.AuthorID)
		}
	}
	if len(avail) == 0 {
		return "", ErrNothingAvailable
	}

	pickedID := pick(avail, requesterID)
	picked := b.byAuthor[pickedID]

	updated := picked.Clone()
	updated.SantaID = requesterID
	if err := b.store.Put(ctx, updated); err != nil {
		return "", fmt.Errorf("persisting assignment: %w", err)
	}

	picked.SantaID = requesterID
	b.logger.Info("santa assigned", "author", pickedID, "santa", requesterID)
	return pickedID, nil
}

// validate checks the required fields in the order the form presents them.
func validate(note *store.WishNote) error {
	fields := []struct {
		name  string
		value string
	}{
		{"present1", present(note, 0)},
		{"present2", present(note, 1)},
		{"present3", present(note, 2)},
		{"place", note.MyPlace},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name}
		}
	}
	return nil
}

func present(note *store.WishNote, i int) string {
	if i >= len(note.Presents) {
		return ""
	}
	return note.Presents[i]
}
