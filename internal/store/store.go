// ABOUTME: Store interface and the WishNote record type for santa-exchange persistence
// ABOUTME: Defines the durable key-value contract implemented by the SQLite and file drivers

package store

import (
	"context"
)

// WishNote is one participant's submitted wish. Records are keyed by AuthorID
// and rewritten in full on every mutation; there are no partial updates.
type WishNote struct {
	// Presents holds exactly three desired presents, in the order submitted.
	Presents []string `json:"presents"`

	// MyPlace is a place the author has never visited.
	MyPlace string `json:"my_place"`

	// AuthorID is the session token of the author. Unique, set once at creation.
	AuthorID string `json:"author_id"`

	// SantaID is the session token of the assigned santa. Empty means
	// unassigned. Once set it is never cleared or changed.
	SantaID string `json:"santa_id"`
}

// Clone returns a deep copy of the note.
func (n *WishNote) Clone() *WishNote {
	c := *n
	c.Presents = append([]string(nil), n.Presents...)
	return &c
}

// Store is the durable record set behind the in-memory board. LoadAll is read
// once at process start; Put writes or overwrites the record keyed by the
// note's AuthorID. A Put failure is fatal for the enclosing operation: there
// is no retry and no partial-state repair.
type Store interface {
	LoadAll(ctx context.Context) ([]*WishNote, error)
	Put(ctx context.Context, note *WishNote) error
	Close() error
}
