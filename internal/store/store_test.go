// ABOUTME: Tests for the SQLite wish-note store
// ABOUTME: Covers roundtrips, full-record rewrites, and load ordering

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func testNote(author string) *WishNote {
	return &WishNote{
		Presents: []string{"socks", "book", "game"},
		MyPlace:  "lighthouse",
		AuthorID: author,
	}
}

func TestSQLiteStore_PutAndLoadAll(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testNote("alice")))

	notes, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.Equal(t, "alice", notes[0].AuthorID)
	assert.Equal(t, []string{"socks", "book", "game"}, notes[0].Presents)
	assert.Equal(t, "lighthouse", notes[0].MyPlace)
	assert.Empty(t, notes[0].SantaID)
}

func TestSQLiteStore_PutRewritesFullRecord(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testNote("alice")))

	updated := testNote("alice")
	updated.SantaID = "bob"
	require.NoError(t, store.Put(ctx, updated))

	notes, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1, "rewrite must not create a second record")
	assert.Equal(t, "bob", notes[0].SantaID)
}

func TestSQLiteStore_LoadAllPreservesInsertionOrder(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var want []string
	for i := 0; i < 10; i++ {
		author := fmt.Sprintf("author%02d", i)
		require.NoError(t, store.Put(ctx, testNote(author)))
		want = append(want, author)
	}

	notes, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, notes, len(want))
	for i, n := range notes {
		assert.Equal(t, want[i], n.AuthorID)
	}
}

func TestSQLiteStore_LoadAllEmpty(t *testing.T) {
	store := setupTestStore(t)

	notes, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSQLiteStore_PutRejectsWrongPresentCount(t *testing.T) {
	store := setupTestStore(t)

	bad := &WishNote{
		Presents: []string{"just one"},
		MyPlace:  "somewhere",
		AuthorID: "alice",
	}
	err := store.Put(context.Background(), bad)
	assert.Error(t, err)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Put(context.Background(), testNote("alice")))

	notes, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}
