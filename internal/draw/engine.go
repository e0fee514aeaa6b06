// ABOUTME: Draw engine assigning requesters as santas for eligible wish notes
// ABOUTME: Selection policy plus flash bookkeeping around the board's atomic draw

package draw

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/2389/santa-exchange/internal/notes"
	"github.com/2389/santa-exchange/internal/session"
)

// Engine performs draws. The board runs the whole select-assign-persist
// sequence atomically; the engine contributes the selection policy and sets
// the requester's success flash afterwards.
type Engine struct {
	board    *notes.Board
	sessions *session.Registry
	logger   *slog.Logger

	// intn is the random source for selection, replaceable in tests.
	intn func(n int) int
}

// New creates a draw engine over the given board and session registry.
func New(board *notes.Board, sessions *session.Registry) *Engine {
	return &Engine{
		board:    board,
		sessions: sessions,
		logger:   slog.Default().With("component", "draw"),
		intn:     rand.Intn,
	}
}

// Draw assigns the requester as santa for one eligible note and returns the
// chosen author id. Precondition failures surface as the board's domain
// errors (ErrNotYetSubmitted, ErrAlreadyDrawn, ErrNothingAvailable).
func (e *Engine) Draw(ctx context.Context, requesterID string) (string, error) {
	pickedID, err := e.board.DrawWith(ctx, requesterID, e.pick)
	if err != nil {
		return "", err
	}

	// The requester authored a note, so their session survives compaction;
	// a missing entry here is only possible with a hand-crafted token.
	if err := e.sessions.SetFlash(requesterID, session.FlashDrawSuccess); err != nil {
		e.logger.Warn("setting draw flash", "santa", requesterID, "error", err)
	}
	return pickedID, nil
}

// pick selects one author id from the eligible pool by uniform rejection
// sampling, never returning the requester — except for a pool of one, which
// yields its sole entry even when that entry is the requester. The last
// participant to draw can end up as their own santa; that matches the
// long-standing behavior of the exchange and is pinned by tests.
func (e *Engine) pick(avail []string, requesterID string) string {
	if len(avail) == 1 {
		return avail[0]
	}
	for {
		candidate := avail[e.intn(len(avail))]
		if candidate != requesterID {
			return candidate
		}
	}
}
