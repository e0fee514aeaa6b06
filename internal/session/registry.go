// ABOUTME: Session registry tracking opaque participant tokens and one-shot flash signals
// ABOUTME: Bounds its own size by evicting stale anonymous entries, oldest first

package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrUnknownSession is returned when an operation names a token the registry
// has never seen (typically a stale or garbage token from an old link).
var ErrUnknownSession = errors.New("unknown session")

// Flash is a one-shot signal attached to a session token. It is consumed
// (reset to empty) the instant it is read.
type Flash string

// Flash values
const (
	FlashNone        Flash = ""
	FlashFillSuccess Flash = "fill_success"
	FlashDrawSuccess Flash = "draw_success"
)

// tokenLength is the length of generated session tokens.
const tokenLength = 10

// tokenAlphabet is the character set for generated tokens.
const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultOverflowSlack is how many entries beyond the known-author count the
// registry tolerates before evicting anonymous sessions.
const DefaultOverflowSlack = 1024

// evictionGrace is how long an anonymous session is protected from eviction.
const evictionGrace = time.Hour

// AuthorSource supplies the ids of everyone who has submitted a wish note.
// The registry preloads its entries from this set and never evicts a token
// that belongs to an author.
type AuthorSource interface {
	AuthorIDs() []string
}

// entry is one tracked session.
type entry struct {
	flash   Flash
	created time.Time
}

// Registry issues and tracks opaque session tokens. Anonymous visitors each
// get an entry, so the registry grows with traffic; when it reaches the
// known-author count plus the overflow slack, anonymous entries are evicted
// oldest first — everything past the grace period, plus as many more as the
// cap requires. Author entries and recent anonymous sessions keep their
// flash state.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	authors AuthorSource
	slack   int
	grace   time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewRegistry creates a registry preloaded with an empty-flash entry for
// every known author. A slack of 0 selects DefaultOverflowSlack.
func NewRegistry(authors AuthorSource, slack int) *Registry {
	if slack <= 0 {
		slack = DefaultOverflowSlack
	}

	r := &Registry{
		entries: make(map[string]*entry),
		authors: authors,
		slack:   slack,
		grace:   evictionGrace,
		now:     time.Now,
		logger:  slog.Default().With("component", "session"),
	}
	for _, id := range authors.AuthorIDs() {
		r.entries[id] = &entry{}
	}
	return r
}

// ResolveOrCreate returns the session token for a request. A non-empty token
// is trusted as-is and returned unchanged, with no existence check. An empty
// token gets a fresh random one, registered with empty flash. Generated
// tokens are not checked for collisions; at 62^10 the risk is accepted.
func (r *Registry) ResolveOrCreate(token string) (string, error) {
	if token != "" {
		return token, nil
	}

	fresh, err := newToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked()
	r.entries[fresh] = &entry{created: r.now()}
	return fresh, nil
}

// evictLocked makes room for one more entry once the registry reaches its
// cap. Only anonymous entries are candidates; tokens in the current author
// set are never evicted.
func (r *Registry) evictLocked() {
	authorSet := make(map[string]bool)
	for _, id := range r.authors.AuthorIDs() {
		authorSet[id] = true
	}

	limit := len(authorSet) + r.slack
	if len(r.entries) < limit {
		return
	}

	type aged struct {
		token   string
		created time.Time
	}
	var anon []aged
	for token, e := range r.entries {
		if !authorSet[token] {
			anon = append(anon, aged{token: token, created: e.created})
		}
	}
	sort.Slice(anon, func(i, j int) bool { return anon[i].created.Before(anon[j].created) })

	cutoff := r.now().Add(-r.grace)
	evicted := 0
	for _, a := range anon {
		if len(r.entries) < limit && a.created.After(cutoff) {
			break
		}
		delete(r.entries, a.token)
		evicted++
	}
	if evicted > 0 {
		r.logger.Info("evicted anonymous sessions", "evicted", evicted, "remaining", len(r.entries))
	}
}

// Known reports whether the token is registered.
func (r *Registry) Known(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[token]
	return ok
}

// SetFlash overwrites the token's flash signal.
func (r *Registry) SetFlash(token string, f Flash) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[token]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, token)
	}
	e.flash = f
	return nil
}

// TakeFlash returns the token's current flash and atomically resets it to
// empty. Repeated calls before the next SetFlash return FlashNone. Unknown
// tokens also return FlashNone.
func (r *Registry) TakeFlash(token string) Flash {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[token]
	if !ok {
		return FlashNone
	}
	f := e.flash
	e.flash = FlashNone
	return f
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// newToken generates a random fixed-length alphanumeric token.
func newToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = tokenAlphabet[int(b[i])%len(tokenAlphabet)]
	}
	return string(b), nil
}
