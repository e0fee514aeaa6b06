// ABOUTME: Tests for the HTTP surface: view, submit, and draw flows
// ABOUTME: Covers status mapping, redirects, flash one-shot display, and closed phases

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/santa-exchange/internal/draw"
	"github.com/2389/santa-exchange/internal/event"
	"github.com/2389/santa-exchange/internal/notes"
	"github.com/2389/santa-exchange/internal/session"
	"github.com/2389/santa-exchange/internal/store"
)

type fixture struct {
	handler  http.Handler
	board    *notes.Board
	sessions *session.Registry
}

func setup(t *testing.T, manifest *event.Manifest) *fixture {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	board, err := notes.NewBoard(context.Background(), st)
	require.NoError(t, err)

	sessions := session.NewRegistry(board, 0)
	engine := draw.New(board, sessions)

	if manifest == nil {
		manifest = event.Default()
	}
	h := New(board, sessions, engine, manifest, "")

	return &fixture{
		handler:  h.Routes(),
		board:    board,
		sessions: sessions,
	}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func (f *fixture) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

// newToken visits the index without a token and extracts the issued one.
func (f *fixture) newToken(t *testing.T) string {
	t.Helper()
	w := f.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)

	m := regexp.MustCompile(`name="id" value="([A-Za-z0-9]+)"`).FindStringSubmatch(w.Body.String())
	require.NotNil(t, m, "index page must embed the issued token")
	return m[1]
}

func submitForm(id string) url.Values {
	return url.Values{
		"id":       {id},
		"present1": {"socks"},
		"present2": {"book"},
		"present3": {"game"},
		"my_place": {"lighthouse"},
	}
}

func TestView_FreshVisitorGetsToken(t *testing.T) {
	f := setup(t, nil)

	w := f.get(t, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Leave your wish note", "fresh visitor sees the submit form")
	assert.Contains(t, body, "No wish notes yet.")
	assert.NotContains(t, body, "You are the santa")
}

func TestSubmit_FullFlow(t *testing.T) {
	f := setup(t, nil)
	token := f.newToken(t)

	w := f.post(t, "/submit_wish", submitForm(token))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?id="+token, w.Header().Get("Location"))

	// First revisit shows filled state and the one-shot success flash.
	w = f.get(t, "/?id="+token)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Your wish note is in")
	assert.NotContains(t, body, "Leave your wish note", "filled participants see no form")
	assert.Contains(t, body, "Wish notes (1)")

	// The flash is consumed; the second visit shows none.
	w = f.get(t, "/?id="+token)
	assert.NotContains(t, w.Body.String(), "Your wish note is in")
}

func TestSubmit_UnknownSession(t *testing.T) {
	f := setup(t, nil)

	w := f.post(t, "/submit_wish", submitForm("neverIssued"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), msgUnknownSession)
}

func TestSubmit_Duplicate(t *testing.T) {
	f := setup(t, nil)
	token := f.newToken(t)

	require.Equal(t, http.StatusSeeOther, f.post(t, "/submit_wish", submitForm(token)).Code)

	w := f.post(t, "/submit_wish", submitForm(token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), msgDuplicate)
}

func TestSubmit_ValidationFieldOrder(t *testing.T) {
	tests := []struct {
		clear   string
		wantMsg string
	}{
		{"present1", validationMessages["present1"]},
		{"present2", validationMessages["present2"]},
		{"present3", validationMessages["present3"]},
		{"my_place", validationMessages["place"]},
	}

	for _, tc := range tests {
		t.Run(tc.clear, func(t *testing.T) {
			f := setup(t, nil)
			token := f.newToken(t)

			form := submitForm(token)
			form.Set(tc.clear, "")

			w := f.post(t, "/submit_wish", form)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantMsg)
		})
	}
}

func TestSubmit_Closed(t *testing.T) {
	m := event.Default()
	m.SubmissionsOpen = false
	f := setup(t, m)
	token := f.newToken(t)

	w := f.post(t, "/submit_wish", submitForm(token))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), msgSubmissionsClosed)
}

func TestDraw_TwoAuthorFlow(t *testing.T) {
	f := setup(t, nil)
	tokenA := f.newToken(t)
	tokenB := f.newToken(t)

	require.Equal(t, http.StatusSeeOther, f.post(t, "/submit_wish", submitForm(tokenA)).Code)
	require.Equal(t, http.StatusSeeOther, f.post(t, "/submit_wish", submitForm(tokenB)).Code)

	// A draws; the only eligible non-self note is B's.
	w := f.post(t, "/draw", url.Values{"id": {tokenA}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?id="+tokenA, w.Header().Get("Location"))

	drawn, ok := f.board.FindBySanta(tokenA)
	require.True(t, ok)
	assert.Equal(t, tokenB, drawn.AuthorID)

	// The revisit shows the draw flash once and the drawn note.
	w = f.get(t, "/?id="+tokenA)
	body := w.Body.String()
	assert.Contains(t, body, "You drew a note")
	assert.Contains(t, body, "You are the santa")

	w = f.get(t, "/?id="+tokenA)
	assert.NotContains(t, w.Body.String(), "You drew a note")

	// A second draw is rejected.
	w = f.post(t, "/draw", url.Values{"id": {tokenA}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), msgAlreadyDrawn)
}

func TestDraw_NotYetSubmitted(t *testing.T) {
	f := setup(t, nil)
	token := f.newToken(t)

	w := f.post(t, "/draw", url.Values{"id": {token}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), msgNotYetSubmitted)
}

func TestDraw_Closed(t *testing.T) {
	m := event.Default()
	m.DrawOpen = false
	f := setup(t, m)

	w := f.post(t, "/draw", url.Values{"id": {"anything"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), msgDrawClosed)
}

func TestHealth(t *testing.T) {
	f := setup(t, nil)

	w := f.get(t, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestView_ShowsGreeting(t *testing.T) {
	m := event.Default()
	m.Greeting = "Ho **ho** ho."
	m.GreetingHTML = "<p>Ho <strong>ho</strong> ho.</p>"
	f := setup(t, m)

	w := f.get(t, "/")
	assert.Contains(t, w.Body.String(), "<strong>ho</strong>")
}
