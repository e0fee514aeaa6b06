// ABOUTME: HTTP handlers for the exchange: listing page, wish submission, and draw
// ABOUTME: Maps core domain errors to fixed user-facing messages and status codes

package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/2389/santa-exchange/internal/draw"
	"github.com/2389/santa-exchange/internal/event"
	"github.com/2389/santa-exchange/internal/notes"
	"github.com/2389/santa-exchange/internal/session"
	"github.com/2389/santa-exchange/internal/store"
)

// Fixed user-facing error messages, one per error kind.
const (
	msgUnknownSession    = "We don't recognize this session. Start again from the home page."
	msgDuplicate         = "You have already submitted a wish note."
	msgNotYetSubmitted   = "You haven't submitted a wish note yet."
	msgAlreadyDrawn      = "You have already drawn."
	msgNothingAvailable  = "All wish notes have been drawn."
	msgSubmissionsClosed = "Submissions are closed."
	msgDrawClosed        = "The draw is closed."
	msgInternal          = "Internal error."
)

// validationMessages maps a missing field to its fixed message.
var validationMessages = map[string]string{
	"present1": "The first present is required.",
	"present2": "The second present is required.",
	"present3": "The third present is required.",
	"place":    "The place you have never been is required.",
}

// Handler serves the exchange's HTML surface. It resolves the session token
// before invoking core operations and maps core results to redirects and
// error pages.
type Handler struct {
	board     *notes.Board
	sessions  *session.Registry
	engine    *draw.Engine
	manifest  *event.Manifest
	staticDir string
	logger    *slog.Logger
}

// New creates the web handler.
func New(board *notes.Board, sessions *session.Registry, engine *draw.Engine, manifest *event.Manifest, staticDir string) *Handler {
	return &Handler{
		board:     board,
		sessions:  sessions,
		engine:    engine,
		manifest:  manifest,
		staticDir: staticDir,
		logger:    slog.Default().With("component", "web"),
	}
}

// Routes returns the handler's route table wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", methodOnly(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		h.handleIndex(w, r)
	}))
	mux.HandleFunc("/submit_wish", methodOnly(http.MethodPost, h.handleSubmitWish))
	mux.HandleFunc("/draw", methodOnly(http.MethodPost, h.handleDraw))
	mux.HandleFunc("/health", methodOnly(http.MethodGet, h.handleHealth))

	if h.staticDir != "" {
		mux.Handle("/static/", methodOnly(http.MethodGet, http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))).ServeHTTP))
	}

	return h.logRequests(mux)
}

// methodOnly restricts a handler to one HTTP method, mirroring the method
// patterns of the Go 1.22+ ServeMux on the Go 1.21 mux.
func methodOnly(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

// handleIndex renders the listing page. A visitor without a token gets a
// fresh one; the redirect-carried token in ?id= identifies returning
// participants.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessions.ResolveOrCreate(r.URL.Query().Get("id"))
	if err != nil {
		h.logger.Error("resolving session", "error", err)
		h.renderError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	flash := h.sessions.TakeFlash(token)
	drawnNote, _ := h.board.FindBySanta(token)

	data := indexData{
		Title:           h.manifest.Title,
		Greeting:        h.manifest.GreetingHTML,
		Notes:           h.board.List(),
		Filled:          h.board.HasAuthor(token),
		ID:              token,
		SubmissionsOpen: h.manifest.SubmissionsOpen,
		DrawEnabled:     h.manifest.DrawOpen,
		FillSuccess:     flash == session.FlashFillSuccess,
		DrawSuccess:     flash == session.FlashDrawSuccess,
		DrawnNote:       drawnNote,
	}
	h.renderIndex(w, data)
}

// handleSubmitWish accepts a wish note submission and redirects back to the
// listing page with the submitter's token.
func (h *Handler) handleSubmitWish(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, msgInternal)
		return
	}

	if !h.manifest.SubmissionsOpen {
		h.renderError(w, http.StatusForbidden, msgSubmissionsClosed)
		return
	}

	id := r.FormValue("id")
	if !h.sessions.Known(id) {
		h.renderError(w, http.StatusForbidden, msgUnknownSession)
		return
	}

	note := &store.WishNote{
		Presents: []string{
			r.FormValue("present1"),
			r.FormValue("present2"),
			r.FormValue("present3"),
		},
		MyPlace:  r.FormValue("my_place"),
		AuthorID: id,
	}

	if err := h.board.Append(r.Context(), note); err != nil {
		h.renderSubmitFailure(w, err)
		return
	}

	if err := h.sessions.SetFlash(id, session.FlashFillSuccess); err != nil {
		h.logger.Warn("setting fill flash", "author", id, "error", err)
	}

	http.Redirect(w, r, "/?id="+url.QueryEscape(id), http.StatusSeeOther)
}

// renderSubmitFailure maps an Append error to its page and status.
func (h *Handler) renderSubmitFailure(w http.ResponseWriter, err error) {
	var ve *notes.ValidationError
	switch {
	case errors.Is(err, notes.ErrDuplicateSubmission):
		h.renderError(w, http.StatusBadRequest, msgDuplicate)
	case errors.As(err, &ve):
		h.renderError(w, http.StatusUnprocessableEntity, validationMessages[ve.Field])
	default:
		h.logger.Error("submitting wish note", "error", err)
		h.renderError(w, http.StatusInternalServerError, msgInternal)
	}
}

// handleDraw assigns the requester as santa for one eligible note and
// redirects back to the listing page.
func (h *Handler) handleDraw(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, msgInternal)
		return
	}

	if !h.manifest.DrawOpen {
		h.renderError(w, http.StatusForbidden, msgDrawClosed)
		return
	}

	id := r.FormValue("id")
	if _, err := h.engine.Draw(r.Context(), id); err != nil {
		h.renderDrawFailure(w, err)
		return
	}

	http.Redirect(w, r, "/?id="+url.QueryEscape(id), http.StatusSeeOther)
}

// renderDrawFailure maps a Draw error to its page and status.
func (h *Handler) renderDrawFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notes.ErrNotYetSubmitted):
		h.renderError(w, http.StatusForbidden, msgNotYetSubmitted)
	case errors.Is(err, notes.ErrAlreadyDrawn):
		h.renderError(w, http.StatusBadRequest, msgAlreadyDrawn)
	case errors.Is(err, notes.ErrNothingAvailable):
		h.renderError(w, http.StatusBadRequest, msgNothingAvailable)
	default:
		h.logger.Error("drawing", "error", err)
		h.renderError(w, http.StatusInternalServerError, msgInternal)
	}
}

// handleHealth returns 200 OK if the server is alive.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
