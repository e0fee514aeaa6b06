// ABOUTME: Gateway orchestrator wiring the exchange components to the HTTP server
// ABOUTME: Owns store, board, session registry, draw engine, and server lifecycle

package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/2389/santa-exchange/internal/config"
	"github.com/2389/santa-exchange/internal/draw"
	"github.com/2389/santa-exchange/internal/event"
	"github.com/2389/santa-exchange/internal/notes"
	"github.com/2389/santa-exchange/internal/session"
	"github.com/2389/santa-exchange/internal/store"
	"github.com/2389/santa-exchange/internal/web"
)

// shutdownTimeout bounds graceful shutdown after the serve context ends.
const shutdownTimeout = 5 * time.Second

// Gateway orchestrates the santa-exchange server components. It owns the
// durable store, the in-memory board seeded from it, the session registry,
// the draw engine, and the HTTP server serving the web surface.
type Gateway struct {
	config     *config.Config
	store      store.Store
	board      *notes.Board
	sessions   *session.Registry
	engine     *draw.Engine
	manifest   *event.Manifest
	httpServer *http.Server
	logger     *slog.Logger
}

// New wires up all components: opens the configured store, loads the durable
// record set into the board, and seeds the session registry with every known
// author.
func New(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	logger := slog.Default().With("component", "gateway")

	st, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	board, err := notes.NewBoard(ctx, st)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("initializing board: %w", err)
	}

	manifest := event.Default()
	if cfg.Event.Manifest != "" {
		manifest, err = event.Load(cfg.Event.Manifest)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("loading event manifest: %w", err)
		}
	}

	sessions := session.NewRegistry(board, cfg.Sessions.OverflowSlack)
	engine := draw.New(board, sessions)
	handler := web.New(board, sessions, engine, manifest, cfg.Web.StaticDir)

	g := &Gateway{
		config:   cfg,
		store:    st,
		board:    board,
		sessions: sessions,
		engine:   engine,
		manifest: manifest,
		logger:   logger,
		httpServer: &http.Server{
			Addr:    cfg.Server.HTTPAddr,
			Handler: handler.Routes(),
		},
	}
	return g, nil
}

// initStore creates a store based on the configured driver.
func initStore(cfg *config.Config) (store.Store, error) {
	var s store.Store
	var err error
	switch cfg.Database.Driver {
	case config.DriverFiles:
		s, err = store.NewFileStore(cfg.Database.Path)
	default:
		s, err = store.NewSQLiteStore(cfg.Database.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// Run serves HTTP until the context is canceled or the server fails, then
// performs a graceful shutdown.
func (g *Gateway) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", g.httpServer.Addr)
		if err := g.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
	case serverErr = <-errCh:
	}

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the serve context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server and closes the store.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}
