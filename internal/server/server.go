// Package server hosts glycan editing sessions over HTTP.
//
// Each session owns one [editor.Controller] drawing on an in-memory SVG
// surface. Requests for a session are serialized by a per-session mutex, so
// the controller sees events from one goroutine at a time as it requires.
// Every committed edit is written back to the session store; a restarted
// host rebuilds controllers lazily from stored documents.
//
// Routes:
//
//	POST   /sessions                       start a session
//	GET    /sessions/{id}                  document and layout
//	DELETE /sessions/{id}                  end a session
//	POST   /sessions/{id}/drag             one complete drag gesture
//	POST   /sessions/{id}/click            append a child
//	POST   /sessions/{id}/palette          toggle the palette selection
//	DELETE /sessions/{id}/nodes/{node}     remove a subtree
//	POST   /sessions/{id}/undo             undo the last insertion
//	GET    /sessions/{id}/canvas           live SVG surface
//	GET    /sessions/{id}/render?format=   exported artifact
//	GET    /palette                        palette grid
//	GET    /library                        saved structures
//	GET    /library/{name}                 one saved structure
//	PUT    /library/{name}                 save a document or session
//	DELETE /library/{name}                 delete a saved structure
//	POST   /library/{name}/sessions        open a saved structure
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/glycodraw/pkg/buildinfo"
	"github.com/matzehuels/glycodraw/pkg/core/layout"
	"github.com/matzehuels/glycodraw/pkg/library"
	"github.com/matzehuels/glycodraw/pkg/pipeline"
	"github.com/matzehuels/glycodraw/pkg/session"
)

// Defaults for Options.
const (
	DefaultHistory         = 100
	DefaultCleanupInterval = 10 * time.Minute
	maxBodyBytes           = 1 << 20
)

// Options configures a Server.
type Options struct {
	SessionTTL      time.Duration
	Layout          layout.Config
	History         int
	CleanupInterval time.Duration
}

func (o *Options) setDefaults() {
	if o.SessionTTL <= 0 {
		o.SessionTTL = session.DefaultTTL
	}
	o.Layout = o.Layout.WithDefaults()
	if o.History <= 0 {
		o.History = DefaultHistory
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = DefaultCleanupInterval
	}
}

// Server is the HTTP editor host.
type Server struct {
	sessions session.Store
	library  library.Library
	runner   *pipeline.Runner
	logger   *log.Logger
	opts     Options
	router   chi.Router

	mu   sync.Mutex
	live map[string]*liveSession
}

// New builds a server. A nil runner renders without a cache; a nil logger
// discards output.
func New(sessions session.Store, lib library.Library, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	opts.setDefaults()
	s := &Server{
		sessions: sessions,
		library:  lib,
		runner:   runner,
		logger:   logger,
		opts:     opts,
		live:     make(map[string]*liveSession),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})
	r.Get("/palette", s.handlePalette)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/drag", s.handleDrag)
			r.Post("/click", s.handleClick)
			r.Post("/palette", s.handleSelect)
			r.Delete("/nodes/{node}", s.handleRemove)
			r.Post("/undo", s.handleUndo)
			r.Get("/canvas", s.handleCanvas)
			r.Get("/render", s.handleRender)
		})
	})

	r.Route("/library", func(r chi.Router) {
		r.Get("/", s.handleListLibrary)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetEntry)
			r.Put("/", s.handleSaveEntry)
			r.Delete("/", s.handleDeleteEntry)
			r.Post("/sessions", s.handleOpenEntry)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. Expired sessions are swept periodically.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweep(ctx)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup", "error", err)
			} else if n > 0 {
				s.logger.Debug("evicted sessions", "count", n)
			}
		}
	}
}

// Cleanup evicts expired live sessions and purges the store. It returns the
// number of evicted live sessions.
func (s *Server) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	n := 0
	for id, ls := range s.live {
		if ls.expired() {
			delete(s.live, id)
			n++
		}
	}
	s.mu.Unlock()
	return n, s.sessions.Cleanup(ctx)
}
