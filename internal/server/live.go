package server

import (
	"context"
	"sync"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/render/sink"
	"github.com/matzehuels/glycodraw/pkg/session"
)

// liveSession pairs a stored session with the controller editing it.
type liveSession struct {
	mu      sync.Mutex
	sess    *session.Session
	ctrl    *editor.Controller
	surface *sink.Surface
}

func (ls *liveSession) expired() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.sess.IsExpired()
}

// open rebuilds a controller from the stored document.
func (s *Server) open(sess *session.Session) (*liveSession, error) {
	tree, err := graph.ToTree(sess.Document, glycan.NewRegistry())
	if err != nil {
		return nil, err
	}
	cfg := s.opts.Layout
	surf := sink.NewSurface(
		sink.WithCanvas(cfg.Width, cfg.Height),
		sink.WithSymbolSize(cfg.SymbolSize),
		sink.WithTitle(titleFor(sess), sink.DefaultDescription),
	)
	ctrl := editor.New(tree, surf,
		editor.WithLogger(s.logger.With("session", sess.ID)),
		editor.WithLayout(cfg),
		editor.WithHistory(s.opts.History),
	)
	return &liveSession{sess: sess, ctrl: ctrl, surface: surf}, nil
}

func titleFor(sess *session.Session) string {
	if sess.Name != "" {
		return sess.Name
	}
	return sink.DefaultTitle
}

// create starts a session on doc and registers it.
func (s *Server) create(ctx context.Context, doc graph.Glycan) (*liveSession, error) {
	sess := session.New(doc, s.opts.SessionTTL)
	ls, err := s.open(sess)
	if err != nil {
		return nil, err
	}
	// Store the normalized document rather than the request body.
	sess.Document = graph.FromTree(ls.ctrl.Tree())
	sess.Document.Name = doc.Name
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.live[sess.ID] = ls
	s.mu.Unlock()
	s.logger.Info("session created", "id", sess.ID, "nodes", ls.ctrl.Tree().Len())
	return ls, nil
}

// acquire returns the live session for id with its lock held. Sessions that
// are not live yet are loaded from the store. Callers must unlock.
func (s *Server) acquire(ctx context.Context, id string) (*liveSession, error) {
	if err := errs.ValidateSessionID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	ls, ok := s.live[id]
	s.mu.Unlock()

	if !ok {
		sess, err := s.sessions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, notFound("session", id)
		}
		opened, err := s.open(sess)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if existing, ok := s.live[id]; ok {
			opened = existing
		} else {
			s.live[id] = opened
		}
		s.mu.Unlock()
		ls = opened
	}

	ls.mu.Lock()
	if ls.sess.IsExpired() {
		ls.mu.Unlock()
		s.evict(id)
		return nil, notFound("session", id)
	}
	return ls, nil
}

func (s *Server) evict(id string) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}

// persist writes the edited document back to the store and extends the
// session. The caller holds ls.mu.
func (s *Server) persist(ctx context.Context, ls *liveSession) error {
	doc := graph.FromTree(ls.ctrl.Tree())
	doc.Name = ls.sess.Name
	ls.sess.Update(doc, s.opts.SessionTTL)
	return s.sessions.Set(ctx, ls.sess)
}
