package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/glycodraw/pkg/core/editor"
	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
	"github.com/matzehuels/glycodraw/pkg/pipeline"
)

type sessionView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	Revision  int          `json:"revision"`
	ExpiresAt time.Time    `json:"expires_at"`
	Selected  string       `json:"selected,omitempty"`
	Document  graph.Glycan `json:"document"`
	Layout    graph.Layout `json:"layout"`
}

// view snapshots ls. The caller holds ls.mu.
func view(ls *liveSession) sessionView {
	tree := ls.ctrl.Tree()
	v := sessionView{
		ID:        ls.sess.ID,
		Name:      ls.sess.Name,
		Revision:  ls.sess.Revision,
		ExpiresAt: ls.sess.ExpiresAt,
		Document:  ls.sess.Document,
		Layout:    graph.FromResult(tree, ls.ctrl.Engine().Config()),
	}
	if k, ok := ls.ctrl.Palette().Selected(); ok {
		v.Selected = k.Symbol()
	}
	return v
}

type outcomeView struct {
	Committed bool         `json:"committed"`
	Node      int64        `json:"node,omitempty"`
	Parent    int64        `json:"parent,omitempty"`
	Index     int          `json:"index"`
	Side      string       `json:"side,omitempty"`
	Reason    string       `json:"reason,omitempty"`
	Code      string       `json:"code,omitempty"`
	Session   *sessionView `json:"session,omitempty"`
}

func outcome(o editor.Outcome) outcomeView {
	if !o.Committed {
		v := outcomeView{Reason: "discarded"}
		if o.Reason != nil {
			v.Reason = errs.UserMessage(o.Reason)
			v.Code = string(errs.GetCode(o.Reason))
		}
		return v
	}
	return outcomeView{
		Committed: true,
		Node:      int64(o.Node),
		Parent:    int64(o.Placement.Parent),
		Index:     o.Placement.Index,
		Side:      o.Placement.Side.String(),
	}
}

type createRequest struct {
	Document *graph.Glycan `json:"document,omitempty"`
}

// handleCreateSession starts a session on the posted document, or on the
// empty document when the body is empty.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := decode(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	doc := graph.FromTree(glycan.NewTree(glycan.NewRegistry()))
	if req.Document != nil {
		doc = *req.Document
	}

	ls, err := s.create(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	writeJSON(w, http.StatusCreated, view(ls))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()
	writeJSON(w, http.StatusOK, view(ls))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.evict(id)
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type dragRequest struct {
	Source struct {
		Node int64   `json:"node,omitempty"`
		Kind string  `json:"kind,omitempty"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	} `json:"source"`
	Moves  []point `json:"moves"`
	Target int64   `json:"target"`
}

// handleDrag replays one complete gesture: start, pointer deltas, release.
// A discarded gesture is not an HTTP error; the outcome carries the reason.
func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req dragRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	src := editor.Source{Anchor: glycan.NodeID(req.Source.Node), X: req.Source.X, Y: req.Source.Y}
	if req.Source.Kind != "" {
		k, err := glycan.ParseKind(req.Source.Kind)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidKind, err, "drag source"))
			return
		}
		src.Kind = k
	}

	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()

	if err := ls.ctrl.DragStart(r.Context(), src); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, m := range req.Moves {
		if err := ls.ctrl.DragMove(m.X, m.Y); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.commit(w, r, ls, ls.ctrl.DragEnd(glycan.NodeID(req.Target)))
}

type clickRequest struct {
	Target int64 `json:"target"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()
	s.commit(w, r, ls, ls.ctrl.Click(glycan.NodeID(req.Target)))
}

// commit persists a committed outcome and writes the outcome view.
func (s *Server) commit(w http.ResponseWriter, r *http.Request, ls *liveSession, o editor.Outcome) {
	out := outcome(o)
	if o.Committed {
		if err := s.persist(r.Context(), ls); err != nil {
			s.writeError(w, r, err)
			return
		}
		v := view(ls)
		out.Session = &v
	}
	writeJSON(w, http.StatusOK, out)
}

type selectRequest struct {
	Kind string `json:"kind"`
}

// handleSelect toggles the palette selection. An empty kind clears it.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()

	palette := ls.ctrl.Palette()
	if req.Kind == "" {
		palette.Clear()
	} else {
		k, err := glycan.ParseKind(req.Kind)
		if err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidKind, err, "palette"))
			return
		}
		palette.Select(k)
	}
	selected := ""
	if k, ok := palette.Selected(); ok {
		selected = k.Symbol()
	}
	writeJSON(w, http.StatusOK, map[string]string{"selected": selected})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "node"), 10, 64)
	if err != nil {
		s.writeError(w, r, badRequest("node id %q is not a number", chi.URLParam(r, "node")))
		return
	}
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()

	if !ls.ctrl.Remove(glycan.NodeID(id)) {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidTarget, "node %d cannot be removed", id))
		return
	}
	if err := s.persist(r.Context(), ls); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(ls))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()

	if !ls.ctrl.Undo() {
		s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "nothing to undo"))
		return
	}
	if err := s.persist(r.Context(), ls); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(ls))
}

// handleCanvas serves the live editor surface as drawn by the controller.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer ls.mu.Unlock()
	w.Header().Set("Content-Type", pipeline.ContentType(pipeline.FormatSVG))
	_ = ls.surface.WriteSVG(w)
}

// handleRender exports the session document through the render pipeline.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts := pipeline.Options{
		VizType:    q.Get("viz"),
		Formats:    []string{format},
		Background: q.Get("background"),
		Detailed:   q.Get("detailed") == "true" || q.Get("detailed") == "1",
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, badRequest("scale %q is not a number", v))
			return
		}
		opts.Scale = scale
	}

	ls, err := s.acquire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tree := ls.ctrl.Tree().Clone()
	cfg := ls.ctrl.Engine().Config()
	name := ls.sess.Name
	ls.mu.Unlock()

	opts.Width, opts.Height, opts.SymbolSize = cfg.Width, cfg.Height, cfg.SymbolSize
	res, err := s.runner.ExecuteTree(r.Context(), tree, opts)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return
		}
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	if name != "" {
		w.Header().Set("Content-Disposition", `inline; filename="`+name+"."+format+`"`)
	}
	if res.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(res.Artifacts[format])
}

type cellView struct {
	Kind   int    `json:"kind"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
}

// handlePalette lists the selectable palette cells.
func (s *Server) handlePalette(w http.ResponseWriter, _ *http.Request) {
	var cells []cellView
	for _, row := range editor.Grid() {
		for _, c := range row {
			if !c.Valid() {
				continue
			}
			cells = append(cells, cellView{Kind: int(c.Kind), Symbol: c.Symbol, Color: c.Kind.Color(), Row: c.Row, Col: c.Col})
		}
	}
	writeJSON(w, http.StatusOK, cells)
}
