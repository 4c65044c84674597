package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/glycodraw/pkg/core/glycan"
	errs "github.com/matzehuels/glycodraw/pkg/errors"
	"github.com/matzehuels/glycodraw/pkg/graph"
)

func (s *Server) handleListLibrary(w http.ResponseWriter, r *http.Request) {
	list, err := s.library.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.library.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// saveRequest names exactly one of a live session or a document.
type saveRequest struct {
	Session  string        `json:"session,omitempty"`
	Document *graph.Glycan `json:"document,omitempty"`
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errs.ValidateDocumentName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req saveRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var doc graph.Glycan
	switch {
	case req.Session != "" && req.Document != nil:
		s.writeError(w, r, badRequest("give either a session or a document, not both"))
		return
	case req.Session != "":
		ls, err := s.acquire(r.Context(), req.Session)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc = graph.FromTree(ls.ctrl.Tree())
		ls.mu.Unlock()
	case req.Document != nil:
		tree, err := graph.ToTree(*req.Document, glycan.NewRegistry())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc = graph.FromTree(tree)
	default:
		s.writeError(w, r, badRequest("missing session or document"))
		return
	}

	if err := s.library.Save(r.Context(), name, doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.library.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errs.ValidateDocumentName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.library.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOpenEntry starts a session on a saved structure.
func (s *Server) handleOpenEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.library.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc := e.Document
	doc.Name = e.Name
	ls, err := s.create(r.Context(), doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	writeJSON(w, http.StatusCreated, view(ls))
}
