package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/juristext/internal/casenum"
	"github.com/dgallion1/juristext/internal/doctree"
	"github.com/dgallion1/juristext/internal/export"
	"github.com/dgallion1/juristext/internal/outline"
)

// handleDecisionsByCaseNumber lists stored decisions for ?numero_processo=.
// The number may be given formatted or as its 20 bare digits.
func (s *Server) handleDecisionsByCaseNumber(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "decision store not configured", http.StatusServiceUnavailable)
		return
	}
	raw := r.URL.Query().Get("numero_processo")
	if raw == "" {
		jsonError(w, "numero_processo query parameter is required", http.StatusBadRequest)
		return
	}
	number, ok := casenum.Canonical(raw)
	if !ok {
		jsonError(w, "numero_processo must have 20 digits", http.StatusBadRequest)
		return
	}

	results, err := s.store.ByCaseNumber(r.Context(), number)
	if err != nil {
		jsonError(w, "failed to list decisions: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []doctree.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"numero_processo": number,
		"decisoes":        results,
	})
}

// handleDecision returns one stored decision by source file name. With
// ?secao=LABEL only that section is returned.
func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "decision store not configured", http.StatusServiceUnavailable)
		return
	}
	res, err := s.store.Get(r.Context(), chi.URLParam(r, "source"))
	if errors.Is(err, export.ErrNotFound) {
		jsonError(w, "decision not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load decision: "+err.Error(), http.StatusInternalServerError)
		return
	}
	res.Sections = outline.Split(res.Text)

	label := r.URL.Query().Get("secao")
	if label == "" {
		writeJSON(w, http.StatusOK, res)
		return
	}
	sec, ok := outline.Find(res.Sections, label)
	if !ok {
		jsonError(w, "section not found: "+label, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"arquivo":         res.Source,
		"numero_processo": res.CaseNumber,
		"secao":           sec,
	})
}
