package handler

import (
	"net/http"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// ledgerAdd handles POST /api/recipes/{id}/favorite and /shopping_cart.
func (s *Server) ledgerAdd(kind domain.LedgerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			requestErr(w, r, err)
			return
		}
		sum, err := s.ledger.Add(r.Context(), auth.ViewerFrom(r.Context()), kind, id)
		if err != nil {
			respondErr(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, summaryToResponse(sum))
	}
}

// ledgerRemove handles DELETE /api/recipes/{id}/favorite and /shopping_cart.
func (s *Server) ledgerRemove(kind domain.LedgerKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			requestErr(w, r, err)
			return
		}
		if err := s.ledger.Remove(r.Context(), auth.ViewerFrom(r.Context()), kind, id); err != nil {
			respondErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
