package handler

import (
	"net/http"

	"github.com/foodgram/backend/internal/auth"
)

// ListSubscriptions handles GET /api/users/subscriptions.
func (s *Server) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, err := pagination(q)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	limit, err := recipesLimit(q)
	if err != nil {
		requestErr(w, r, err)
		return
	}

	page, err := s.subs.List(r.Context(), auth.ViewerFrom(r.Context()), p, limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(r, page, subscriptionToResponse))
}

// Subscribe handles POST /api/users/{id}/subscribe.
func (s *Server) Subscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	limit, err := recipesLimit(r.URL.Query())
	if err != nil {
		requestErr(w, r, err)
		return
	}

	sub, err := s.subs.Subscribe(r.Context(), auth.ViewerFrom(r.Context()), id, limit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, subscriptionToResponse(sub))
}

// Unsubscribe handles DELETE /api/users/{id}/subscribe.
func (s *Server) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	if err := s.subs.Unsubscribe(r.Context(), auth.ViewerFrom(r.Context()), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
