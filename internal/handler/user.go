package handler

import (
	"net/http"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// Register handles POST /api/users.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body domain.UserInput
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}

	created, err := s.users.Register(r.Context(), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, userToResponse(created))
}

// ListUsers handles GET /api/users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, err := pagination(r.URL.Query())
	if err != nil {
		requestErr(w, r, err)
		return
	}

	page, err := s.users.List(r.Context(), auth.ViewerFrom(r.Context()), p)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(r, page, userToResponse))
}

// Me handles GET /api/users/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	me, err := s.users.Me(r.Context(), auth.ViewerFrom(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userToResponse(me))
}

// SetPassword handles POST /api/users/set_password.
func (s *Server) SetPassword(w http.ResponseWriter, r *http.Request) {
	var body domain.PasswordChange
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}

	if err := s.users.SetPassword(r.Context(), auth.ViewerFrom(r.Context()), body); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetUser handles GET /api/users/{id}.
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}

	u, err := s.users.Get(r.Context(), auth.ViewerFrom(r.Context()), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, userToResponse(u))
}
