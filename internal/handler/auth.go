package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// Login handles POST /api/auth/token/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body domain.Credentials
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}

	token, err := s.users.Login(r.Context(), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, TokenResponse{AuthToken: token})
}

// Logout handles POST /api/auth/token/logout. Without a revocation store the
// token stays valid until it expires; the client is expected to drop it.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFrom(r.Context())
	if claims == nil {
		respondErr(w, r, domain.ErrUnauthorized)
		return
	}

	err := s.tokens.Revoke(r.Context(), claims)
	switch {
	case errors.Is(err, auth.ErrRevocationUnavailable):
		slog.DebugContext(r.Context(), "logout without revocation store", "jti", claims.ID)
	case err != nil:
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
