package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/foodgram/backend/internal/auth"
)

// TokenVerifier checks a raw bearer token. *auth.TokenIssuer satisfies it.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// Authenticate resolves the Authorization header into a viewer on the request
// context. Both "Token <jwt>" and "Bearer <jwt>" are accepted. A request
// without the header proceeds as anonymous; a present but invalid token is
// rejected with 401 so clients notice expired sessions.
func Authenticate(tv TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := tokenFromHeader(header)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "malformed Authorization header")
				return
			}

			claims, err := tv.Verify(r.Context(), raw)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", "error", err)
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			v, err := claims.Viewer()
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			ctx := auth.WithClaims(auth.WithViewer(r.Context(), v), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(h string) (string, bool) {
	scheme, raw, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
