package middleware

import (
	"net/http"

	"github.com/goccy/go-json"
)

// writeError writes the API error envelope. Middleware runs outside the
// handler package, so it keeps its own copy of the body shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
