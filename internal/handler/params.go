package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/foodgram/backend/internal/domain"
)

// pathID binds the {id} path segment the way generated oapi-codegen servers do.
func pathID(r *http.Request) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

// queryParam binds an optional form-style query parameter into dst.
func queryParam(q url.Values, name string, dst any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, q, dst); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// pagination reads ?page= and ?limit=.
func pagination(q url.Values) (domain.PaginationParams, error) {
	var page, limit *int
	if err := queryParam(q, "page", &page); err != nil {
		return domain.PaginationParams{}, err
	}
	if err := queryParam(q, "limit", &limit); err != nil {
		return domain.PaginationParams{}, err
	}
	p := domain.NewPaginationParams(page, limit)
	if !p.InRange() {
		return p, domain.NewValidationError("page", "out of range")
	}
	return p, nil
}

// recipesLimit reads ?recipes_limit= for subscription previews.
func recipesLimit(q url.Values) (*int, error) {
	var n *int
	if err := queryParam(q, "recipes_limit", &n); err != nil {
		return nil, err
	}
	return n, nil
}

// flag reads a 0/1 (or true/false) query flag. Absent means false.
func flag(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n != 0, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid format for parameter %s: expected 0 or 1", name)
	}
	return b, nil
}

// pageURL rewrites the request URL to point at page n, or returns nil.
func pageURL(r *http.Request, n *int) *string {
	if n == nil {
		return nil
	}
	u := *r.URL
	u.Scheme = "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	u.Host = r.Host
	q := u.Query()
	q.Set("page", strconv.Itoa(*n))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
