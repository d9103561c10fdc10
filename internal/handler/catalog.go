package handler

import (
	"net/http"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// ListTags handles GET /api/tags. Tags are a small fixed vocabulary and are
// returned unpaginated.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.catalog.ListTags(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = tagToResponse(t)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// GetTag handles GET /api/tags/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	tag, err := s.catalog.GetTag(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tagToResponse(tag))
}

// CreateTag handles POST /api/tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var body domain.TagInput
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}
	tag, err := s.catalog.CreateTag(r.Context(), auth.ViewerFrom(r.Context()), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, tagToResponse(tag))
}

// ListIngredients handles GET /api/ingredients. ?name= filters by name prefix.
func (s *Server) ListIngredients(w http.ResponseWriter, r *http.Request) {
	var name *string
	if err := queryParam(r.URL.Query(), "name", &name); err != nil {
		requestErr(w, r, err)
		return
	}
	prefix := ""
	if name != nil {
		prefix = *name
	}

	items, err := s.catalog.SearchIngredients(r.Context(), prefix)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	out := make([]IngredientResponse, len(items))
	for i, it := range items {
		out[i] = ingredientToResponse(it)
	}
	writeJSON(w, r, http.StatusOK, out)
}

// GetIngredient handles GET /api/ingredients/{id}.
func (s *Server) GetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	ing, err := s.catalog.GetIngredient(r.Context(), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, ingredientToResponse(ing))
}

// CreateIngredient handles POST /api/ingredients.
func (s *Server) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var body domain.IngredientInput
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}
	ing, err := s.catalog.CreateIngredient(r.Context(), auth.ViewerFrom(r.Context()), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, ingredientToResponse(ing))
}
