package handler

import (
	"net/http"
	"net/url"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
)

// CreateRecipe handles POST /api/recipes.
func (s *Server) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var body domain.RecipeInput
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}

	created, err := s.recipes.Create(r.Context(), auth.ViewerFrom(r.Context()), body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, recipeToResponse(created))
}

// ListRecipes handles GET /api/recipes.
// Query: tags (repeatable slug, any match), author (uuid), is_favorited and
// is_in_shopping_cart (0/1), page, limit.
func (s *Server) ListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := recipeFilter(q)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	p, err := pagination(q)
	if err != nil {
		requestErr(w, r, err)
		return
	}

	page, err := s.recipes.List(r.Context(), auth.ViewerFrom(r.Context()), f, p)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPage(r, page, recipeToResponse))
}

// GetRecipe handles GET /api/recipes/{id}.
func (s *Server) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	rec, err := s.recipes.Get(r.Context(), auth.ViewerFrom(r.Context()), id)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recipeToResponse(rec))
}

// UpdateRecipe handles PUT and PATCH /api/recipes/{id}. Both replace the
// ingredient lines and tags wholesale; an omitted image keeps the current one.
func (s *Server) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	var body domain.RecipeInput
	if err := decodeJSON(r, &body); err != nil {
		requestErr(w, r, err)
		return
	}

	updated, err := s.recipes.Update(r.Context(), auth.ViewerFrom(r.Context()), id, body)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, recipeToResponse(updated))
}

// DeleteRecipe handles DELETE /api/recipes/{id}.
func (s *Server) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		requestErr(w, r, err)
		return
	}
	if err := s.recipes.Delete(r.Context(), auth.ViewerFrom(r.Context()), id); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recipeFilter(q url.Values) (domain.RecipeFilter, error) {
	var f domain.RecipeFilter
	if err := queryParam(q, "tags", &f.TagSlugs); err != nil {
		return f, err
	}
	var author *openapi_types.UUID
	if err := queryParam(q, "author", &author); err != nil {
		return f, err
	}
	f.AuthorID = author

	var err error
	if f.Favorited, err = flag(q, "is_favorited"); err != nil {
		return f, err
	}
	if f.InCart, err = flag(q, "is_in_shopping_cart"); err != nil {
		return f, err
	}
	return f, nil
}
