package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/handler"
)

func recipeFixture() domain.Recipe {
	return domain.Recipe{
		ID:          uuid.New(),
		Author:      domain.Author{ID: alice.ID, Username: "alice"},
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Image:       "/media/recipes/abc.png",
		Tags:        []domain.Tag{{ID: uuid.New(), Name: "Breakfast", Color: "#e26c2d", Slug: "breakfast"}},
		Ingredients: []domain.RecipeIngredient{
			{ID: uuid.New(), Name: "Flour", MeasurementUnit: "g", Amount: 200},
			{ID: uuid.New(), Name: "Egg", MeasurementUnit: "pc", Amount: 2},
		},
		IsFavorited: true,
		CreatedAt:   time.Now(),
	}
}

func recipeRouter(v domain.Viewer, svc handler.RecipeServicer) http.Handler {
	return newRouter(handler.Deps{Recipes: svc, Authenticate: asViewer(v)})
}

func TestCreateRecipe_201(t *testing.T) {
	fixture := recipeFixture()
	var got domain.RecipeInput
	svc := &mockRecipeServicer{
		create: func(_ context.Context, v domain.Viewer, in domain.RecipeInput) (domain.Recipe, error) {
			assert.Equal(t, alice, v)
			got = in
			return fixture, nil
		},
	}
	lineID := uuid.New()
	body := map[string]any{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"image":        "data:image/png;base64,AAAA",
		"tags":         []string{fixture.Tags[0].ID.String()},
		"ingredients":  []map[string]any{{"id": lineID.String(), "amount": 200}},
	}

	rec := do(t, recipeRouter(alice, svc), http.MethodPost, "/api/recipes", body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []domain.IngredientLine{{IngredientID: lineID, Amount: 200}}, got.Ingredients)
	resp := decode[handler.RecipeResponse](t, rec)
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, "alice", resp.Author.Username)
	assert.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "breakfast", resp.Tags[0].Slug)
	assert.True(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
}

func TestCreateRecipe_ErrorMapping(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
		code   string
	}{
		"validation": {
			fmt.Errorf("service.RecipeService.Create: %w", domain.NewValidationError("ingredients", "must not contain duplicates")),
			http.StatusBadRequest, "validation_error",
		},
		"reference": {
			fmt.Errorf("service.RecipeService.Create: %w", &domain.ReferenceError{Kind: "ingredient", ID: uuid.New().String()}),
			http.StatusBadRequest, "reference_not_found",
		},
		"anonymous": {domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		"internal":  {errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &mockRecipeServicer{
				create: func(context.Context, domain.Viewer, domain.RecipeInput) (domain.Recipe, error) {
					return domain.Recipe{}, tc.err
				},
			}

			rec := do(t, recipeRouter(alice, svc), http.MethodPost, "/api/recipes", map[string]any{"name": "x"})

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
			assert.NotContains(t, rec.Body.String(), "connection reset")
		})
	}
}

func TestCreateRecipe_MalformedBody(t *testing.T) {
	h := recipeRouter(alice, &mockRecipeServicer{})
	req := do(t, h, http.MethodPost, "/api/recipes", "not an object")

	assert.Equal(t, http.StatusBadRequest, req.Code)
	assert.Equal(t, "validation_error", errorCode(t, req))
}

func TestGetRecipe(t *testing.T) {
	fixture := recipeFixture()
	svc := &mockRecipeServicer{
		get: func(_ context.Context, _ domain.Viewer, id uuid.UUID) (domain.Recipe, error) {
			if id != fixture.ID {
				return domain.Recipe{}, domain.ErrNotFound
			}
			return fixture, nil
		},
	}
	h := recipeRouter(anon, svc)

	rec := do(t, h, http.MethodGet, "/api/recipes/"+fixture.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pancakes", decode[handler.RecipeResponse](t, rec).Name)

	rec = do(t, h, http.MethodGet, "/api/recipes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/recipes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRecipe_PutAndPatch(t *testing.T) {
	fixture := recipeFixture()
	calls := 0
	svc := &mockRecipeServicer{
		update: func(_ context.Context, _ domain.Viewer, id uuid.UUID, in domain.RecipeInput) (domain.Recipe, error) {
			calls++
			assert.Equal(t, fixture.ID, id)
			assert.Empty(t, in.Image)
			return fixture, nil
		},
	}
	h := recipeRouter(alice, svc)
	body := map[string]any{"name": "Pancakes", "text": "t", "cooking_time": 5, "ingredients": []any{}}

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		rec := do(t, h, method, "/api/recipes/"+fixture.ID.String(), body)
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
	assert.Equal(t, 2, calls)
}

func TestUpdateRecipe_Forbidden(t *testing.T) {
	svc := &mockRecipeServicer{
		update: func(context.Context, domain.Viewer, uuid.UUID, domain.RecipeInput) (domain.Recipe, error) {
			return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", domain.ErrForbidden)
		},
	}

	rec := do(t, recipeRouter(alice, svc), http.MethodPatch, "/api/recipes/"+uuid.NewString(), map[string]any{})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", errorCode(t, rec))
}

func TestDeleteRecipe(t *testing.T) {
	svc := &mockRecipeServicer{
		delete: func(context.Context, domain.Viewer, uuid.UUID) error { return nil },
	}

	rec := do(t, recipeRouter(alice, svc), http.MethodDelete, "/api/recipes/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestListRecipes_Filters(t *testing.T) {
	author := uuid.New()
	var gotFilter domain.RecipeFilter
	var gotPage domain.PaginationParams
	svc := &mockRecipeServicer{
		list: func(_ context.Context, _ domain.Viewer, f domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error) {
			gotFilter, gotPage = f, p
			return domain.NewPage([]domain.Recipe{recipeFixture()}, 9, p), nil
		},
	}

	rec := do(t, recipeRouter(alice, svc), http.MethodGet,
		"/api/recipes?tags=breakfast&tags=lunch&author="+author.String()+"&is_favorited=1&is_in_shopping_cart=0&page=2&limit=3", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"breakfast", "lunch"}, gotFilter.TagSlugs)
	require.NotNil(t, gotFilter.AuthorID)
	assert.Equal(t, author, *gotFilter.AuthorID)
	assert.True(t, gotFilter.Favorited)
	assert.False(t, gotFilter.InCart)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 3}, gotPage)

	page := decode[handler.PageResponse[handler.RecipeResponse]](t, rec)
	assert.EqualValues(t, 9, page.Count)
	assert.Len(t, page.Results, 1)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")
}

func TestListRecipes_BadParams(t *testing.T) {
	h := recipeRouter(alice, &mockRecipeServicer{})

	for _, q := range []string{"author=nope", "page=x", "is_favorited=maybe"} {
		rec := do(t, h, http.MethodGet, "/api/recipes?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestListRecipes_AnonymousFavoritedIsValidationError(t *testing.T) {
	svc := &mockRecipeServicer{
		list: func(context.Context, domain.Viewer, domain.RecipeFilter, domain.PaginationParams) (domain.Page[domain.Recipe], error) {
			return domain.Page[domain.Recipe]{}, domain.NewValidationError("is_favorited", "requires authentication")
		},
	}

	rec := do(t, recipeRouter(anon, svc), http.MethodGet, "/api/recipes?is_favorited=1", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", errorCode(t, rec))
}

func TestCreateRecipe_QuotaMiddlewareOnlyOnPost(t *testing.T) {
	blocked := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	svc := &mockRecipeServicer{
		list: func(_ context.Context, _ domain.Viewer, _ domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error) {
			return domain.NewPage[domain.Recipe](nil, 0, p), nil
		},
	}
	h := newRouter(handler.Deps{Recipes: svc, Authenticate: asViewer(alice), RecipeQuota: blocked})

	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/api/recipes", map[string]any{}).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/recipes", nil).Code)
}
