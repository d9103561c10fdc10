package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain"
)

// Response DTOs. JSON field names follow the public API; domain types carry
// no json tags of their own for read views.

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

type RecipeSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is the followed author flattened with their previews.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummaryResponse `json:"recipes"`
	RecipesCount int                     `json:"recipes_count"`
}

// PageResponse is the paginated list envelope.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

func toPage[D, T any](r *http.Request, pg domain.Page[D], conv func(D) T) PageResponse[T] {
	results := make([]T, len(pg.Items))
	for i, item := range pg.Items {
		results[i] = conv(item)
	}
	return PageResponse[T]{
		Count:    pg.Total,
		Next:     pageURL(r, pg.Next()),
		Previous: pageURL(r, pg.Previous()),
		Results:  results,
	}
}

func userToResponse(a domain.Author) UserResponse {
	return UserResponse{
		ID:           a.ID,
		Email:        a.Email,
		Username:     a.Username,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		IsSubscribed: a.IsSubscribed,
	}
}

func tagToResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ingredientToResponse(i domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func recipeToResponse(rec domain.Recipe) RecipeResponse {
	tags := make([]TagResponse, len(rec.Tags))
	for i, t := range rec.Tags {
		tags[i] = tagToResponse(t)
	}
	lines := make([]RecipeIngredientResponse, len(rec.Ingredients))
	for i, l := range rec.Ingredients {
		lines[i] = RecipeIngredientResponse{
			ID:              l.ID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		}
	}
	return RecipeResponse{
		ID:               rec.ID,
		Tags:             tags,
		Author:           userToResponse(rec.Author),
		Ingredients:      lines,
		IsFavorited:      rec.IsFavorited,
		IsInShoppingCart: rec.IsInShoppingCart,
		Name:             rec.Name,
		Image:            rec.Image,
		Text:             rec.Text,
		CookingTime:      rec.CookingTime,
	}
}

func summaryToResponse(s domain.RecipeSummary) RecipeSummaryResponse {
	return RecipeSummaryResponse{ID: s.ID, Name: s.Name, Image: s.Image, CookingTime: s.CookingTime}
}

func subscriptionToResponse(s domain.Subscription) SubscriptionResponse {
	recipes := make([]RecipeSummaryResponse, len(s.Recipes))
	for i, r := range s.Recipes {
		recipes[i] = summaryToResponse(r)
	}
	return SubscriptionResponse{
		UserResponse: userToResponse(s.Author),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}
