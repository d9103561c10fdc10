// Package domain contains the core data types for the Foodgram API.
// This package has no database or HTTP dependencies and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngredientLine is one (ingredient, amount) pair in a recipe write payload.
type IngredientLine struct {
	IngredientID uuid.UUID `json:"id" validate:"required"`
	Amount       int       `json:"amount" validate:"min=1,max=32000"`
}

// RecipeInput is the write DTO for recipe create and replace-all update.
// Image is a base64 data URI on input; the service swaps it for the stored
// reference before the repo sees it. An empty Image on update keeps the
// current one.
type RecipeInput struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Text        string           `json:"text" validate:"required"`
	CookingTime int              `json:"cooking_time" validate:"min=1,max=32000"`
	Image       string           `json:"image"`
	Tags        []uuid.UUID      `json:"tags" validate:"unique"`
	Ingredients []IngredientLine `json:"ingredients" validate:"required,min=1,unique=IngredientID,dive"`
}

// RecipeIngredient is one line of a recipe in the read view.
type RecipeIngredient struct {
	ID              uuid.UUID
	Name            string
	MeasurementUnit string
	Amount          int
}

// Recipe is the full read view of a recipe relative to a viewer.
type Recipe struct {
	ID               uuid.UUID
	Author           Author
	Name             string
	Text             string
	CookingTime      int
	Image            string
	Tags             []Tag
	Ingredients      []RecipeIngredient
	IsFavorited      bool
	IsInShoppingCart bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Summary projects the read view onto the short view.
func (r Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// RecipeSummary is the short view used in ledger responses and subscription previews.
type RecipeSummary struct {
	ID          uuid.UUID
	Name        string
	Image       string
	CookingTime int
}

// RecipeFilter narrows a recipe listing. Zero values mean "no filter".
type RecipeFilter struct {
	TagSlugs []string
	AuthorID *uuid.UUID
	// Favorited and InCart restrict to the viewer's own ledgers and require
	// an authenticated viewer.
	Favorited bool
	InCart    bool
}

// LedgerKind selects which user-recipe fact relation an operation targets.
type LedgerKind string

const (
	LedgerFavorite LedgerKind = "favorite"
	LedgerCart     LedgerKind = "cart"
)
