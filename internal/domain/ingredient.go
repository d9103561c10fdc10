package domain

import "github.com/google/uuid"

// Ingredient is catalog reference data. Recipes reference it through
// RecipeIngredient lines; it is only created by catalog administrators.
type Ingredient struct {
	ID              uuid.UUID
	Name            string
	MeasurementUnit string
}

// IngredientInput is the write shape for creating an ingredient.
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200"`
}
