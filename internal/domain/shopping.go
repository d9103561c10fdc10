package domain

import "time"

// ShoppingItem is one aggregated row of a shopping list: the sum of every
// line for the same (name, unit) across all recipes in the user's cart.
type ShoppingItem struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}

// Subscription is one followed author in the subscriptions view.
// Recipes holds at most recipes_limit newest previews; RecipesCount is the
// author's full recipe count.
type Subscription struct {
	Author       Author
	Recipes      []RecipeSummary
	RecipesCount int
	CreatedAt    time.Time
}

// DefaultRecipesLimit is the preview cap when recipes_limit is absent.
const DefaultRecipesLimit = 3

// NormalizeRecipesLimit applies the default and the MaxPageLimit cap.
func NormalizeRecipesLimit(n *int) int {
	if n == nil || *n < 0 {
		return DefaultRecipesLimit
	}
	if *n > MaxPageLimit {
		return MaxPageLimit
	}
	return *n
}

