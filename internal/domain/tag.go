package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is admin-managed reference data used to categorise recipes
// (e.g. "Breakfast", "Dinner"). Name and Slug are both unique.
// Color is a 3- or 6-digit hex color such as "#e26c2d".
type Tag struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Slug      string
	CreatedAt time.Time
}

// TagInput is the write shape for creating a tag.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=150"`
	Color string `json:"color" validate:"required,hexcolor36"`
	Slug  string `json:"slug" validate:"required,max=50,slug"`
}
