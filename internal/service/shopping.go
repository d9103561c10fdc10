package service

import (
	"context"
	"fmt"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// ShoppingService builds the aggregated shopping list for a viewer's cart.
type ShoppingService struct {
	shopping repo.ShoppingRepo
}

// NewShoppingService constructs a ShoppingService.
func NewShoppingService(shopping repo.ShoppingRepo) *ShoppingService {
	return &ShoppingService{shopping: shopping}
}

// List sums every carted line per (ingredient name, unit).
func (s *ShoppingService) List(ctx context.Context, v domain.Viewer) ([]domain.ShoppingItem, error) {
	if err := requireViewer(v); err != nil {
		return nil, fmt.Errorf("service.ShoppingService.List: %w", err)
	}
	items, err := s.shopping.List(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("service.ShoppingService.List: %w", err)
	}
	if items == nil {
		items = []domain.ShoppingItem{}
	}
	return items, nil
}
