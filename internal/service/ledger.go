package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/repo"
)

// LedgerService manages the favorites and shopping cart ledgers.
type LedgerService struct {
	ledger  repo.LedgerRepo
	recipes repo.RecipeRepo
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(ledger repo.LedgerRepo, recipes repo.RecipeRepo) *LedgerService {
	return &LedgerService{ledger: ledger, recipes: recipes}
}

// Add records recipeID in v's kind ledger and returns the short recipe view.
// A second add of the same pair fails with domain.ErrConflict.
func (s *LedgerService) Add(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) (domain.RecipeSummary, error) {
	if err := requireViewer(v); err != nil {
		return domain.RecipeSummary{}, fmt.Errorf("service.LedgerService.Add: %w", err)
	}
	sum, err := s.recipes.Summary(ctx, recipeID)
	if err != nil {
		return domain.RecipeSummary{}, fmt.Errorf("service.LedgerService.Add: %w", err)
	}

	if _, err := s.ledger.Add(ctx, kind, v.ID, recipeID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.LedgerConflicts.WithLabelValues(string(kind)).Inc()
		}
		return domain.RecipeSummary{}, fmt.Errorf("service.LedgerService.Add: %w", err)
	}
	return sum, nil
}

// Remove deletes recipeID from v's kind ledger. A missing recipe or a missing
// entry is domain.ErrNotFound.
func (s *LedgerService) Remove(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) error {
	if err := requireViewer(v); err != nil {
		return fmt.Errorf("service.LedgerService.Remove: %w", err)
	}
	if err := s.ledger.Remove(ctx, kind, v.ID, recipeID); err != nil {
		return fmt.Errorf("service.LedgerService.Remove: %w", err)
	}
	return nil
}
