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

// SubscriptionService manages who follows whom.
type SubscriptionService struct {
	subs  repo.SubscriptionRepo
	users repo.UserRepo
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(subs repo.SubscriptionRepo, users repo.UserRepo) *SubscriptionService {
	return &SubscriptionService{subs: subs, users: users}
}

// Subscribe makes v follow authorID and returns the entry as the
// subscriptions listing would show it.
func (s *SubscriptionService) Subscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID, recipesLimit *int) (domain.Subscription, error) {
	if err := requireViewer(v); err != nil {
		return domain.Subscription{}, fmt.Errorf("service.SubscriptionService.Subscribe: %w", err)
	}
	if v.ID == authorID {
		return domain.Subscription{}, fmt.Errorf("service.SubscriptionService.Subscribe: %w", domain.ErrSelfSubscription)
	}

	author, err := s.users.GetAuthor(ctx, authorID, v.ID)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("service.SubscriptionService.Subscribe: %w", err)
	}

	created, err := s.subs.Add(ctx, v.ID, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrSelfSubscription) {
			metrics.LedgerConflicts.WithLabelValues("subscription").Inc()
		}
		return domain.Subscription{}, fmt.Errorf("service.SubscriptionService.Subscribe: %w", err)
	}

	author.IsSubscribed = true

	previews, count, err := s.subs.Previews(ctx, authorID, domain.NormalizeRecipesLimit(recipesLimit))
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("service.SubscriptionService.Subscribe: %w", err)
	}
	if previews == nil {
		previews = []domain.RecipeSummary{}
	}

	return domain.Subscription{
		Author:       author,
		Recipes:      previews,
		RecipesCount: count,
		CreatedAt:    created,
	}, nil
}

// Unsubscribe removes the follow. A missing pair is domain.ErrNotFound.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID) error {
	if err := requireViewer(v); err != nil {
		return fmt.Errorf("service.SubscriptionService.Unsubscribe: %w", err)
	}
	if err := s.subs.Remove(ctx, v.ID, authorID); err != nil {
		return fmt.Errorf("service.SubscriptionService.Unsubscribe: %w", err)
	}
	return nil
}

// List returns v's followed authors, newest subscription first.
func (s *SubscriptionService) List(ctx context.Context, v domain.Viewer, p domain.PaginationParams, recipesLimit *int) (domain.Page[domain.Subscription], error) {
	if err := requireViewer(v); err != nil {
		return domain.Page[domain.Subscription]{}, fmt.Errorf("service.SubscriptionService.List: %w", err)
	}
	subs, total, err := s.subs.List(ctx, v.ID, p, domain.NormalizeRecipesLimit(recipesLimit))
	if err != nil {
		return domain.Page[domain.Subscription]{}, fmt.Errorf("service.SubscriptionService.List: %w", err)
	}
	return domain.NewPage(subs, total, p), nil
}
