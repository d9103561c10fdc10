package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// SubscriptionRepo defines the persistence operations for user-author follows.
type SubscriptionRepo interface {
	// Add records userID following authorID. Returns domain.ErrConflict when
	// the pair exists and domain.ErrSelfSubscription when the ids are equal.
	Add(ctx context.Context, userID, authorID uuid.UUID) (time.Time, error)

	// Remove deletes the pair. Returns domain.ErrNotFound if it was absent.
	Remove(ctx context.Context, userID, authorID uuid.UUID) error

	// List returns one page of followed authors, newest subscription first,
	// each with up to recipesLimit newest recipe previews and a recipe count.
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams, recipesLimit int) ([]domain.Subscription, int64, error)

	// Previews returns authorID's recipes as a subscription entry would show them.
	Previews(ctx context.Context, authorID uuid.UUID, recipesLimit int) ([]domain.RecipeSummary, int, error)
}

type pgSubscriptionRepo struct {
	db db
}

// NewSubscriptionRepo constructs a SubscriptionRepo backed by the provided db connection.
func NewSubscriptionRepo(db db) SubscriptionRepo {
	return &pgSubscriptionRepo{db: db}
}

const subscriptionsNoSelf = "subscriptions_no_self"

func (r *pgSubscriptionRepo) Add(ctx context.Context, userID, authorID uuid.UUID) (time.Time, error) {
	const q = `
		INSERT INTO subscriptions (user_id, author_id)
		VALUES (@user_id, @author_id)
		ON CONFLICT (user_id, author_id) DO NOTHING
		RETURNING created_at`

	var created time.Time
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "author_id": authorID}).Scan(&created)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("repo.SubscriptionRepo.Add: %w", domain.ErrConflict)
	}
	if err != nil {
		mapped := mapPgError(err)
		var ve *domain.ValidationError
		if errors.As(mapped, &ve) && ve.Field == subscriptionsNoSelf {
			mapped = domain.ErrSelfSubscription
		}
		return time.Time{}, fmt.Errorf("repo.SubscriptionRepo.Add: %w", mapped)
	}
	return created, nil
}

func (r *pgSubscriptionRepo) Remove(ctx context.Context, userID, authorID uuid.UUID) error {
	const q = `DELETE FROM subscriptions WHERE user_id = @user_id AND author_id = @author_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "author_id": authorID})
	if err != nil {
		return fmt.Errorf("repo.SubscriptionRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SubscriptionRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgSubscriptionRepo) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams, recipesLimit int) ([]domain.Subscription, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE user_id = @user_id`,
		pgx.NamedArgs{"user_id": userID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SubscriptionRepo.List: count: %w", err)
	}

	const q = `
		SELECT u.id, u.email, u.username, u.first_name, u.last_name, s.created_at
		FROM subscriptions s
		JOIN users u ON u.id = s.author_id
		WHERE s.user_id = @user_id
		ORDER BY s.created_at DESC, u.id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SubscriptionRepo.List: %w", err)
	}
	subs, err := collect(rows, func(s scanner) (domain.Subscription, error) {
		sub := domain.Subscription{Author: domain.Author{IsSubscribed: true}}
		err := s.Scan(&sub.Author.ID, &sub.Author.Email, &sub.Author.Username,
			&sub.Author.FirstName, &sub.Author.LastName, &sub.CreatedAt)
		return sub, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.SubscriptionRepo.List: %w", err)
	}

	if err := r.loadPreviews(ctx, subs, recipesLimit); err != nil {
		return nil, 0, fmt.Errorf("repo.SubscriptionRepo.List: %w", err)
	}
	return subs, total, nil
}

func (r *pgSubscriptionRepo) Previews(ctx context.Context, authorID uuid.UUID, recipesLimit int) ([]domain.RecipeSummary, int, error) {
	subs := []domain.Subscription{{Author: domain.Author{ID: authorID}}}
	if err := r.loadPreviews(ctx, subs, recipesLimit); err != nil {
		return nil, 0, fmt.Errorf("repo.SubscriptionRepo.Previews: %w", err)
	}
	return subs[0].Recipes, subs[0].RecipesCount, nil
}

// loadPreviews fills Recipes and RecipesCount for each subscription with one
// windowed query for previews and one grouped count.
func (r *pgSubscriptionRepo) loadPreviews(ctx context.Context, subs []domain.Subscription, limit int) error {
	if len(subs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(subs))
	index := make(map[uuid.UUID]int, len(subs))
	for i := range subs {
		ids[i] = subs[i].Author.ID
		index[subs[i].Author.ID] = i
		subs[i].Recipes = []domain.RecipeSummary{}
	}

	const countQ = `
		SELECT author_id, COUNT(*)
		FROM recipes
		WHERE author_id = ANY(@ids::uuid[])
		GROUP BY author_id`

	rows, err := r.db.Query(ctx, countQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("count recipes: %w", err)
	}
	var (
		authorID uuid.UUID
		count    int
	)
	_, err = pgx.ForEachRow(rows, []any{&authorID, &count}, func() error {
		subs[index[authorID]].RecipesCount = count
		return nil
	})
	if err != nil {
		return fmt.Errorf("count recipes: %w", err)
	}

	if limit == 0 {
		return nil
	}

	const previewQ = `
		SELECT author_id, id, name, image, cooking_time
		FROM (
			SELECT r.*, ROW_NUMBER() OVER (PARTITION BY r.author_id ORDER BY r.created_at DESC, r.id DESC) AS rn
			FROM recipes r
			WHERE r.author_id = ANY(@ids::uuid[])
		) ranked
		WHERE rn <= @limit
		ORDER BY author_id, rn`

	rows, err = r.db.Query(ctx, previewQ, pgx.NamedArgs{"ids": ids, "limit": limit})
	if err != nil {
		return fmt.Errorf("load previews: %w", err)
	}
	var rs domain.RecipeSummary
	_, err = pgx.ForEachRow(rows, []any{&authorID, &rs.ID, &rs.Name, &rs.Image, &rs.CookingTime}, func() error {
		i := index[authorID]
		subs[i].Recipes = append(subs[i].Recipes, rs)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load previews: %w", err)
	}
	return nil
}
