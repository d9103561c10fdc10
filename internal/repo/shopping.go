package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// ShoppingRepo aggregates ingredient lines over a user's cart.
type ShoppingRepo interface {
	// List returns one row per (ingredient name, unit) with amounts summed
	// across every carted recipe, ordered by name then unit.
	// An empty cart yields an empty slice.
	List(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error)
}

type pgShoppingRepo struct {
	db db
}

// NewShoppingRepo constructs a ShoppingRepo backed by the provided db connection.
func NewShoppingRepo(db db) ShoppingRepo {
	return &pgShoppingRepo{db: db}
}

func (r *pgShoppingRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error) {
	const q = `
		SELECT i.name, i.measurement_unit, SUM(ri.amount)::bigint AS total
		FROM cart_entries c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.user_id = @user_id
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.ShoppingRepo.List: %w", err)
	}
	items, err := collect(rows, func(s scanner) (domain.ShoppingItem, error) {
		var it domain.ShoppingItem
		err := s.Scan(&it.Name, &it.MeasurementUnit, &it.TotalAmount)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ShoppingRepo.List: %w", err)
	}
	if items == nil {
		items = []domain.ShoppingItem{}
	}
	return items, nil
}
