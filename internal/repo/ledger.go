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

// LedgerRepo defines the persistence operations for the two user-recipe
// fact relations: favorites and cart entries.
type LedgerRepo interface {
	// Add records (userID, recipeID) in the kind's table.
	// Returns domain.ErrConflict if the pair already exists.
	Add(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) (time.Time, error)

	// Remove deletes the pair. Returns domain.ErrNotFound if it was absent.
	Remove(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) error
}

type pgLedgerRepo struct {
	db db
}

// NewLedgerRepo constructs a LedgerRepo backed by the provided db connection.
func NewLedgerRepo(db db) LedgerRepo {
	return &pgLedgerRepo{db: db}
}

// ledgerTable resolves a kind to its table name. Table names cannot be bound
// as parameters, so the set is closed here.
func ledgerTable(kind domain.LedgerKind) (string, error) {
	switch kind {
	case domain.LedgerFavorite:
		return "favorites", nil
	case domain.LedgerCart:
		return "cart_entries", nil
	}
	return "", fmt.Errorf("unknown ledger kind %q", kind)
}

// Add relies on the primary key: when two requests race, ON CONFLICT makes
// the loser see no returned row, which is reported as a conflict.
func (r *pgLedgerRepo) Add(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) (time.Time, error) {
	table, err := ledgerTable(kind)
	if err != nil {
		return time.Time{}, fmt.Errorf("repo.LedgerRepo.Add: %w", err)
	}

	q := `
		INSERT INTO ` + table + ` (user_id, recipe_id)
		VALUES (@user_id, @recipe_id)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
		RETURNING created_at`

	var created time.Time
	err = r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID, "recipe_id": recipeID}).Scan(&created)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("repo.LedgerRepo.Add: %s: %w", kind, domain.ErrConflict)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("repo.LedgerRepo.Add: %w", mapPgError(err))
	}
	return created, nil
}

func (r *pgLedgerRepo) Remove(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) error {
	table, err := ledgerTable(kind)
	if err != nil {
		return fmt.Errorf("repo.LedgerRepo.Remove: %w", err)
	}

	q := `DELETE FROM ` + table + ` WHERE user_id = @user_id AND recipe_id = @recipe_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"user_id": userID, "recipe_id": recipeID})
	if err != nil {
		return fmt.Errorf("repo.LedgerRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.LedgerRepo.Remove: %s entry: %w", kind, domain.ErrNotFound)
	}
	return nil
}
