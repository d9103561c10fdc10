package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// IngredientRepo defines the persistence operations for the ingredient catalog.
type IngredientRepo interface {
	// Create inserts an ingredient. A duplicate (name, unit) pair yields domain.ErrConflict.
	Create(ctx context.Context, in domain.IngredientInput) (domain.Ingredient, error)

	// GetByID returns domain.ErrNotFound if no ingredient with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Ingredient, error)

	// Search returns ingredients whose name starts with prefix (case-insensitive),
	// ordered by name. An empty prefix returns the whole catalog.
	Search(ctx context.Context, prefix string) ([]domain.Ingredient, error)
}

type pgIngredientRepo struct {
	db db
}

// NewIngredientRepo constructs an IngredientRepo backed by the provided db connection.
func NewIngredientRepo(db db) IngredientRepo {
	return &pgIngredientRepo{db: db}
}

func (r *pgIngredientRepo) Create(ctx context.Context, in domain.IngredientInput) (domain.Ingredient, error) {
	const q = `
		INSERT INTO ingredients (name, measurement_unit)
		VALUES (@name, @unit)
		RETURNING id, name, measurement_unit`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": in.Name, "unit": in.MeasurementUnit})
	result, err := scanIngredient(row)
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("repo.IngredientRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgIngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Ingredient, error) {
	const q = `SELECT id, name, measurement_unit FROM ingredients WHERE id = @id`

	result, err := scanIngredient(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("repo.IngredientRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgIngredientRepo) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	const q = `
		SELECT id, name, measurement_unit
		FROM ingredients
		WHERE lower(name) LIKE lower(@prefix) || '%'
		ORDER BY name, measurement_unit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"prefix": escapeLike(prefix)})
	if err != nil {
		return nil, fmt.Errorf("repo.IngredientRepo.Search: %w", err)
	}
	items, err := collect(rows, scanIngredient)
	if err != nil {
		return nil, fmt.Errorf("repo.IngredientRepo.Search: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanIngredient(s scanner) (domain.Ingredient, error) {
	var i domain.Ingredient
	err := s.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}
