package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// TagRepo defines the persistence operations for catalog tags.
type TagRepo interface {
	// Create inserts a tag. A duplicate name or slug yields domain.ErrConflict.
	Create(ctx context.Context, in domain.TagInput) (domain.Tag, error)

	// GetByID returns domain.ErrNotFound if no tag with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error)

	// List returns every tag ordered by name.
	List(ctx context.Context) ([]domain.Tag, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

const tagColumns = `id, name, color, slug, created_at`

func (r *pgTagRepo) Create(ctx context.Context, in domain.TagInput) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name, color, slug)
		VALUES (@name, @color, @slug)
		RETURNING ` + tagColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": in.Name, "color": in.Color, "slug": in.Slug})
	result, err := scanTag(row)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	const q = `SELECT ` + tagColumns + ` FROM tags WHERE id = @id`

	result, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", mapPgError(err))
	}
	return result, nil
}

func (r *pgTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	const q = `SELECT ` + tagColumns + ` FROM tags ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	tags, err := collect(rows, scanTag)
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var t domain.Tag
	err := s.Scan(&t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt)
	return t, err
}
