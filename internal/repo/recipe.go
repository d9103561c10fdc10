package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/foodgram/backend/internal/domain"
)

// OwnerCheck is called with a recipe's author while its row is locked.
// A non-nil return aborts the surrounding transaction.
type OwnerCheck func(authorID uuid.UUID) error

// RecipeRepo defines the persistence operations for the recipe aggregate:
// the recipe row, its ingredient lines and its tag links.
type RecipeRepo interface {
	// Create inserts a recipe with its lines and tag links in one transaction
	// and returns the new id. A dangling tag or ingredient id yields a
	// *domain.ReferenceError and nothing is written.
	Create(ctx context.Context, authorID uuid.UUID, in domain.RecipeInput) (uuid.UUID, error)

	// Update replaces the recipe's scalar fields, lines and tag links in one
	// transaction. The recipe row is locked with SELECT ... FOR UPDATE and
	// check is called with its author before anything changes.
	// An empty in.Image keeps the stored image.
	Update(ctx context.Context, id uuid.UUID, in domain.RecipeInput, check OwnerCheck) error

	// Delete removes a recipe after check approves its author. Lines, tag
	// links and ledger entries cascade.
	Delete(ctx context.Context, id uuid.UUID, check OwnerCheck) error

	// AuthorID returns the recipe's author, or domain.ErrNotFound.
	AuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	// Get returns the read view relative to viewerID (uuid.Nil when anonymous).
	Get(ctx context.Context, id, viewerID uuid.UUID) (domain.Recipe, error)

	// Summary returns the short view, or domain.ErrNotFound.
	Summary(ctx context.Context, id uuid.UUID) (domain.RecipeSummary, error)

	// List returns one page of read views, most recent first, and the total
	// number of recipes matching f.
	List(ctx context.Context, f domain.RecipeFilter, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Recipe, int64, error)
}

type pgRecipeRepo struct {
	db db
}

// NewRecipeRepo constructs a RecipeRepo backed by the provided db connection.
func NewRecipeRepo(db db) RecipeRepo {
	return &pgRecipeRepo{db: db}
}

func (r *pgRecipeRepo) Create(ctx context.Context, authorID uuid.UUID, in domain.RecipeInput) (uuid.UUID, error) {
	const q = `
		INSERT INTO recipes (author_id, name, text, cooking_time, image)
		VALUES (@author_id, @name, @text, @cooking_time, @image)
		RETURNING id`

	var id uuid.UUID
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := verifyReferences(ctx, tx, in); err != nil {
			return err
		}
		args := pgx.NamedArgs{
			"author_id":    authorID,
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image":        in.Image,
		}
		if err := tx.QueryRow(ctx, q, args).Scan(&id); err != nil {
			return mapPgError(err)
		}
		return insertChildren(ctx, tx, id, in)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.RecipeRepo.Create: %w", err)
	}
	return id, nil
}

func (r *pgRecipeRepo) Update(ctx context.Context, id uuid.UUID, in domain.RecipeInput, check OwnerCheck) error {
	const q = `
		UPDATE recipes
		SET name         = @name,
		    text         = @text,
		    cooking_time = @cooking_time,
		    image        = coalesce(nullif(@image::text, ''), image),
		    updated_at   = now()
		WHERE id = @id`

	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockRecipe(ctx, tx, id, check); err != nil {
			return err
		}
		if err := verifyReferences(ctx, tx, in); err != nil {
			return err
		}
		args := pgx.NamedArgs{
			"id":           id,
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
			"image":        in.Image,
		}
		if _, err := tx.Exec(ctx, q, args); err != nil {
			return mapPgError(err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = @id`, pgx.NamedArgs{"id": id}); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id = @id`, pgx.NamedArgs{"id": id}); err != nil {
			return err
		}
		return insertChildren(ctx, tx, id, in)
	})
	if err != nil {
		return fmt.Errorf("repo.RecipeRepo.Update: %w", err)
	}
	return nil
}

func (r *pgRecipeRepo) Delete(ctx context.Context, id uuid.UUID, check OwnerCheck) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockRecipe(ctx, tx, id, check); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM recipes WHERE id = @id`, pgx.NamedArgs{"id": id})
		return err
	})
	if err != nil {
		return fmt.Errorf("repo.RecipeRepo.Delete: %w", err)
	}
	return nil
}

func (r *pgRecipeRepo) AuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var author uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT author_id FROM recipes WHERE id = @id`, pgx.NamedArgs{"id": id}).Scan(&author)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.RecipeRepo.AuthorID: %w", mapPgError(err))
	}
	return author, nil
}

// lockRecipe takes the row lock for a replace-all write and runs check.
func lockRecipe(ctx context.Context, tx pgx.Tx, id uuid.UUID, check OwnerCheck) error {
	var author uuid.UUID
	err := tx.QueryRow(ctx, `SELECT author_id FROM recipes WHERE id = @id FOR UPDATE`, pgx.NamedArgs{"id": id}).Scan(&author)
	if err != nil {
		return mapPgError(err)
	}
	if check == nil {
		return nil
	}
	return check(author)
}

// verifyReferences reports the first tag or ingredient id, in input order,
// that does not exist.
func verifyReferences(ctx context.Context, tx pgx.Tx, in domain.RecipeInput) error {
	if len(in.Tags) > 0 {
		if err := verifyIDs(ctx, tx, `SELECT id FROM tags WHERE id = ANY(@ids::uuid[])`, "tag", in.Tags); err != nil {
			return err
		}
	}
	ingredientIDs := make([]uuid.UUID, len(in.Ingredients))
	for i, line := range in.Ingredients {
		ingredientIDs[i] = line.IngredientID
	}
	if len(ingredientIDs) > 0 {
		return verifyIDs(ctx, tx, `SELECT id FROM ingredients WHERE id = ANY(@ids::uuid[])`, "ingredient", ingredientIDs)
	}
	return nil
}

func verifyIDs(ctx context.Context, tx pgx.Tx, q, kind string, ids []uuid.UUID) error {
	rows, err := tx.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("verify %s ids: %w", kind, err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return fmt.Errorf("verify %s ids: %w", kind, err)
	}

	seen := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		seen[id] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return &domain.ReferenceError{Kind: kind, ID: id.String()}
		}
	}
	return nil
}

// insertChildren writes the ingredient lines and tag links for recipeID.
func insertChildren(ctx context.Context, tx pgx.Tx, recipeID uuid.UUID, in domain.RecipeInput) error {
	const linesQ = `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount)
		SELECT @recipe_id::uuid, t.ingredient_id, t.amount
		FROM unnest(@ingredient_ids::uuid[], @amounts::int[]) AS t(ingredient_id, amount)`

	const tagsQ = `
		INSERT INTO recipe_tags (recipe_id, tag_id)
		SELECT @recipe_id::uuid, unnest(@tag_ids::uuid[])`

	ids := make([]uuid.UUID, len(in.Ingredients))
	amounts := make([]int32, len(in.Ingredients))
	for i, line := range in.Ingredients {
		ids[i] = line.IngredientID
		amounts[i] = int32(line.Amount)
	}

	if len(ids) > 0 {
		args := pgx.NamedArgs{"recipe_id": recipeID, "ingredient_ids": ids, "amounts": amounts}
		if _, err := tx.Exec(ctx, linesQ, args); err != nil {
			return fmt.Errorf("insert lines: %w", mapPgError(err))
		}
	}
	if len(in.Tags) > 0 {
		args := pgx.NamedArgs{"recipe_id": recipeID, "tag_ids": in.Tags}
		if _, err := tx.Exec(ctx, tagsQ, args); err != nil {
			return fmt.Errorf("insert tags: %w", mapPgError(err))
		}
	}
	return nil
}

// recipeSelect expects a @viewer argument. Anonymous viewers pass uuid.Nil,
// which never matches a ledger row.
const recipeSelect = `
	SELECT r.id, r.name, r.text, r.cooking_time, r.image, r.created_at, r.updated_at,
	       u.id, u.email, u.username, u.first_name, u.last_name,
	       EXISTS (SELECT 1 FROM subscriptions s WHERE s.user_id = @viewer AND s.author_id = u.id),
	       EXISTS (SELECT 1 FROM favorites f WHERE f.user_id = @viewer AND f.recipe_id = r.id),
	       EXISTS (SELECT 1 FROM cart_entries c WHERE c.user_id = @viewer AND c.recipe_id = r.id)
	FROM recipes r
	JOIN users u ON u.id = r.author_id`

// recipeFilter expects @author, @tags, @favorited, @in_cart and @viewer.
const recipeFilter = `
	WHERE (@author::uuid IS NULL OR r.author_id = @author::uuid)
	  AND (coalesce(cardinality(@tags::text[]), 0) = 0 OR EXISTS (
	        SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
	        WHERE rt.recipe_id = r.id AND t.slug = ANY(@tags::text[])))
	  AND (NOT @favorited::boolean OR EXISTS (
	        SELECT 1 FROM favorites f WHERE f.user_id = @viewer AND f.recipe_id = r.id))
	  AND (NOT @in_cart::boolean OR EXISTS (
	        SELECT 1 FROM cart_entries c WHERE c.user_id = @viewer AND c.recipe_id = r.id))`

func (r *pgRecipeRepo) Get(ctx context.Context, id, viewerID uuid.UUID) (domain.Recipe, error) {
	const q = recipeSelect + ` WHERE r.id = @id`

	rec, err := scanRecipe(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "viewer": viewerID}))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Get: %w", mapPgError(err))
	}

	recipes := []domain.Recipe{rec}
	if err := loadChildren(ctx, r.db, recipes); err != nil {
		return domain.Recipe{}, fmt.Errorf("repo.RecipeRepo.Get: %w", err)
	}
	return recipes[0], nil
}

func (r *pgRecipeRepo) Summary(ctx context.Context, id uuid.UUID) (domain.RecipeSummary, error) {
	const q = `SELECT id, name, image, cooking_time FROM recipes WHERE id = @id`

	s, err := scanRecipeSummary(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.RecipeSummary{}, fmt.Errorf("repo.RecipeRepo.Summary: %w", mapPgError(err))
	}
	return s, nil
}

func (r *pgRecipeRepo) List(ctx context.Context, f domain.RecipeFilter, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
	tags := f.TagSlugs
	if tags == nil {
		tags = []string{}
	}
	args := pgx.NamedArgs{
		"viewer":    viewerID,
		"author":    f.AuthorID,
		"tags":      tags,
		"favorited": f.Favorited,
		"in_cart":   f.InCart,
		"limit":     p.Limit,
		"offset":    p.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recipes r`+recipeFilter, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.List: count: %w", err)
	}

	const q = recipeSelect + recipeFilter + `
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	recipes, err := collect(rows, scanRecipe)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	if err := loadChildren(ctx, r.db, recipes); err != nil {
		return nil, 0, fmt.Errorf("repo.RecipeRepo.List: %w", err)
	}
	return recipes, total, nil
}

// loadChildren fills Tags and Ingredients for every recipe with two batched
// queries. Tags are ordered by name, lines by ingredient name then unit.
func loadChildren(ctx context.Context, d db, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Tags = []domain.Tag{}
		recipes[i].Ingredients = []domain.RecipeIngredient{}
	}

	const tagsQ = `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug, t.created_at
		FROM recipe_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY(@ids::uuid[])
		ORDER BY t.name`

	rows, err := d.Query(ctx, tagsQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	var (
		recipeID uuid.UUID
		t        domain.Tag
	)
	_, err = pgx.ForEachRow(rows, []any{&recipeID, &t.ID, &t.Name, &t.Color, &t.Slug, &t.CreatedAt}, func() error {
		i := index[recipeID]
		recipes[i].Tags = append(recipes[i].Tags, t)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	const linesQ = `
		SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ANY(@ids::uuid[])
		ORDER BY i.name, i.measurement_unit`

	rows, err = d.Query(ctx, linesQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	var line domain.RecipeIngredient
	_, err = pgx.ForEachRow(rows, []any{&recipeID, &line.ID, &line.Name, &line.MeasurementUnit, &line.Amount}, func() error {
		i := index[recipeID]
		recipes[i].Ingredients = append(recipes[i].Ingredients, line)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load ingredients: %w", err)
	}
	return nil
}

func scanRecipe(s scanner) (domain.Recipe, error) {
	var rec domain.Recipe
	err := s.Scan(
		&rec.ID, &rec.Name, &rec.Text, &rec.CookingTime, &rec.Image, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.Author.ID, &rec.Author.Email, &rec.Author.Username, &rec.Author.FirstName, &rec.Author.LastName,
		&rec.Author.IsSubscribed, &rec.IsFavorited, &rec.IsInShoppingCart,
	)
	return rec, err
}

func scanRecipeSummary(s scanner) (domain.RecipeSummary, error) {
	var rs domain.RecipeSummary
	err := s.Scan(&rs.ID, &rs.Name, &rs.Image, &rs.CookingTime)
	return rs, err
}
