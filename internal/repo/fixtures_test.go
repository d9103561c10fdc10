package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
)

// Fixtures insert through the repos themselves so every test exercises the
// same SQL the server runs. All writes land in the per-test transaction.

func seedUser(t *testing.T, tx pgx.Tx, username string) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Create(context.Background(), domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "not-a-real-hash",
	})
	require.NoError(t, err, "seed user %s", username)
	return u
}

func seedTag(t *testing.T, tx pgx.Tx, slug string) domain.Tag {
	t.Helper()
	tag, err := repo.NewTagRepo(tx).Create(context.Background(), domain.TagInput{
		Name: "Tag " + slug, Color: "#abc", Slug: slug,
	})
	require.NoError(t, err, "seed tag %s", slug)
	return tag
}

func seedIngredient(t *testing.T, tx pgx.Tx, name, unit string) domain.Ingredient {
	t.Helper()
	ing, err := repo.NewIngredientRepo(tx).Create(context.Background(), domain.IngredientInput{
		Name: name, MeasurementUnit: unit,
	})
	require.NoError(t, err, "seed ingredient %s", name)
	return ing
}

// recipeInput builds a valid write payload from (ingredient, amount) pairs.
func recipeInput(name string, tags []domain.Tag, lines ...any) domain.RecipeInput {
	in := domain.RecipeInput{
		Name:        name,
		Text:        "Cook it.",
		CookingTime: 10,
		Image:       "/media/recipes/" + name + ".png",
	}
	for _, tag := range tags {
		in.Tags = append(in.Tags, tag.ID)
	}
	for i := 0; i+1 < len(lines); i += 2 {
		in.Ingredients = append(in.Ingredients, domain.IngredientLine{
			IngredientID: lines[i].(domain.Ingredient).ID,
			Amount:       lines[i+1].(int),
		})
	}
	return in
}

func seedRecipe(t *testing.T, tx pgx.Tx, author uuid.UUID, in domain.RecipeInput) uuid.UUID {
	t.Helper()
	id, err := repo.NewRecipeRepo(tx).Create(context.Background(), author, in)
	require.NoError(t, err, "seed recipe %s", in.Name)
	return id
}
