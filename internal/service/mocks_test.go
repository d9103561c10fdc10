package service_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/authz"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/imagestore"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. An unset field panics, which flags an unexpected call.

type mockUserRepo struct {
	create      func(ctx context.Context, u domain.User) (domain.User, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail  func(ctx context.Context, email string) (domain.User, error)
	getAuthor   func(ctx context.Context, id, viewerID uuid.UUID) (domain.Author, error)
	setPassword func(ctx context.Context, id uuid.UUID, hash string) error
	listAuthors func(ctx context.Context, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Author, int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetAuthor(ctx context.Context, id, viewerID uuid.UUID) (domain.Author, error) {
	return m.getAuthor(ctx, id, viewerID)
}
func (m *mockUserRepo) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	return m.setPassword(ctx, id, hash)
}
func (m *mockUserRepo) ListAuthors(ctx context.Context, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Author, int64, error) {
	return m.listAuthors(ctx, viewerID, p)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockTagRepo struct {
	create  func(ctx context.Context, in domain.TagInput) (domain.Tag, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	list    func(ctx context.Context) ([]domain.Tag, error)
}

func (m *mockTagRepo) Create(ctx context.Context, in domain.TagInput) (domain.Tag, error) {
	return m.create(ctx, in)
}
func (m *mockTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	return m.getByID(ctx, id)
}
func (m *mockTagRepo) List(ctx context.Context) ([]domain.Tag, error) {
	return m.list(ctx)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

type mockIngredientRepo struct {
	create  func(ctx context.Context, in domain.IngredientInput) (domain.Ingredient, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Ingredient, error)
	search  func(ctx context.Context, prefix string) ([]domain.Ingredient, error)
}

func (m *mockIngredientRepo) Create(ctx context.Context, in domain.IngredientInput) (domain.Ingredient, error) {
	return m.create(ctx, in)
}
func (m *mockIngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Ingredient, error) {
	return m.getByID(ctx, id)
}
func (m *mockIngredientRepo) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	return m.search(ctx, prefix)
}

var _ repo.IngredientRepo = (*mockIngredientRepo)(nil)

type mockRecipeRepo struct {
	create   func(ctx context.Context, authorID uuid.UUID, in domain.RecipeInput) (uuid.UUID, error)
	update   func(ctx context.Context, id uuid.UUID, in domain.RecipeInput, check repo.OwnerCheck) error
	delete   func(ctx context.Context, id uuid.UUID, check repo.OwnerCheck) error
	authorID func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	get      func(ctx context.Context, id, viewerID uuid.UUID) (domain.Recipe, error)
	summary  func(ctx context.Context, id uuid.UUID) (domain.RecipeSummary, error)
	list     func(ctx context.Context, f domain.RecipeFilter, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Recipe, int64, error)
}

func (m *mockRecipeRepo) Create(ctx context.Context, authorID uuid.UUID, in domain.RecipeInput) (uuid.UUID, error) {
	return m.create(ctx, authorID, in)
}
func (m *mockRecipeRepo) Update(ctx context.Context, id uuid.UUID, in domain.RecipeInput, check repo.OwnerCheck) error {
	return m.update(ctx, id, in, check)
}
func (m *mockRecipeRepo) Delete(ctx context.Context, id uuid.UUID, check repo.OwnerCheck) error {
	return m.delete(ctx, id, check)
}
func (m *mockRecipeRepo) AuthorID(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.authorID(ctx, id)
}
func (m *mockRecipeRepo) Get(ctx context.Context, id, viewerID uuid.UUID) (domain.Recipe, error) {
	return m.get(ctx, id, viewerID)
}
func (m *mockRecipeRepo) Summary(ctx context.Context, id uuid.UUID) (domain.RecipeSummary, error) {
	return m.summary(ctx, id)
}
func (m *mockRecipeRepo) List(ctx context.Context, f domain.RecipeFilter, viewerID uuid.UUID, p domain.PaginationParams) ([]domain.Recipe, int64, error) {
	return m.list(ctx, f, viewerID, p)
}

var _ repo.RecipeRepo = (*mockRecipeRepo)(nil)

type mockLedgerRepo struct {
	add    func(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) (time.Time, error)
	remove func(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) error
}

func (m *mockLedgerRepo) Add(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) (time.Time, error) {
	return m.add(ctx, kind, userID, recipeID)
}
func (m *mockLedgerRepo) Remove(ctx context.Context, kind domain.LedgerKind, userID, recipeID uuid.UUID) error {
	return m.remove(ctx, kind, userID, recipeID)
}

var _ repo.LedgerRepo = (*mockLedgerRepo)(nil)

type mockShoppingRepo struct {
	list func(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error)
}

func (m *mockShoppingRepo) List(ctx context.Context, userID uuid.UUID) ([]domain.ShoppingItem, error) {
	return m.list(ctx, userID)
}

var _ repo.ShoppingRepo = (*mockShoppingRepo)(nil)

type mockSubscriptionRepo struct {
	add      func(ctx context.Context, userID, authorID uuid.UUID) (time.Time, error)
	remove   func(ctx context.Context, userID, authorID uuid.UUID) error
	list     func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams, recipesLimit int) ([]domain.Subscription, int64, error)
	previews func(ctx context.Context, authorID uuid.UUID, recipesLimit int) ([]domain.RecipeSummary, int, error)
}

func (m *mockSubscriptionRepo) Add(ctx context.Context, userID, authorID uuid.UUID) (time.Time, error) {
	return m.add(ctx, userID, authorID)
}
func (m *mockSubscriptionRepo) Remove(ctx context.Context, userID, authorID uuid.UUID) error {
	return m.remove(ctx, userID, authorID)
}
func (m *mockSubscriptionRepo) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams, recipesLimit int) ([]domain.Subscription, int64, error) {
	return m.list(ctx, userID, p, recipesLimit)
}
func (m *mockSubscriptionRepo) Previews(ctx context.Context, authorID uuid.UUID, recipesLimit int) ([]domain.RecipeSummary, int, error) {
	return m.previews(ctx, authorID, recipesLimit)
}

var _ repo.SubscriptionRepo = (*mockSubscriptionRepo)(nil)

type mockImageSaver struct {
	calls int
	saved imagestore.Image
	err   error
}

func (m *mockImageSaver) Save(_ context.Context, img imagestore.Image) (string, error) {
	m.calls++
	m.saved = img
	if m.err != nil {
		return "", m.err
	}
	return "/media/" + img.Key(), nil
}

var _ service.ImageSaver = (*mockImageSaver)(nil)

type mockTokenIssuer struct {
	issue func(u domain.User) (string, error)
}

func (m *mockTokenIssuer) Issue(u domain.User) (string, error) { return m.issue(u) }

var _ service.TokenIssuer = (*mockTokenIssuer)(nil)

// ---- helpers ---------------------------------------------------------------

func newEnforcer(t *testing.T) *authz.Enforcer {
	t.Helper()
	e, err := authz.NewEnforcer()
	require.NoError(t, err)
	return e
}

func user() domain.Viewer  { return domain.Viewer{ID: uuid.New()} }
func admin() domain.Viewer { return domain.Viewer{ID: uuid.New(), Admin: true} }

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)

func pngURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}
