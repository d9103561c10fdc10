package handler_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/handler"
)

// Hand-written test doubles for the handler's servicer interfaces.
// Set only the method fields your test needs.

type mockUserServicer struct {
	register    func(ctx context.Context, in domain.UserInput) (domain.Author, error)
	login       func(ctx context.Context, c domain.Credentials) (string, error)
	me          func(ctx context.Context, v domain.Viewer) (domain.Author, error)
	setPassword func(ctx context.Context, v domain.Viewer, in domain.PasswordChange) error
	get         func(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Author, error)
	list        func(ctx context.Context, v domain.Viewer, p domain.PaginationParams) (domain.Page[domain.Author], error)
}

func (m *mockUserServicer) Register(ctx context.Context, in domain.UserInput) (domain.Author, error) {
	return m.register(ctx, in)
}
func (m *mockUserServicer) Login(ctx context.Context, c domain.Credentials) (string, error) {
	return m.login(ctx, c)
}
func (m *mockUserServicer) Me(ctx context.Context, v domain.Viewer) (domain.Author, error) {
	return m.me(ctx, v)
}
func (m *mockUserServicer) SetPassword(ctx context.Context, v domain.Viewer, in domain.PasswordChange) error {
	return m.setPassword(ctx, v, in)
}
func (m *mockUserServicer) Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Author, error) {
	return m.get(ctx, v, id)
}
func (m *mockUserServicer) List(ctx context.Context, v domain.Viewer, p domain.PaginationParams) (domain.Page[domain.Author], error) {
	return m.list(ctx, v, p)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

type mockTokenRevoker struct {
	revoke func(ctx context.Context, c *auth.Claims) error
}

func (m *mockTokenRevoker) Revoke(ctx context.Context, c *auth.Claims) error { return m.revoke(ctx, c) }

var _ handler.TokenRevoker = (*mockTokenRevoker)(nil)

type mockCatalogServicer struct {
	createTag         func(ctx context.Context, v domain.Viewer, in domain.TagInput) (domain.Tag, error)
	getTag            func(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	listTags          func(ctx context.Context) ([]domain.Tag, error)
	createIngredient  func(ctx context.Context, v domain.Viewer, in domain.IngredientInput) (domain.Ingredient, error)
	getIngredient     func(ctx context.Context, id uuid.UUID) (domain.Ingredient, error)
	searchIngredients func(ctx context.Context, prefix string) ([]domain.Ingredient, error)
}

func (m *mockCatalogServicer) CreateTag(ctx context.Context, v domain.Viewer, in domain.TagInput) (domain.Tag, error) {
	return m.createTag(ctx, v, in)
}
func (m *mockCatalogServicer) GetTag(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	return m.getTag(ctx, id)
}
func (m *mockCatalogServicer) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return m.listTags(ctx)
}
func (m *mockCatalogServicer) CreateIngredient(ctx context.Context, v domain.Viewer, in domain.IngredientInput) (domain.Ingredient, error) {
	return m.createIngredient(ctx, v, in)
}
func (m *mockCatalogServicer) GetIngredient(ctx context.Context, id uuid.UUID) (domain.Ingredient, error) {
	return m.getIngredient(ctx, id)
}
func (m *mockCatalogServicer) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	return m.searchIngredients(ctx, prefix)
}

var _ handler.CatalogServicer = (*mockCatalogServicer)(nil)

type mockRecipeServicer struct {
	create func(ctx context.Context, v domain.Viewer, in domain.RecipeInput) (domain.Recipe, error)
	update func(ctx context.Context, v domain.Viewer, id uuid.UUID, in domain.RecipeInput) (domain.Recipe, error)
	delete func(ctx context.Context, v domain.Viewer, id uuid.UUID) error
	get    func(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Recipe, error)
	list   func(ctx context.Context, v domain.Viewer, f domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error)
}

func (m *mockRecipeServicer) Create(ctx context.Context, v domain.Viewer, in domain.RecipeInput) (domain.Recipe, error) {
	return m.create(ctx, v, in)
}
func (m *mockRecipeServicer) Update(ctx context.Context, v domain.Viewer, id uuid.UUID, in domain.RecipeInput) (domain.Recipe, error) {
	return m.update(ctx, v, id, in)
}
func (m *mockRecipeServicer) Delete(ctx context.Context, v domain.Viewer, id uuid.UUID) error {
	return m.delete(ctx, v, id)
}
func (m *mockRecipeServicer) Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Recipe, error) {
	return m.get(ctx, v, id)
}
func (m *mockRecipeServicer) List(ctx context.Context, v domain.Viewer, f domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error) {
	return m.list(ctx, v, f, p)
}

var _ handler.RecipeServicer = (*mockRecipeServicer)(nil)

type mockLedgerServicer struct {
	add    func(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) (domain.RecipeSummary, error)
	remove func(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) error
}

func (m *mockLedgerServicer) Add(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) (domain.RecipeSummary, error) {
	return m.add(ctx, v, kind, recipeID)
}
func (m *mockLedgerServicer) Remove(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) error {
	return m.remove(ctx, v, kind, recipeID)
}

var _ handler.LedgerServicer = (*mockLedgerServicer)(nil)

type mockShoppingServicer struct {
	list func(ctx context.Context, v domain.Viewer) ([]domain.ShoppingItem, error)
}

func (m *mockShoppingServicer) List(ctx context.Context, v domain.Viewer) ([]domain.ShoppingItem, error) {
	return m.list(ctx, v)
}

var _ handler.ShoppingServicer = (*mockShoppingServicer)(nil)

type mockSubscriptionServicer struct {
	subscribe   func(ctx context.Context, v domain.Viewer, authorID uuid.UUID, recipesLimit *int) (domain.Subscription, error)
	unsubscribe func(ctx context.Context, v domain.Viewer, authorID uuid.UUID) error
	list        func(ctx context.Context, v domain.Viewer, p domain.PaginationParams, recipesLimit *int) (domain.Page[domain.Subscription], error)
}

func (m *mockSubscriptionServicer) Subscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID, recipesLimit *int) (domain.Subscription, error) {
	return m.subscribe(ctx, v, authorID, recipesLimit)
}
func (m *mockSubscriptionServicer) Unsubscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID) error {
	return m.unsubscribe(ctx, v, authorID)
}
func (m *mockSubscriptionServicer) List(ctx context.Context, v domain.Viewer, p domain.PaginationParams, recipesLimit *int) (domain.Page[domain.Subscription], error) {
	return m.list(ctx, v, p, recipesLimit)
}

var _ handler.SubscriptionServicer = (*mockSubscriptionServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// asViewer is an Authenticate stand-in that puts a fixed viewer (and claims)
// on every request, so tests need no signed tokens.
func asViewer(v domain.Viewer) handler.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithViewer(r.Context(), v)
			if !v.Anonymous() {
				claims := &auth.Claims{}
				claims.Subject = v.ID.String()
				claims.ID = "test-jti"
				ctx = auth.WithClaims(ctx, claims)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(d handler.Deps) http.Handler {
	return handler.NewServer(d).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}

var (
	alice = domain.Viewer{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111")}
	anon  = domain.Viewer{}
)
