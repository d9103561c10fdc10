// Package handler implements the HTTP handlers for the Foodgram API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, recipe.go, etc.) but share the same Server struct so they can
// access its dependencies. Routes wires them into a chi router.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foodgram/backend/internal/auth"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/spec"
)

// The servicer interfaces below are defined here, in the consumer package,
// so handler tests can inject mocks without a database or service layer.

type UserServicer interface {
	Register(ctx context.Context, in domain.UserInput) (domain.Author, error)
	Login(ctx context.Context, c domain.Credentials) (string, error)
	Me(ctx context.Context, v domain.Viewer) (domain.Author, error)
	SetPassword(ctx context.Context, v domain.Viewer, in domain.PasswordChange) error
	Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Author, error)
	List(ctx context.Context, v domain.Viewer, p domain.PaginationParams) (domain.Page[domain.Author], error)
}

// TokenRevoker invalidates a token on logout. *auth.TokenIssuer satisfies it.
type TokenRevoker interface {
	Revoke(ctx context.Context, c *auth.Claims) error
}

type CatalogServicer interface {
	CreateTag(ctx context.Context, v domain.Viewer, in domain.TagInput) (domain.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateIngredient(ctx context.Context, v domain.Viewer, in domain.IngredientInput) (domain.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (domain.Ingredient, error)
	SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error)
}

type RecipeServicer interface {
	Create(ctx context.Context, v domain.Viewer, in domain.RecipeInput) (domain.Recipe, error)
	Update(ctx context.Context, v domain.Viewer, id uuid.UUID, in domain.RecipeInput) (domain.Recipe, error)
	Delete(ctx context.Context, v domain.Viewer, id uuid.UUID) error
	Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Recipe, error)
	List(ctx context.Context, v domain.Viewer, f domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error)
}

type LedgerServicer interface {
	Add(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) (domain.RecipeSummary, error)
	Remove(ctx context.Context, v domain.Viewer, kind domain.LedgerKind, recipeID uuid.UUID) error
}

type ShoppingServicer interface {
	List(ctx context.Context, v domain.Viewer) ([]domain.ShoppingItem, error)
}

type SubscriptionServicer interface {
	Subscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID, recipesLimit *int) (domain.Subscription, error)
	Unsubscribe(ctx context.Context, v domain.Viewer, authorID uuid.UUID) error
	List(ctx context.Context, v domain.Viewer, p domain.PaginationParams, recipesLimit *int) (domain.Page[domain.Subscription], error)
}

// Middleware is the chi/net/http middleware shape.
type Middleware = func(http.Handler) http.Handler

// Deps carries everything Routes needs. Nil services leave their routes
// mounted but unusable, which handler tests rely on to wire one resource at a time.
type Deps struct {
	Users         UserServicer
	Tokens        TokenRevoker
	Catalog       CatalogServicer
	Recipes       RecipeServicer
	Ledger        LedgerServicer
	Shopping      ShoppingServicer
	Subscriptions SubscriptionServicer

	// Authenticate resolves the bearer token into a viewer for every /api route.
	Authenticate Middleware
	// RecipeQuota guards POST /api/recipes. Optional.
	RecipeQuota Middleware
	// MediaDir is served at /media when images are stored on local disk.
	MediaDir string
}

// Server holds the handler dependencies.
type Server struct {
	users    UserServicer
	tokens   TokenRevoker
	catalog  CatalogServicer
	recipes  RecipeServicer
	ledger   LedgerServicer
	shopping ShoppingServicer
	subs     SubscriptionServicer

	authenticate Middleware
	recipeQuota  Middleware
	mediaDir     string
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	return &Server{
		users:        d.Users,
		tokens:       d.Tokens,
		catalog:      d.Catalog,
		recipes:      d.Recipes,
		ledger:       d.Ledger,
		shopping:     d.Shopping,
		subs:         d.Subscriptions,
		authenticate: d.Authenticate,
		recipeQuota:  d.RecipeQuota,
		mediaDir:     d.MediaDir,
	}
}

func passthrough(next http.Handler) http.Handler { return next }

// Routes returns the API router. Cross-cutting middleware (request id,
// logging, CORS, rate limits) is applied by the caller.
func (s *Server) Routes() chi.Router {
	authenticate := s.authenticate
	if authenticate == nil {
		authenticate = passthrough
	}
	quota := s.recipeQuota
	if quota == nil {
		quota = passthrough
	}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Handle("/metrics", promhttp.Handler())
	if s.mediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/auth/token/login", s.Login)
		r.Post("/auth/token/logout", s.Logout)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.ListUsers)
			r.Post("/", s.Register)
			r.Get("/me", s.Me)
			r.Post("/set_password", s.SetPassword)
			r.Get("/subscriptions", s.ListSubscriptions)
			r.Get("/{id}", s.GetUser)
			r.Post("/{id}/subscribe", s.Subscribe)
			r.Delete("/{id}/subscribe", s.Unsubscribe)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.ListTags)
			r.Post("/", s.CreateTag)
			r.Get("/{id}", s.GetTag)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", s.ListIngredients)
			r.Post("/", s.CreateIngredient)
			r.Get("/{id}", s.GetIngredient)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", s.ListRecipes)
			r.With(quota).Post("/", s.CreateRecipe)
			r.Get("/download_shopping_cart", s.DownloadShoppingCart)
			r.Get("/{id}", s.GetRecipe)
			r.Put("/{id}", s.UpdateRecipe)
			r.Patch("/{id}", s.UpdateRecipe)
			r.Delete("/{id}", s.DeleteRecipe)
			r.Post("/{id}/favorite", s.ledgerAdd(domain.LedgerFavorite))
			r.Delete("/{id}/favorite", s.ledgerRemove(domain.LedgerFavorite))
			r.Post("/{id}/shopping_cart", s.ledgerAdd(domain.LedgerCart))
			r.Delete("/{id}/shopping_cart", s.ledgerRemove(domain.LedgerCart))
		})
	})
	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
