package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/authz"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/imagestore"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/validation"
)

// RecipeService implements recipe CRUD and listing.
type RecipeService struct {
	recipes repo.RecipeRepo
	images  ImageSaver
	authz   Authorizer
}

// NewRecipeService constructs a RecipeService.
func NewRecipeService(recipes repo.RecipeRepo, images ImageSaver, az Authorizer) *RecipeService {
	return &RecipeService{recipes: recipes, images: images, authz: az}
}

// Create validates in, stores the image and writes the recipe with its lines
// and tag links in one transaction. It returns the read view for v.
func (s *RecipeService) Create(ctx context.Context, v domain.Viewer, in domain.RecipeInput) (domain.Recipe, error) {
	if err := s.authz.Authorize(v, uuid.Nil, authz.ObjRecipe, authz.ActCreate); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	if err := validateRecipe(&in); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	if len(in.Tags) == 0 {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w",
			domain.NewValidationError("tags", "must contain at least 1 item(s)"))
	}
	if in.Image == "" {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w",
			domain.NewValidationError("image", "is required"))
	}

	ref, err := s.storeImage(ctx, in.Image)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	in.Image = ref

	id, err := s.recipes.Create(ctx, v.ID, in)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	metrics.RecipeWrites.WithLabelValues("create").Inc()

	r, err := s.recipes.Get(ctx, id, v.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Create: %w", err)
	}
	return r, nil
}

// Update replaces every field, line and tag link of recipe id. The tag list
// may be empty. An empty image keeps the stored one.
func (s *RecipeService) Update(ctx context.Context, v domain.Viewer, id uuid.UUID, in domain.RecipeInput) (domain.Recipe, error) {
	if err := requireViewer(v); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	if err := s.checkOwner(ctx, v, id, authz.ActUpdate); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	if err := validateRecipe(&in); err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}

	if in.Image != "" {
		ref, err := s.storeImage(ctx, in.Image)
		if err != nil {
			return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
		}
		in.Image = ref
	}

	err := s.recipes.Update(ctx, id, in, s.ownerCheck(v, authz.ActUpdate))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	metrics.RecipeWrites.WithLabelValues("update").Inc()

	r, err := s.recipes.Get(ctx, id, v.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Update: %w", err)
	}
	return r, nil
}

// Delete removes recipe id when v is its author or an admin.
func (s *RecipeService) Delete(ctx context.Context, v domain.Viewer, id uuid.UUID) error {
	if err := requireViewer(v); err != nil {
		return fmt.Errorf("service.RecipeService.Delete: %w", err)
	}
	if err := s.recipes.Delete(ctx, id, s.ownerCheck(v, authz.ActDelete)); err != nil {
		return fmt.Errorf("service.RecipeService.Delete: %w", err)
	}
	metrics.RecipeWrites.WithLabelValues("delete").Inc()
	return nil
}

// Get returns the read view of recipe id relative to v.
func (s *RecipeService) Get(ctx context.Context, v domain.Viewer, id uuid.UUID) (domain.Recipe, error) {
	r, err := s.recipes.Get(ctx, id, v.ID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("service.RecipeService.Get: %w", err)
	}
	return r, nil
}

// List returns one page of recipes matching f, newest first. The viewer-only
// filters are rejected for anonymous callers.
func (s *RecipeService) List(ctx context.Context, v domain.Viewer, f domain.RecipeFilter, p domain.PaginationParams) (domain.Page[domain.Recipe], error) {
	if v.Anonymous() {
		if f.Favorited {
			return domain.Page[domain.Recipe]{}, fmt.Errorf("service.RecipeService.List: %w",
				domain.NewValidationError("is_favorited", "requires authentication"))
		}
		if f.InCart {
			return domain.Page[domain.Recipe]{}, fmt.Errorf("service.RecipeService.List: %w",
				domain.NewValidationError("is_in_shopping_cart", "requires authentication"))
		}
	}

	items, total, err := s.recipes.List(ctx, f, v.ID, p)
	if err != nil {
		return domain.Page[domain.Recipe]{}, fmt.Errorf("service.RecipeService.List: %w", err)
	}
	return domain.NewPage(items, total, p), nil
}

// checkOwner resolves the recipe's author so a missing recipe reports 404
// before the permission decision.
func (s *RecipeService) checkOwner(ctx context.Context, v domain.Viewer, id uuid.UUID, act authz.Action) error {
	author, err := s.recipes.AuthorID(ctx, id)
	if err != nil {
		return err
	}
	return s.authz.Authorize(v, author, authz.ObjRecipe, act)
}

// ownerCheck re-runs the decision inside the repo transaction, against the
// locked row.
func (s *RecipeService) ownerCheck(v domain.Viewer, act authz.Action) repo.OwnerCheck {
	return func(author uuid.UUID) error {
		return s.authz.Authorize(v, author, authz.ObjRecipe, act)
	}
}

func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	img, err := imagestore.Decode(dataURI)
	if err != nil {
		return "", err
	}
	return s.images.Save(ctx, img)
}

func validateRecipe(in *domain.RecipeInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Image = strings.TrimSpace(in.Image)
	return validation.Struct(*in)
}
