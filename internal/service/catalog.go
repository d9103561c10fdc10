package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/authz"
	"github.com/foodgram/backend/internal/domain"
	"github.com/foodgram/backend/internal/repo"
	"github.com/foodgram/backend/internal/validation"
)

// CatalogService serves the tag and ingredient reference data. Reads are
// public; creation is limited to catalog administrators.
type CatalogService struct {
	tags        repo.TagRepo
	ingredients repo.IngredientRepo
	authz       Authorizer
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(tags repo.TagRepo, ingredients repo.IngredientRepo, az Authorizer) *CatalogService {
	return &CatalogService{tags: tags, ingredients: ingredients, authz: az}
}

// CreateTag validates and persists a tag. Colors are stored lower-case.
func (s *CatalogService) CreateTag(ctx context.Context, v domain.Viewer, in domain.TagInput) (domain.Tag, error) {
	if err := s.authz.Authorize(v, uuid.Nil, authz.ObjTag, authz.ActCreate); err != nil {
		return domain.Tag{}, fmt.Errorf("service.CatalogService.CreateTag: %w", err)
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))
	if err := validation.Struct(in); err != nil {
		return domain.Tag{}, fmt.Errorf("service.CatalogService.CreateTag: %w", err)
	}

	tag, err := s.tags.Create(ctx, in)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.CatalogService.CreateTag: %w", err)
	}
	return tag, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.CatalogService.GetTag: %w", err)
	}
	return tag, nil
}

func (s *CatalogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.ListTags: %w", err)
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}

// CreateIngredient validates and persists an ingredient.
func (s *CatalogService) CreateIngredient(ctx context.Context, v domain.Viewer, in domain.IngredientInput) (domain.Ingredient, error) {
	if err := s.authz.Authorize(v, uuid.Nil, authz.ObjIngredient, authz.ActCreate); err != nil {
		return domain.Ingredient{}, fmt.Errorf("service.CatalogService.CreateIngredient: %w", err)
	}
	in.Name = strings.TrimSpace(in.Name)
	in.MeasurementUnit = strings.TrimSpace(in.MeasurementUnit)
	if err := validation.Struct(in); err != nil {
		return domain.Ingredient{}, fmt.Errorf("service.CatalogService.CreateIngredient: %w", err)
	}

	ing, err := s.ingredients.Create(ctx, in)
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("service.CatalogService.CreateIngredient: %w", err)
	}
	return ing, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (domain.Ingredient, error) {
	ing, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("service.CatalogService.GetIngredient: %w", err)
	}
	return ing, nil
}

// SearchIngredients returns ingredients whose name starts with prefix.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	items, err := s.ingredients.Search(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.SearchIngredients: %w", err)
	}
	if items == nil {
		items = []domain.Ingredient{}
	}
	return items, nil
}
