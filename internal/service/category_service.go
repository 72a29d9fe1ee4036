package service

import (
	"context"
	"fmt"
	"time"

	"ham-store/internal/domain"
	"ham-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryInput carries the fields of a category create or update
type CategoryInput struct {
	Title string
	Slug  string
	Image string
}

// CategoryService defines the business logic over categories
type CategoryService interface {
	ListCategories(ctx context.Context) []*domain.Category
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// ListCategories returns all categories ordered by title. Degrades to an
// empty list on storage failure, same policy as the catalog listings.
func (s *categoryService) ListCategories(ctx context.Context) []*domain.Category {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return []*domain.Category{}
	}
	return categories
}

// GetCategoryBySlug returns a single category or ErrCategoryNotFound
func (s *categoryService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, err
		}
		s.logger.Error("Failed to fetch category", zap.Error(err), zap.String("slug", slug))
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory validates the input and inserts a new category
func (s *categoryService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	slug := input.Slug
	if slug == "" {
		slug = domain.GenerateSlug(input.Title)
	}
	if !domain.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Title:     input.Title,
		Slug:      slug,
		Image:     input.Image,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory validates the input and updates an existing category
func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*domain.Category, error) {
	slug := input.Slug
	if slug == "" {
		slug = domain.GenerateSlug(input.Title)
	}
	if !domain.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	category := &domain.Category{
		ID:    id,
		Title: input.Title,
		Slug:  slug,
		Image: input.Image,
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Products referencing its slug keep
// the dangling reference; that is explicit product policy, not an
// oversight.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}
