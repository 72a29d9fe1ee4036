package service

import (
	"context"
	"errors"
	"testing"

	"ham-store/internal/domain"
	"ham-store/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	failing    bool
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.failing {
		return errStorageDown
	}
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return repository.ErrCategorySlugTaken
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if m.failing {
		return errStorageDown
	}
	if _, exists := m.categories[category.ID]; !exists {
		return repository.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.failing {
		return errStorageDown
	}
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.failing {
		return nil, errStorageDown
	}
	categories := []*domain.Category{}
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if m.failing {
		return nil, errStorageDown
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func TestCategoryService_ListDegradesOnFailure(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	categoryRepo.failing = true
	svc := NewCategoryService(categoryRepo, zap.NewNop())

	categories := svc.ListCategories(context.Background())
	if categories == nil || len(categories) != 0 {
		t.Errorf("Expected degraded empty list, got %v", categories)
	}
}

func TestCategoryService_CreateDerivesSlug(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepository(), zap.NewNop())

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Title: "Shoulder Bags"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if category.Slug != "shoulder-bags" {
		t.Errorf("Expected derived slug shoulder-bags, got %q", category.Slug)
	}
}

func TestCategoryService_CreateRejectsInvalidSlug(t *testing.T) {
	svc := NewCategoryService(newMockCategoryRepository(), zap.NewNop())

	_, err := svc.CreateCategory(context.Background(), CategoryInput{Title: "Shoulder Bags", Slug: "Not Valid!"})
	if !errors.Is(err, ErrInvalidSlug) {
		t.Errorf("Expected ErrInvalidSlug, got %v", err)
	}
}

func TestCategoryService_GetCategoryBySlugNormalizesFailures(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	categoryRepo.failing = true
	svc := NewCategoryService(categoryRepo, zap.NewNop())

	_, err := svc.GetCategoryBySlug(context.Background(), "handbags")
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("Expected storage failure to present as not-found, got %v", err)
	}
}

func TestCategoryService_DeleteLeavesProductsAlone(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	svc := NewCategoryService(categoryRepo, zap.NewNop())
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CategoryInput{Title: "Handbags"})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	p := &domain.Product{ID: uuid.New(), Slug: "classic-tote", Category: "handbags"}
	productRepo.products[p.ID] = p

	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	// The product keeps its now-dangling category slug
	kept, err := productRepo.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("Product disappeared with its category: %v", err)
	}
	if kept.Category != "handbags" {
		t.Errorf("Expected dangling category slug to survive, got %q", kept.Category)
	}
}
