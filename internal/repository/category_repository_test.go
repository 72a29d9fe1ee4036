package repository

import (
	"context"
	"testing"
	"time"

	"ham-store/internal/domain"

	"github.com/google/uuid"
)

func clearCategories(t *testing.T) {
	t.Helper()
	if _, err := testDB.Exec("DELETE FROM categories"); err != nil {
		t.Fatalf("Failed to clear categories: %v", err)
	}
}

func newTestCategory(title, slug string) *domain.Category {
	return &domain.Category{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Image:     "https://cdn.example.com/" + slug + ".jpg",
		CreatedAt: time.Now(),
	}
}

func TestCategoryRepository_CreateAndList(t *testing.T) {
	clearCategories(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	for _, c := range []*domain.Category{
		newTestCategory("Shoulder Bags", "shoulder-bags"),
		newTestCategory("Clutches", "clutches"),
		newTestCategory("Totes", "totes"),
	} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Failed to create category: %v", err)
		}
	}

	categories, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("Expected 3 categories, got %d", len(categories))
	}
	// Alphabetical by title
	if categories[0].Title != "Clutches" || categories[2].Title != "Totes" {
		t.Errorf("Expected alphabetical order, got %v", categoryTitles(categories))
	}
}

func TestCategoryRepository_SlugConflict(t *testing.T) {
	clearCategories(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, newTestCategory("Totes", "totes")); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	if err := repo.Create(ctx, newTestCategory("Totes Again", "totes")); err != ErrCategorySlugTaken {
		t.Errorf("Expected ErrCategorySlugTaken, got %v", err)
	}
}

func TestCategoryRepository_FindBySlug(t *testing.T) {
	clearCategories(t)
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, newTestCategory("Clutches", "clutches")); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	category, err := repo.FindBySlug(ctx, "clutches")
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if category.Title != "Clutches" {
		t.Errorf("Expected Clutches, got %q", category.Title)
	}

	if _, err := repo.FindBySlug(ctx, "missing"); err != ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryRepository_DeleteLeavesProductSlugsDangling(t *testing.T) {
	clearCategories(t)
	clearProducts(t)
	categoryRepo := NewCategoryRepository(testDB)
	productRepo := NewProductRepository(testDB)
	ctx := context.Background()

	category := newTestCategory("Handbags", "handbags")
	if err := categoryRepo.Create(ctx, category); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	product := newTestProduct("orphan-tote", "handbags", 1000, time.Now())
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}

	if err := categoryRepo.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	kept, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("Product disappeared with its category: %v", err)
	}
	if kept.Category != "handbags" {
		t.Errorf("Expected dangling category slug, got %q", kept.Category)
	}
}

func categoryTitles(categories []*domain.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Title)
	}
	return out
}
