package repository

import (
	"context"
	"testing"

	"ham-store/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminUserRepository_CreateAndFind(t *testing.T) {
	if _, err := testDB.Exec("DELETE FROM admin_users"); err != nil {
		t.Fatalf("Failed to clear admin users: %v", err)
	}

	repo := NewAdminUserRepository(testDB)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.AdminUser{
		ID:           uuid.New(),
		Email:        "admin@ham.pk",
		Name:         "Store Admin",
		PasswordHash: string(hash),
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "admin@ham.pk")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found.Name != "Store Admin" {
		t.Errorf("Expected Store Admin, got %q", found.Name)
	}
	if bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte("correct-horse")) != nil {
		t.Error("Expected stored hash to verify")
	}

	if err := repo.Create(ctx, user); err != ErrAdminUserAlreadyExists {
		t.Errorf("Expected ErrAdminUserAlreadyExists, got %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@ham.pk"); err != ErrAdminUserNotFound {
		t.Errorf("Expected ErrAdminUserNotFound, got %v", err)
	}
}
