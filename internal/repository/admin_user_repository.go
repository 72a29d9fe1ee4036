package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ham-store/internal/domain"
)

var (
	ErrAdminUserNotFound      = errors.New("admin user not found")
	ErrAdminUserAlreadyExists = errors.New("admin user with this email already exists")
)

// AdminUserRepository defines the interface for admin account data access.
// Presence of an email in admin_users is what grants back-office access.
type AdminUserRepository interface {
	Create(ctx context.Context, user *domain.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}

type adminUserRepository struct {
	db *sql.DB
}

// NewAdminUserRepository creates a new instance of AdminUserRepository
func NewAdminUserRepository(db *sql.DB) AdminUserRepository {
	return &adminUserRepository{db: db}
}

// Create inserts a new admin account using parameterized queries
func (r *adminUserRepository) Create(ctx context.Context, user *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "admin_users_email_key") {
			return ErrAdminUserAlreadyExists
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}

// FindByEmail retrieves an admin account by email
func (r *adminUserRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM admin_users
		WHERE email = $1
	`

	user := &domain.AdminUser{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("failed to find admin user by email: %w", err)
	}

	return user, nil
}
