package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ham-store/internal/domain"
	"ham-store/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// DefaultSessionExpiry is used when no expiry is configured
	DefaultSessionExpiry = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims represents the admin session JWT claims
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService defines admin authentication. A session is a signed token
// carrying the admin's email; admin standing is membership in admin_users,
// checked at sign-in and again on every token validation. There is no
// shared session state in the process: the verified identity travels in
// the request context.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (token string, user *domain.AdminUser, err error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	IsAdmin(ctx context.Context, email string) bool
}

type authService struct {
	adminRepo     repository.AdminUserRepository
	jwtSecret     string
	sessionExpiry time.Duration
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(adminRepo repository.AdminUserRepository, jwtSecret string, sessionExpiry time.Duration) AuthService {
	if sessionExpiry <= 0 {
		sessionExpiry = DefaultSessionExpiry
	}
	return &authService{
		adminRepo:     adminRepo,
		jwtSecret:     jwtSecret,
		sessionExpiry: sessionExpiry,
	}
}

// SignIn authenticates an admin and returns a session token
func (s *authService) SignIn(ctx context.Context, email, password string) (string, *domain.AdminUser, error) {
	user, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrAdminUserNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := &Claims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, user, nil
}

// ValidateToken parses a session token and re-checks admin membership, so
// a removed admin loses access as soon as their next request arrives
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !s.IsAdmin(ctx, claims.Email) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IsAdmin reports whether the email belongs to a back-office account
func (s *authService) IsAdmin(ctx context.Context, email string) bool {
	if email == "" {
		return false
	}

	_, err := s.adminRepo.FindByEmail(ctx, email)
	return err == nil
}

// HashPassword hashes a password for storage in admin_users
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
