package middleware

import (
	"context"
	"net/http"
	"strings"

	"ham-store/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const (
	AdminEmailKey contextKey = "admin_email"
	AdminNameKey  contextKey = "admin_name"
)

// TokenValidator validates a session token and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*service.Claims, error)
}

// AuthMiddleware validates the session token and puts the verified admin
// identity into the request context. There is no shared session state:
// every request carries its own identity.
func AuthMiddleware(auth TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := auth.ValidateToken(r.Context(), parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminEmailKey, claims.Email)
			ctx = context.WithValue(ctx, AdminNameKey, claims.Name)

			logger.Debug("Admin authenticated", zap.String("email", claims.Email))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminEmail extracts the authenticated admin email from the context
func GetAdminEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AdminEmailKey).(string)
	return email, ok
}

// GetAdminName extracts the authenticated admin display name from the context
func GetAdminName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(AdminNameKey).(string)
	return name, ok
}
