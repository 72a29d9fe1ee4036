package transport

import (
	"errors"
	"net/http"

	"ham-store/internal/middleware"
	"ham-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignInRequest represents the admin sign-in payload
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse represents a successful sign-in
type SignInResponse struct {
	Token string       `json:"token"`
	Admin AdminProfile `json:"admin"`
}

// AdminProfile represents the signed-in admin
type AdminProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signin", h.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/signout", h.SignOut)
			r.Get("/me", h.Me)
		})
	})
}

// SignIn authenticates an admin and returns a session token
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sign-in validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, admin, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("Sign-in failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.logger.Info("Admin signed in", zap.String("email", admin.Email))
	middleware.RespondWithJSON(w, http.StatusOK, SignInResponse{
		Token: token,
		Admin: AdminProfile{Email: admin.Email, Name: admin.Name},
	})
}

// SignOut ends the session. Sessions are stateless tokens, so the server
// side has nothing to revoke; the client discards the token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if email, ok := middleware.GetAdminEmail(r.Context()); ok {
		h.logger.Info("Admin signed out", zap.String("email", email))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated admin's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetAdminEmail(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	name, _ := middleware.GetAdminName(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, AdminProfile{Email: email, Name: name})
}
