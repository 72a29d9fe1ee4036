package transport

import (
	"errors"
	"net/http"

	"ham-store/internal/middleware"
	"ham-store/internal/repository"
	"ham-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	Title string `json:"title" validate:"required,min=2"`
	Slug  string `json:"slug" validate:"omitempty,min=2"`
	Image string `json:"image" validate:"omitempty,url"`
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categories service.CategoryService
	logger     *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{slug}", h.Detail)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles the category listing
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := h.categories.ListCategories(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Detail handles the single-category view
func (h *CategoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.categories.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create handles admin category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeCategoryInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), *input)
	if err != nil {
		h.respondCategoryWriteError(w, err)
		return
	}

	h.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update handles admin category updates
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	input, ok := h.decodeCategoryInput(w, r)
	if !ok {
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, *input)
	if err != nil {
		h.respondCategoryWriteError(w, err)
		return
	}

	h.logger.Info("Category updated", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete handles admin category deletion. Products in the category are
// not touched.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *CategoryHandler) decodeCategoryInput(w http.ResponseWriter, r *http.Request) (*service.CategoryInput, bool) {
	var req CategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Category validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	return &service.CategoryInput{
		Title: req.Title,
		Slug:  req.Slug,
		Image: req.Image,
	}, true
}

func (h *CategoryHandler) respondCategoryWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSlug):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrCategorySlugTaken):
		middleware.RespondWithError(w, http.StatusConflict, repository.ErrCategorySlugTaken.Error())
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	default:
		h.logger.Error("Category write failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save category")
	}
}
