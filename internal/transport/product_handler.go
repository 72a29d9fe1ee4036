package transport

import (
	"errors"
	"net/http"

	"ham-store/internal/adapter"
	"ham-store/internal/domain"
	"ham-store/internal/middleware"
	"ham-store/internal/repository"
	"ham-store/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload
type ProductRequest struct {
	Title           string           `json:"title" validate:"required,min=3"`
	Slug            string           `json:"slug" validate:"omitempty,min=3"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price"`
	Category        string           `json:"category" validate:"required"`
	Images          []string         `json:"images" validate:"required,min=1,dive,url"`
	Stock           int              `json:"stock" validate:"gte=0"`
	IsFeatured      bool             `json:"is_featured"`
}

// ProductListResponse is one page of adapted products
type ProductListResponse struct {
	Products []adapter.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ProductDetailResponse is the single-item detail view
type ProductDetailResponse struct {
	Product adapter.ProductDetails `json:"product"`
	Related []adapter.Product      `json:"related"`
}

// ProductHandler handles HTTP requests for catalog products
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public storefront routes
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)
		r.Get("/{slug}", h.Detail)
		r.Get("/{slug}/related", h.Related)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	r.Get("/api/search", h.Search)
}

// List handles the filtered, paginated catalog listing. The raw query
// parameters are the shareable location state; absent keys mean domain
// defaults.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria := domain.ParseFilterCriteria(r.URL.Query())

	page := h.catalog.ListProducts(r.Context(), criteria)

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: adapter.AdaptMany(page.Products),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

// Featured handles the homepage featured collection
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.FeaturedProducts(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, adapter.AdaptMany(products))
}

// Search handles free-text catalog search
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		term = r.URL.Query().Get("search")
	}

	products := h.catalog.SearchProducts(r.Context(), term)
	middleware.RespondWithJSON(w, http.StatusOK, adapter.AdaptMany(products))
}

// Detail handles the single-product view with its related collection
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	related := h.catalog.RelatedProducts(r.Context(), product)

	middleware.RespondWithJSON(w, http.StatusOK, ProductDetailResponse{
		Product: adapter.AdaptWithDetails(product),
		Related: adapter.AdaptMany(related),
	})
}

// Related handles the standalone related-products collection
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	related := h.catalog.RelatedProducts(r.Context(), product)
	middleware.RespondWithJSON(w, http.StatusOK, adapter.AdaptMany(related))
}

// Create handles admin product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), *input)
	if err != nil {
		h.respondProductWriteError(w, err)
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles admin product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	input, ok := h.decodeProductInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, *input)
	if err != nil {
		h.respondProductWriteError(w, err)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles admin product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeProductInput(w http.ResponseWriter, r *http.Request) (*service.ProductInput, bool) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return nil, false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	input := &service.ProductInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		IsFeatured:  req.IsFeatured,
	}
	if req.DiscountedPrice != nil {
		input.DiscountedPrice = decimal.NullDecimal{Decimal: *req.DiscountedPrice, Valid: true}
	}

	return input, true
}

func (h *ProductHandler) respondProductWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSlug),
		errors.Is(err, service.ErrNegativePrice),
		errors.Is(err, service.ErrDiscountExceedsPrice),
		errors.Is(err, service.ErrNoImages):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductSlugTaken):
		middleware.RespondWithError(w, http.StatusConflict, repository.ErrProductSlugTaken.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error("Product write failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save product")
	}
}
