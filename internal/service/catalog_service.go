package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ham-store/internal/domain"
	"ham-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageSize          = 12
	DefaultFeaturedLimit     = 8
	DefaultRelatedLimit      = 4
	DefaultLowStockThreshold = 10
)

var (
	ErrInvalidSlug          = errors.New("slug must only contain lowercase letters, numbers, and hyphens")
	ErrNegativePrice        = errors.New("price must not be negative")
	ErrDiscountExceedsPrice = errors.New("discounted price must not exceed price")
	ErrNoImages             = errors.New("at least one image is required")
)

// ProductInput carries the fields of a product create or update
type ProductInput struct {
	Title           string
	Slug            string
	Description     string
	Price           decimal.Decimal
	DiscountedPrice decimal.NullDecimal
	Category        string
	Images          []string
	Stock           int
	IsFeatured      bool
}

// ProductPage is one page of a filtered listing
type ProductPage struct {
	Products []*domain.Product
	Total    int
	Page     int
	PageSize int
}

// DashboardStats are the admin dashboard aggregates. Each figure comes
// from an independent query with no shared transaction, so under
// concurrent writes they are not guaranteed mutually consistent.
type DashboardStats struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalOrders      int             `json:"totalOrders"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	PendingOrders    int             `json:"pendingOrders"`
	LowStockProducts int             `json:"lowStockProducts"`
}

// CatalogService defines the business logic over the product catalog.
//
// Read paths deliberately swallow storage failures: listings and derived
// collections degrade to empty results instead of failing the whole page.
// Storefront search silently returning nothing on a transient outage is a
// known trade-off of that policy.
type CatalogService interface {
	ListProducts(ctx context.Context, criteria domain.FilterCriteria) ProductPage
	SearchProducts(ctx context.Context, term string) []*domain.Product
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	FeaturedProducts(ctx context.Context) []*domain.Product
	RelatedProducts(ctx context.Context, product *domain.Product) []*domain.Product
	LowStockProducts(ctx context.Context) []*domain.Product
	DashboardStats(ctx context.Context) DashboardStats
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo       repository.ProductRepository
	orderRepo         repository.OrderRepository
	logger            *zap.Logger
	pageSize          int
	lowStockThreshold int
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger *zap.Logger,
	pageSize int,
	lowStockThreshold int,
) CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &catalogService{
		productRepo:       productRepo,
		orderRepo:         orderRepo,
		logger:            logger,
		pageSize:          pageSize,
		lowStockThreshold: lowStockThreshold,
	}
}

// ListProducts returns one page of the filtered catalog. Storage failures
// are logged and degraded to an empty page.
func (s *catalogService) ListProducts(ctx context.Context, criteria domain.FilterCriteria) ProductPage {
	page := ProductPage{
		Products: []*domain.Product{},
		Page:     criteria.Page,
		PageSize: s.pageSize,
	}
	if page.Page < 1 {
		page.Page = domain.DefaultPage
	}

	products, err := s.productRepo.List(ctx, criteria, s.pageSize)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return page
	}

	total, err := s.productRepo.Count(ctx, criteria)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		total = len(products)
	}

	page.Products = products
	page.Total = total
	return page
}

// SearchProducts matches the term against title or description. Degrades
// to empty results on storage failure.
func (s *catalogService) SearchProducts(ctx context.Context, term string) []*domain.Product {
	products, err := s.productRepo.Search(ctx, term)
	if err != nil {
		s.logger.Error("Failed to search products", zap.Error(err), zap.String("term", term))
		return []*domain.Product{}
	}
	return products
}

// GetProductBySlug returns a single product or ErrProductNotFound. Unlike
// the listing paths, single-item lookups surface not-found to the caller
// so the page can 404.
func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		s.logger.Error("Failed to fetch product", zap.Error(err), zap.String("slug", slug))
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

// FeaturedProducts returns the homepage featured collection
func (s *catalogService) FeaturedProducts(ctx context.Context) []*domain.Product {
	products, err := s.productRepo.Featured(ctx, DefaultFeaturedLimit)
	if err != nil {
		s.logger.Error("Failed to fetch featured products", zap.Error(err))
		return []*domain.Product{}
	}
	return products
}

// RelatedProducts returns products in the same category, excluding the
// current one
func (s *catalogService) RelatedProducts(ctx context.Context, product *domain.Product) []*domain.Product {
	products, err := s.productRepo.Related(ctx, product.Category, product.ID, DefaultRelatedLimit)
	if err != nil {
		s.logger.Error("Failed to fetch related products",
			zap.Error(err),
			zap.String("product_id", product.ID.String()),
		)
		return []*domain.Product{}
	}
	return products
}

// LowStockProducts returns products below the stock threshold, most
// urgent first
func (s *catalogService) LowStockProducts(ctx context.Context) []*domain.Product {
	products, err := s.productRepo.LowStock(ctx, s.lowStockThreshold)
	if err != nil {
		s.logger.Error("Failed to fetch low stock products", zap.Error(err))
		return []*domain.Product{}
	}
	return products
}

// DashboardStats computes the admin dashboard aggregates. Each aggregate
// degrades to zero independently on failure so one broken query does not
// blank the whole dashboard.
func (s *catalogService) DashboardStats(ctx context.Context) DashboardStats {
	stats := DashboardStats{TotalRevenue: decimal.Zero}

	if total, err := s.productRepo.CountAll(ctx); err != nil {
		s.logger.Error("Failed to count products for dashboard", zap.Error(err))
	} else {
		stats.TotalProducts = total
	}

	if total, err := s.orderRepo.CountAll(ctx); err != nil {
		s.logger.Error("Failed to count orders for dashboard", zap.Error(err))
	} else {
		stats.TotalOrders = total
	}

	if amounts, err := s.orderRepo.AmountsByStatuses(ctx, domain.RevenueStatuses); err != nil {
		s.logger.Error("Failed to fetch order amounts for dashboard", zap.Error(err))
	} else {
		revenue := decimal.Zero
		for _, amount := range amounts {
			revenue = revenue.Add(amount)
		}
		stats.TotalRevenue = revenue
	}

	if pending, err := s.orderRepo.CountByStatus(ctx, domain.OrderStatusPending); err != nil {
		s.logger.Error("Failed to count pending orders for dashboard", zap.Error(err))
	} else {
		stats.PendingOrders = pending
	}

	if lowStock, err := s.productRepo.CountLowStock(ctx, s.lowStockThreshold); err != nil {
		s.logger.Error("Failed to count low stock products for dashboard", zap.Error(err))
	} else {
		stats.LowStockProducts = lowStock
	}

	return stats
}

// CreateProduct validates the input and inserts a new product
func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	product.ID = uuid.New()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// UpdateProduct validates the input and updates an existing product
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := productFromInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.ID = id
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct removes a product
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// productFromInput applies the write-path rules: non-negative prices,
// discounted price bounded by price, a valid or derived slug, and at
// least one image before publish. Violations reject the write before it
// reaches storage.
func productFromInput(input ProductInput) (*domain.Product, error) {
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	if input.DiscountedPrice.Valid {
		if input.DiscountedPrice.Decimal.IsNegative() {
			return nil, ErrNegativePrice
		}
		if input.DiscountedPrice.Decimal.GreaterThan(input.Price) {
			return nil, ErrDiscountExceedsPrice
		}
	}

	slug := input.Slug
	if slug == "" {
		slug = domain.GenerateSlug(input.Title)
	}
	if !domain.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	if len(input.Images) == 0 {
		return nil, ErrNoImages
	}

	return &domain.Product{
		Title:           input.Title,
		Slug:            slug,
		Description:     input.Description,
		Price:           input.Price,
		DiscountedPrice: input.DiscountedPrice,
		Category:        input.Category,
		Images:          input.Images,
		Stock:           input.Stock,
		IsFeatured:      input.IsFeatured,
		Currency:        "PKR",
	}, nil
}
