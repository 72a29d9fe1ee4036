package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ham-store/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductSlugTaken = errors.New("product with this slug already exists")
)

const productColumns = `id, title, slug, description, price, discounted_price, category, images, stock, is_featured, reviews, currency, created_at, updated_at`

// effectivePriceExpr is the price the storefront filters and displays:
// the discounted price when present, the base price otherwise.
const effectivePriceExpr = `COALESCE(discounted_price, price)`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, criteria domain.FilterCriteria, pageSize int) ([]*domain.Product, error)
	Count(ctx context.Context, criteria domain.FilterCriteria) (int, error)
	Search(ctx context.Context, term string) ([]*domain.Product, error)
	Featured(ctx context.Context, limit int) ([]*domain.Product, error)
	Related(ctx context.Context, category string, excludeID uuid.UUID, limit int) ([]*domain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]*domain.Product, error)
	CountAll(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context, threshold int) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// buildFilter compiles filter criteria into WHERE terms. The term order is
// fixed: equality on category, then the price bounds on the effective
// price, then the substring match on title. Selective equality terms come
// first so they narrow the candidate set before the more expensive
// substring match; fixing the order keeps query cost and results
// deterministic for identical criteria. Only supplied fields contribute a
// term.
func buildFilter(criteria domain.FilterCriteria) (string, []interface{}, int) {
	terms := []string{}
	args := []interface{}{}
	argIndex := 1

	if criteria.Category != "" {
		terms = append(terms, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, criteria.Category)
		argIndex++
	}

	if criteria.MinPrice.Valid {
		terms = append(terms, fmt.Sprintf("%s >= $%d", effectivePriceExpr, argIndex))
		args = append(args, criteria.MinPrice.Decimal)
		argIndex++
	}

	if criteria.MaxPrice.Valid {
		terms = append(terms, fmt.Sprintf("%s <= $%d", effectivePriceExpr, argIndex))
		args = append(args, criteria.MaxPrice.Decimal)
		argIndex++
	}

	if criteria.Search != "" {
		terms = append(terms, fmt.Sprintf("title ILIKE $%d", argIndex))
		args = append(args, "%"+criteria.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(terms) > 0 {
		whereClause = "WHERE " + strings.Join(terms, " AND ")
	}

	return whereClause, args, argIndex
}

// List retrieves products matching the criteria, newest first, paginated.
// Empty criteria return the full collection ordered by creation time
// descending.
func (r *productRepository) List(ctx context.Context, criteria domain.FilterCriteria, pageSize int) ([]*domain.Product, error) {
	whereClause, args, argIndex := buildFilter(criteria)

	page := criteria.Page
	if page < 1 {
		page = domain.DefaultPage
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	return r.queryProducts(ctx, query, args...)
}

// Count returns the number of products matching the criteria, ignoring
// pagination
func (r *productRepository) Count(ctx context.Context, criteria domain.FilterCriteria) (int, error) {
	whereClause, args, _ := buildFilter(criteria)

	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return total, nil
}

// Search matches the term against title or description, case-insensitive,
// newest first
func (r *productRepository) Search(ctx context.Context, term string) ([]*domain.Product, error) {
	pattern := "%" + term + "%"

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC
	`, productColumns)

	return r.queryProducts(ctx, query, pattern)
}

// Featured retrieves featured products, newest first, bounded to limit
func (r *productRepository) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE is_featured = TRUE
		ORDER BY created_at DESC
		LIMIT $1
	`, productColumns)

	return r.queryProducts(ctx, query, limit)
}

// Related retrieves products in the same category excluding the current
// one, bounded to limit
func (r *productRepository) Related(ctx context.Context, category string, excludeID uuid.UUID, limit int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE category = $1 AND id <> $2
		ORDER BY created_at DESC
		LIMIT $3
	`, productColumns)

	return r.queryProducts(ctx, query, category, excludeID, limit)
}

// LowStock retrieves products with stock strictly below the threshold,
// ascending by stock so the most urgent items come first. This is the one
// read that inverts the global newest-first default.
func (r *productRepository) LowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE stock < $1
		ORDER BY stock ASC
	`, productColumns)

	return r.queryProducts(ctx, query, threshold)
}

// CountAll returns the total number of products
func (r *productRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// CountLowStock returns the number of products with stock below the threshold
func (r *productRepository) CountLowStock(ctx context.Context, threshold int) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE stock < $1", threshold).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count low stock products: %w", err)
	}
	return total, nil
}

// FindByID retrieves a product by its storage identifier
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return r.queryProduct(ctx, query, id)
}

// FindBySlug retrieves a product by its unique slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE slug = $1", productColumns)
	return r.queryProduct(ctx, query, slug)
}

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO products (id, title, slug, description, price, discounted_price, category, images, stock, is_featured, reviews, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.DiscountedPrice,
		product.Category,
		images,
		product.Stock,
		product.IsFeatured,
		product.Reviews,
		product.Currency,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "products_slug_key") {
			return ErrProductSlugTaken
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		UPDATE products
		SET title = $2, slug = $3, description = $4, price = $5,
		    discounted_price = $6, category = $7, images = $8, stock = $9,
		    is_featured = $10, reviews = $11, currency = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.DiscountedPrice,
		product.Category,
		images,
		product.Stock,
		product.IsFeatured,
		product.Reviews,
		product.Currency,
		product.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "products_slug_key") {
			return ErrProductSlugTaken
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) queryProduct(ctx context.Context, query string, args ...interface{}) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var description sql.NullString
	var images []byte

	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Slug,
		&description,
		&product.Price,
		&product.DiscountedPrice,
		&product.Category,
		&images,
		&product.Stock,
		&product.IsFeatured,
		&product.Reviews,
		&product.Currency,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Description = description.String
	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}
	}

	return product, nil
}
