package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog product as stored
type Product struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	Title           string              `json:"title" db:"title"`
	Slug            string              `json:"slug" db:"slug"`
	Description     string              `json:"description" db:"description"`
	Price           decimal.Decimal     `json:"price" db:"price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price" db:"discounted_price"`
	Category        string              `json:"category" db:"category"`
	Images          []string            `json:"images" db:"images"`
	Stock           int                 `json:"stock" db:"stock"`
	IsFeatured      bool                `json:"is_featured" db:"is_featured"`
	Reviews         int                 `json:"reviews" db:"reviews"`
	Currency        string              `json:"currency" db:"currency"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}

// EffectivePrice returns the discounted price when present, else the base price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice.Valid {
		return p.DiscountedPrice.Decimal
	}
	return p.Price
}

// InStock reports whether the product has any stock left
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// StockStatus returns the storefront stock label
func (p *Product) StockStatus() string {
	switch {
	case p.Stock == 0:
		return "Out of Stock"
	case p.Stock < 5:
		return "Only few left"
	default:
		return "In Stock"
	}
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
	slugTrimRe     = regexp.MustCompile(`^-+|-+$`)
	slugValidRe    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// GenerateSlug derives a URL-safe slug from a title
func GenerateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return slugTrimRe.ReplaceAllString(s, "")
}

// ValidSlug reports whether s contains only lowercase letters, digits and hyphens
func ValidSlug(s string) bool {
	return slugValidRe.MatchString(s)
}
