package adapter

import (
	"strconv"

	"ham-store/internal/domain"
	"ham-store/internal/images"
	"ham-store/internal/money"

	"github.com/shopspring/decimal"
)

// thumbnailWidth bounds the grid thumbnail rendition requested from the CDN
const thumbnailWidth = 400

// Product is the shape storefront components consume. DisplayID is a lossy
// numeric key derived from the storage identifier for components that
// expect a number; it is display-only and must never be used to look a
// product back up.
type Product struct {
	DisplayID       int             `json:"id"`
	Title           string          `json:"title"`
	Reviews         int             `json:"reviews"`
	Price           decimal.Decimal `json:"price"`
	DiscountedPrice decimal.Decimal `json:"discountedPrice"`
	DiscountPercent int             `json:"discountPercent,omitempty"`
	Imgs            ProductImages   `json:"imgs"`
}

// ProductImages holds the image collections. Both come from the same
// underlying image list; thumbnails are width-bounded CDN renditions,
// previews are the originals. URLs from an unrecognized host carry no
// rendition parameters, so for those the two lists are identical.
type ProductImages struct {
	Thumbnails []string `json:"thumbnails"`
	Previews   []string `json:"previews"`
}

// ProductDetails extends Product with the fields only the single-item
// detail view needs.
type ProductDetails struct {
	Product
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Slug           string   `json:"slug"`
	Stock          int      `json:"stock"`
	InStock        bool     `json:"inStock"`
	StockStatus    string   `json:"stockStatus"`
	IsFeatured     bool     `json:"is_featured"`
	Currency       string   `json:"currency"`
	FormattedPrice string   `json:"formattedPrice"`
	Images         []string `json:"images"`
}

// Adapt converts a stored product to the component shape. Pure function:
// same input always yields the same output.
func Adapt(p *domain.Product) Product {
	adapted := Product{
		DisplayID:       displayID(p),
		Title:           p.Title,
		Reviews:         p.Reviews,
		Price:           p.Price,
		DiscountedPrice: p.EffectivePrice(),
		Imgs: ProductImages{
			Thumbnails: thumbnailRenditions(p.Images),
			Previews:   p.Images,
		},
	}
	if p.DiscountedPrice.Valid {
		adapted.DiscountPercent = money.DiscountPercent(p.Price, p.DiscountedPrice.Decimal)
	}
	return adapted
}

// AdaptMany converts a slice element-wise, preserving order and length
func AdaptMany(products []*domain.Product) []Product {
	adapted := make([]Product, 0, len(products))
	for _, p := range products {
		adapted = append(adapted, Adapt(p))
	}
	return adapted
}

// AdaptWithDetails converts a stored product for the detail view
func AdaptWithDetails(p *domain.Product) ProductDetails {
	return ProductDetails{
		Product:        Adapt(p),
		Description:    p.Description,
		Category:       p.Category,
		Slug:           p.Slug,
		Stock:          p.Stock,
		InStock:        p.InStock(),
		StockStatus:    p.StockStatus(),
		IsFeatured:     p.IsFeatured,
		Currency:       p.Currency,
		FormattedPrice: money.FormatPrice(p.EffectivePrice(), p.Currency),
		Images:         p.Images,
	}
}

func thumbnailRenditions(urls []string) []string {
	thumbs := make([]string, len(urls))
	for i, u := range urls {
		thumbs[i] = images.TransformURL(u, images.TransformOptions{
			Width:   thumbnailWidth,
			Quality: 80,
			Format:  "auto",
		})
	}
	return thumbs
}

// displayID parses the first 8 hex digits of the UUID. Deterministic but
// not collision-free; good enough for a presentation key.
func displayID(p *domain.Product) int {
	v, err := strconv.ParseUint(p.ID.String()[:8], 16, 64)
	if err != nil {
		return 0
	}
	return int(v)
}
