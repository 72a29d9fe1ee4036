package domain

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Domain defaults for the shareable filter state. A key absent from the
// query string always means "use the default"; keys equal to their default
// are omitted when serializing so the shareable form stays canonical.
var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(10000)
)

const DefaultPage = 1

// FilterCriteria is the per-request set of catalog filters. It is
// constructed from raw query parameters, never persisted, and fully
// reconstructible from its query-string form.
type FilterCriteria struct {
	Category string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Search   string
	Page     int
}

// ParseFilterCriteria builds criteria from raw query parameters. Malformed
// numbers are treated as absent, never as errors. Inverted ranges
// (min > max) are passed through untouched; the caller owns that invariant.
func ParseFilterCriteria(values url.Values) FilterCriteria {
	c := FilterCriteria{Page: DefaultPage}

	c.Category = values.Get("category")
	c.Search = values.Get("search")

	if raw := values.Get("minPrice"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			c.MinPrice = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	if raw := values.Get("maxPrice"); raw != "" {
		if d, err := decimal.NewFromString(raw); err == nil && !d.IsNegative() {
			c.MaxPrice = decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}

	if raw := values.Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			c.Page = p
		}
	}

	return c
}

// Values serializes the criteria to its shareable query-string form.
// Fields equal to the domain defaults are omitted, so serializing and
// re-parsing is idempotent rather than strictly bijective.
func (c FilterCriteria) Values() url.Values {
	values := url.Values{}

	if c.Category != "" {
		values.Set("category", c.Category)
	}
	if c.MinPrice.Valid && !c.MinPrice.Decimal.Equal(DefaultMinPrice) {
		values.Set("minPrice", c.MinPrice.Decimal.String())
	}
	if c.MaxPrice.Valid && !c.MaxPrice.Decimal.Equal(DefaultMaxPrice) {
		values.Set("maxPrice", c.MaxPrice.Decimal.String())
	}
	if c.Search != "" {
		values.Set("search", c.Search)
	}
	if c.Page > DefaultPage {
		values.Set("page", strconv.Itoa(c.Page))
	}

	return values
}

// IsZero reports whether no filter field is set beyond the defaults
func (c FilterCriteria) IsZero() bool {
	return c.Category == "" && c.Search == "" && c.Page <= DefaultPage &&
		(!c.MinPrice.Valid || c.MinPrice.Decimal.Equal(DefaultMinPrice)) &&
		(!c.MaxPrice.Valid || c.MaxPrice.Decimal.Equal(DefaultMaxPrice))
}
