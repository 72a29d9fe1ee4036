// Package money formats catalog amounts for display. The deployment
// currency is PKR.
package money

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var pkr = accounting.Accounting{Symbol: "Rs. ", Precision: 0, Thousand: ","}

// FormatPrice renders an amount in the given currency. PKR (and the empty
// string, which means PKR here) renders as "Rs. 1,234"; anything else
// falls back to "<code> <amount>" with two decimals.
func FormatPrice(amount decimal.Decimal, currency string) string {
	if currency == "" || currency == "PKR" {
		return pkr.FormatMoneyDecimal(amount)
	}

	ac := accounting.Accounting{Symbol: currency + " ", Precision: 2, Thousand: ","}
	return ac.FormatMoneyDecimal(amount)
}

// DiscountPercent computes the rounded discount percentage between the
// original and discounted price. Non-positive originals yield 0.
func DiscountPercent(original, discounted decimal.Decimal) int {
	if !original.IsPositive() {
		return 0
	}

	percent := original.Sub(discounted).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0)

	return int(percent.IntPart())
}
