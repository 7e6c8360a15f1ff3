package resolver

import (
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// maxDiscountPercent keeps a rounded discount below 100 for near-free prices.
const maxDiscountPercent = 99

var hundred = decimal.NewFromInt(100)

type Pricing struct {
	Current domain.Money
	// CompareAt is nil unless it is strictly greater than Current.
	CompareAt *domain.Money
	// DiscountPercent is nil whenever CompareAt is nil.
	DiscountPercent *int
}

func (p Pricing) HasDiscount() bool {
	return p.DiscountPercent != nil
}

// Price derives the displayed prices for a product and its resolved variant, if any.
func Price(p domain.Product, v *domain.Variant) Pricing {
	current, compareAt := p.BasePrice, p.CompareAtPrice
	if v != nil {
		current, compareAt = v.Price, v.CompareAtPrice
	}

	pricing := Pricing{Current: current}

	if compareAt == nil || !compareAt.GreaterThan(current) {
		return pricing
	}

	shown := *compareAt
	percent := discountPercent(current.Amount, shown.Amount)

	pricing.CompareAt = &shown
	pricing.DiscountPercent = &percent

	return pricing
}

// discountPercent rounds (compareAt - current) / compareAt * 100 half up.
// compareAt is strictly greater than current, which is never negative.
func discountPercent(current, compareAt decimal.Decimal) int {
	percent := compareAt.Sub(current).Mul(hundred).Div(compareAt).Round(0).IntPart()
	if percent > maxDiscountPercent {
		return maxDiscountPercent
	}

	return int(percent)
}
