// Package resolver maps a shopper's option selection onto a product's variants.
//
// All functions are pure: they read the product and selection they are given and
// never mutate them. "No match" and "unavailable" are ordinary results, not errors;
// malformed products are rejected earlier by catalog.Validate.
package resolver

import (
	"github.com/nikolayk812/storefront/internal/domain"
)

// MatchVariant returns the variant whose option values equal the selection.
// The selection must hold one value for every declared option. A product sold
// without options resolves to its implicit variant regardless of the selection.
func MatchVariant(p domain.Product, sel domain.Selection) (domain.Variant, bool) {
	if !p.HasVariants() {
		return p.ImplicitVariant(), true
	}

	if !sel.CompleteFor(p) {
		return domain.Variant{}, false
	}

	for _, v := range p.Variants {
		if agrees(p, v, sel, "") {
			return v, true
		}
	}

	return domain.Variant{}, false
}

// FirstVariant is for initial display defaults only; it is not a fallback for a
// failed MatchVariant.
func FirstVariant(p domain.Product) (domain.Variant, bool) {
	if !p.HasVariants() {
		return p.ImplicitVariant(), true
	}
	if len(p.Variants) == 0 {
		return domain.Variant{}, false
	}

	return p.Variants[0], true
}

// DefaultSelection preselects the option values of the first variant.
func DefaultSelection(p domain.Product) domain.Selection {
	sel := domain.Selection{}

	v, ok := FirstVariant(p)
	if !ok {
		return sel
	}

	for _, opt := range p.Options {
		if value, ok := v.Options[opt.Name]; ok {
			sel[opt.Name] = value
		}
	}

	return sel
}

// IsOptionValueAvailable reports whether some in-stock variant sets optionName to
// candidate and agrees with the selection on every other option the selection names.
func IsOptionValueAvailable(p domain.Product, sel domain.Selection, optionName, candidate string) bool {
	opt, ok := p.Option(optionName)
	if !ok || !opt.HasValue(candidate) {
		return false
	}

	for _, v := range p.Variants {
		if v.Options[optionName] != candidate || !v.InStock() {
			continue
		}
		if agrees(p, v, sel, optionName) {
			return true
		}
	}

	return false
}

// AvailableValues lists, in declared order, the values of optionName that pass
// IsOptionValueAvailable.
func AvailableValues(p domain.Product, sel domain.Selection, optionName string) []string {
	opt, ok := p.Option(optionName)
	if !ok {
		return nil
	}

	var values []string
	for _, value := range opt.Values {
		if IsOptionValueAvailable(p, sel, optionName, value) {
			values = append(values, value)
		}
	}

	return values
}

// InStock is false while a product with options has no resolved variant.
func InStock(p domain.Product, v *domain.Variant) bool {
	if v == nil {
		if p.HasVariants() {
			return false
		}
		return p.Available
	}

	return v.InStock()
}

func CanAddToCart(p domain.Product, v *domain.Variant, quantity int) bool {
	if quantity < 1 {
		return false
	}
	if v == nil && p.HasVariants() {
		return false
	}

	return InStock(p, v)
}

// agrees reports whether v carries the selected value for every declared option
// except skip. Options absent from the selection do not constrain the variant.
func agrees(p domain.Product, v domain.Variant, sel domain.Selection, skip string) bool {
	for _, opt := range p.Options {
		if opt.Name == skip {
			continue
		}

		want, ok := sel[opt.Name]
		if !ok {
			continue
		}
		if v.Options[opt.Name] != want {
			return false
		}
	}

	return true
}
