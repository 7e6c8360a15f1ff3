package catalog

import (
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
)

// Validate checks that a product is internally consistent. Every failure is an
// *domain.IntegrityError; the product must not be served when one is returned.
func Validate(p domain.Product) error {
	if p.ID == "" {
		return domain.NewIntegrityError(p.ID, "id is empty")
	}

	if err := validatePrice(p.ID, "base price", p.BasePrice, p.CompareAtPrice); err != nil {
		return err
	}

	seenOptions := make(map[string]struct{}, len(p.Options))
	for _, opt := range p.Options {
		if opt.Name == "" {
			return domain.NewIntegrityError(p.ID, "option name is empty")
		}
		if _, ok := seenOptions[opt.Name]; ok {
			return domain.NewIntegrityError(p.ID, "option[%s] declared twice", opt.Name)
		}
		seenOptions[opt.Name] = struct{}{}

		if len(opt.Values) == 0 {
			return domain.NewIntegrityError(p.ID, "option[%s] has no values", opt.Name)
		}

		seenValues := make(map[string]struct{}, len(opt.Values))
		for _, v := range opt.Values {
			if v == "" {
				return domain.NewIntegrityError(p.ID, "option[%s] has an empty value", opt.Name)
			}
			if _, ok := seenValues[v]; ok {
				return domain.NewIntegrityError(p.ID, "option[%s] value[%s] declared twice", opt.Name, v)
			}
			seenValues[v] = struct{}{}
		}
	}

	if len(p.Options) == 0 && len(p.Variants) > 1 {
		return domain.NewIntegrityError(p.ID, "%d variants but no options to tell them apart", len(p.Variants))
	}

	variantIDs := make(map[string]struct{}, len(p.Variants))
	combinations := make(map[string]string, len(p.Variants))

	for _, v := range p.Variants {
		if v.ID == "" {
			return domain.NewIntegrityError(p.ID, "variant id is empty")
		}
		if _, ok := variantIDs[v.ID]; ok {
			return domain.NewIntegrityError(p.ID, "variant[%s] declared twice", v.ID)
		}
		variantIDs[v.ID] = struct{}{}

		if err := validateVariantOptions(p, v); err != nil {
			return err
		}

		if err := validatePrice(p.ID, "variant["+v.ID+"] price", v.Price, v.CompareAtPrice); err != nil {
			return err
		}
		if v.Price.Currency != p.BasePrice.Currency {
			return domain.NewIntegrityError(p.ID, "variant[%s] currency %s differs from %s", v.ID, v.Price.Currency, p.BasePrice.Currency)
		}

		if v.Stock != nil && *v.Stock < 0 {
			return domain.NewIntegrityError(p.ID, "variant[%s] stock is negative", v.ID)
		}

		key := combinationKey(p, v)
		if other, ok := combinations[key]; ok {
			return domain.NewIntegrityError(p.ID, "variants[%s, %s] share option values %s", other, v.ID, key)
		}
		combinations[key] = v.ID
	}

	return nil
}

func validateVariantOptions(p domain.Product, v domain.Variant) error {
	for name, value := range v.Options {
		opt, ok := p.Option(name)
		if !ok {
			return domain.NewIntegrityError(p.ID, "variant[%s] references undeclared option[%s]", v.ID, name)
		}
		if !opt.HasValue(value) {
			return domain.NewIntegrityError(p.ID, "variant[%s] references undeclared value[%s] of option[%s]", v.ID, value, name)
		}
	}

	for _, opt := range p.Options {
		if _, ok := v.Options[opt.Name]; !ok {
			return domain.NewIntegrityError(p.ID, "variant[%s] has no value for option[%s]", v.ID, opt.Name)
		}
	}

	return nil
}

func validatePrice(productID, label string, price domain.Money, compareAt *domain.Money) error {
	if price.IsNegative() {
		return domain.NewIntegrityError(productID, "%s is negative", label)
	}
	if _, err := price.MinorUnits(); err != nil {
		return domain.NewIntegrityError(productID, "%s: %v", label, err)
	}

	if compareAt == nil {
		return nil
	}

	if compareAt.IsNegative() {
		return domain.NewIntegrityError(productID, "%s compare-at is negative", label)
	}
	if compareAt.Currency != price.Currency {
		return domain.NewIntegrityError(productID, "%s compare-at currency %s differs from %s", label, compareAt.Currency, price.Currency)
	}
	if _, err := compareAt.MinorUnits(); err != nil {
		return domain.NewIntegrityError(productID, "%s compare-at: %v", label, err)
	}

	return nil
}

// combinationKey renders a variant's option values in declared option order.
func combinationKey(p domain.Product, v domain.Variant) string {
	parts := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		parts = append(parts, opt.Name+"="+v.Options[opt.Name])
	}

	return "{" + strings.Join(parts, ", ") + "}"
}
