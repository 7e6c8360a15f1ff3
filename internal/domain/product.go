package domain

import "maps"

type Product struct {
	ID          string
	Slug        string
	Title       string
	Description string

	BasePrice      Money
	CompareAtPrice *Money

	Options  []Option
	Variants []Variant

	// Available is the stock flag of a product sold without variants.
	Available bool
	Featured  bool
	Images    []string
}

// Option is a selectable axis such as "Size" or "Color".
type Option struct {
	Name     string
	Values   []string
	Swatches map[string]string
}

type Variant struct {
	ID string
	// Options maps every declared option name to the value this variant carries.
	Options        map[string]string
	Price          Money
	CompareAtPrice *Money

	// Stock is the quantity on hand when tracked; nil falls back to Available.
	Stock     *int
	Available bool
	Image     string
}

func (v Variant) InStock() bool {
	if v.Stock != nil {
		return *v.Stock > 0
	}

	return v.Available
}

// HasVariants reports whether shoppers must pick option values before buying.
func (p Product) HasVariants() bool {
	return len(p.Options) > 0 || len(p.Variants) > 0
}

// ImplicitVariant represents a product sold without options as its own sole variant.
func (p Product) ImplicitVariant() Variant {
	return Variant{
		ID:             p.ID,
		Options:        map[string]string{},
		Price:          p.BasePrice,
		CompareAtPrice: p.CompareAtPrice,
		Available:      p.Available,
	}
}

func (p Product) Option(name string) (Option, bool) {
	for _, opt := range p.Options {
		if opt.Name == name {
			return opt, true
		}
	}

	return Option{}, false
}

func (o Option) HasValue(value string) bool {
	for _, v := range o.Values {
		if v == value {
			return true
		}
	}

	return false
}

// Selection is the option name to value mapping a shopper has currently chosen.
type Selection map[string]string

// With returns a copy of the selection with name set to value.
func (s Selection) With(name, value string) Selection {
	next := make(Selection, len(s)+1)
	maps.Copy(next, s)
	next[name] = value

	return next
}

// CompleteFor reports whether the selection holds exactly one value per declared option.
func (s Selection) CompleteFor(p Product) bool {
	if len(s) != len(p.Options) {
		return false
	}

	for _, opt := range p.Options {
		if _, ok := s[opt.Name]; !ok {
			return false
		}
	}

	return true
}
