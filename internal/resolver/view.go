package resolver

import (
	"maps"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
)

// View is everything a product card needs to render the current selection.
type View struct {
	ProductID    string
	Selection    domain.Selection
	Variant      *domain.Variant
	Pricing      Pricing
	InStock      bool
	CanAddToCart bool
	Image        string
	Options      []OptionView
}

type OptionView struct {
	Name   string
	Values []ValueView
}

type ValueView struct {
	Value     string
	Selected  bool
	Available bool
	// Swatch is the colour to paint the value with, empty when none applies.
	Swatch string
}

// Resolve recomputes the full view after a selection change.
func Resolve(p domain.Product, sel domain.Selection, quantity int) View {
	view := View{
		ProductID: p.ID,
		Selection: maps.Clone(sel),
	}

	if v, ok := MatchVariant(p, sel); ok {
		view.Variant = &v
	}

	view.Pricing = Price(p, view.Variant)
	view.InStock = InStock(p, view.Variant)
	view.CanAddToCart = CanAddToCart(p, view.Variant, quantity)
	view.Image = DisplayImage(p, view.Variant)

	for _, opt := range p.Options {
		ov := OptionView{Name: opt.Name}
		for _, value := range opt.Values {
			swatch, _ := Swatch(opt, value)
			ov.Values = append(ov.Values, ValueView{
				Value:     value,
				Selected:  sel[opt.Name] == value,
				Available: IsOptionValueAvailable(p, sel, opt.Name, value),
				Swatch:    swatch,
			})
		}
		view.Options = append(view.Options, ov)
	}

	return view
}

// Swatch returns the swatch colour of a value. Only an option named "color"
// (any case) is rendered with swatches.
func Swatch(opt domain.Option, value string) (string, bool) {
	if !strings.EqualFold(opt.Name, "color") {
		return "", false
	}

	swatch, ok := opt.Swatches[value]
	if !ok || swatch == "" {
		return "", false
	}

	return swatch, true
}

// DisplayImage prefers the variant image and falls back to the first product image.
func DisplayImage(p domain.Product, v *domain.Variant) string {
	if v != nil && v.Image != "" {
		return v.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}

	return ""
}
