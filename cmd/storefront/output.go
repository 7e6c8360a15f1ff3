package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/resolver"
)

type output struct {
	SessionID string      `json:"sessionId"`
	Product   productView `json:"product"`
	Added     bool        `json:"added"`
	Cart      cartView    `json:"cart"`
}

type productView struct {
	ID              string            `json:"id"`
	Selection       map[string]string `json:"selection"`
	VariantID       string            `json:"variantId,omitempty"`
	Price           string            `json:"price"`
	CompareAtPrice  string            `json:"compareAtPrice,omitempty"`
	DiscountPercent *int              `json:"discountPercent,omitempty"`
	InStock         bool              `json:"inStock"`
	CanAddToCart    bool              `json:"canAddToCart"`
	Image           string            `json:"image,omitempty"`
	Options         []optionView      `json:"options"`
}

type optionView struct {
	Name   string      `json:"name"`
	Values []valueView `json:"values"`
}

type valueView struct {
	Value     string `json:"value"`
	Selected  bool   `json:"selected"`
	Available bool   `json:"available"`
	Swatch    string `json:"swatch,omitempty"`
}

type cartView struct {
	Lines       []lineView `json:"lines"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount string     `json:"totalAmount"`
	Badge       string     `json:"badge"`
}

type lineView struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

func mapResultToOutput(view resolver.View, store *cart.Store, added bool) output {
	totalItems := store.TotalItems()

	return output{
		SessionID: store.SessionID(),
		Product:   mapViewToOutput(view),
		Added:     added,
		Cart: cartView{
			Lines:       mapLinesToOutput(store.Lines()),
			TotalItems:  totalItems,
			TotalAmount: store.TotalAmount().Format(),
			Badge:       cart.BadgeLabel(totalItems),
		},
	}
}

func mapViewToOutput(view resolver.View) productView {
	pv := productView{
		ID:              view.ProductID,
		Selection:       view.Selection,
		Price:           view.Pricing.Current.Format(),
		DiscountPercent: view.Pricing.DiscountPercent,
		InStock:         view.InStock,
		CanAddToCart:    view.CanAddToCart,
		Image:           view.Image,
		Options:         make([]optionView, 0, len(view.Options)),
	}

	if view.Variant != nil {
		pv.VariantID = view.Variant.ID
	}
	if view.Pricing.CompareAt != nil {
		pv.CompareAtPrice = view.Pricing.CompareAt.Format()
	}

	for _, opt := range view.Options {
		ov := optionView{Name: opt.Name, Values: make([]valueView, 0, len(opt.Values))}
		for _, v := range opt.Values {
			ov.Values = append(ov.Values, valueView(v))
		}
		pv.Options = append(pv.Options, ov)
	}

	return pv
}

func mapLinesToOutput(lines []domain.CartLine) []lineView {
	result := make([]lineView, 0, len(lines))

	for _, line := range lines {
		result = append(result, lineView{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			UnitPrice: line.UnitPrice.Format(),
			Quantity:  line.Quantity,
		})
	}

	return result
}

func writeOutput(w io.Writer, out output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("enc.Encode: %w", err)
	}

	return nil
}
