package catalog

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type catalogDocument struct {
	Currency string            `yaml:"currency"`
	Products []productDocument `yaml:"products"`
}

type productDocument struct {
	ID             string            `yaml:"id"`
	Slug           string            `yaml:"slug"`
	Title          string            `yaml:"title"`
	Description    string            `yaml:"description"`
	Currency       string            `yaml:"currency"`
	Price          string            `yaml:"price"`
	CompareAtPrice string            `yaml:"compare_at_price"`
	Available      bool              `yaml:"available"`
	Featured       bool              `yaml:"featured"`
	Images         []string          `yaml:"images"`
	Options        []optionDocument  `yaml:"options"`
	Variants       []variantDocument `yaml:"variants"`
}

type optionDocument struct {
	Name     string            `yaml:"name"`
	Values   []string          `yaml:"values"`
	Swatches map[string]string `yaml:"swatches"`
}

type variantDocument struct {
	ID             string            `yaml:"id"`
	Options        map[string]string `yaml:"options"`
	Price          string            `yaml:"price"`
	CompareAtPrice string            `yaml:"compare_at_price"`
	Stock          *int              `yaml:"stock"`
	Available      bool              `yaml:"available"`
	Image          string            `yaml:"image"`
}

// mapDocumentToDomain maps each product on its own; a product that cannot be
// mapped is returned as an integrity error and the rest are kept.
func mapDocumentToDomain(doc catalogDocument) ([]domain.Product, []error) {
	var (
		products []domain.Product
		rejected []error
	)

	for _, pd := range doc.Products {
		code := pd.Currency
		if code == "" {
			code = doc.Currency
		}

		p, err := mapProductToDomain(pd, code)
		if err != nil {
			rejected = append(rejected, domain.NewIntegrityError(pd.ID, "mapProductToDomain: %v", err))
			continue
		}

		products = append(products, p)
	}

	return products, rejected
}

func mapProductToDomain(pd productDocument, code string) (domain.Product, error) {
	cur, err := currency.ParseISO(code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	basePrice, err := parseMoney(pd.Price, cur)
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}

	compareAt, err := parseOptionalMoney(pd.CompareAtPrice, cur)
	if err != nil {
		return domain.Product{}, fmt.Errorf("compare_at_price: %w", err)
	}

	p := domain.Product{
		ID:             pd.ID,
		Slug:           pd.Slug,
		Title:          pd.Title,
		Description:    pd.Description,
		BasePrice:      basePrice,
		CompareAtPrice: compareAt,
		Available:      pd.Available,
		Featured:       pd.Featured,
		Images:         pd.Images,
	}

	for _, od := range pd.Options {
		p.Options = append(p.Options, domain.Option{
			Name:     od.Name,
			Values:   od.Values,
			Swatches: od.Swatches,
		})
	}

	for _, vd := range pd.Variants {
		v, err := mapVariantToDomain(vd, basePrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("variant[%s]: %w", vd.ID, err)
		}

		p.Variants = append(p.Variants, v)
	}

	return p, nil
}

// mapVariantToDomain falls back to the product price when the variant declares none.
func mapVariantToDomain(vd variantDocument, basePrice domain.Money) (domain.Variant, error) {
	price := basePrice
	if vd.Price != "" {
		parsed, err := parseMoney(vd.Price, basePrice.Currency)
		if err != nil {
			return domain.Variant{}, fmt.Errorf("price: %w", err)
		}
		price = parsed
	}

	compareAt, err := parseOptionalMoney(vd.CompareAtPrice, basePrice.Currency)
	if err != nil {
		return domain.Variant{}, fmt.Errorf("compare_at_price: %w", err)
	}

	options := vd.Options
	if options == nil {
		options = map[string]string{}
	}

	return domain.Variant{
		ID:             vd.ID,
		Options:        options,
		Price:          price,
		CompareAtPrice: compareAt,
		Stock:          vd.Stock,
		Available:      vd.Available,
		Image:          vd.Image,
	}, nil
}

func parseMoney(s string, cur currency.Unit) (domain.Money, error) {
	if s == "" {
		return domain.Money{}, fmt.Errorf("amount is missing")
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString[%s]: %w", s, err)
	}

	return domain.NewMoney(amount, cur), nil
}

func parseOptionalMoney(s string, cur currency.Unit) (*domain.Money, error) {
	if s == "" {
		return nil, nil
	}

	m, err := parseMoney(s, cur)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
