// Package catalog turns supplied catalog documents into validated products.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, validated set of products.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
}

// New validates products and keeps the ones that pass. The returned error joins
// the integrity errors of every rejected product; the catalog is usable either way.
func New(products []domain.Product, logger *zap.Logger) (*Catalog, error) {
	return build(products, nil, logger)
}

// Load decodes a YAML catalog document and validates its products. Only a
// document that cannot be decoded at all yields a nil catalog.
func Load(r io.Reader, logger *zap.Logger) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml.Decode: %w", err)
	}

	products, rejected := mapDocumentToDomain(doc)

	return build(products, rejected, logger)
}

// build indexes the valid products; rejected carries products already refused
// while mapping the document.
func build(products []domain.Product, rejected []error, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Catalog{
		byID:   make(map[string]int, len(products)),
		bySlug: make(map[string]int, len(products)),
	}

	errs := rejected
	for _, err := range rejected {
		logger.Error("product rejected", zap.Error(err))
	}

	for _, p := range products {
		if err := Validate(p); err != nil {
			logger.Error("product rejected", zap.String("product_id", p.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		if _, ok := c.byID[p.ID]; ok {
			err := domain.NewIntegrityError(p.ID, "product declared twice")
			logger.Error("product rejected", zap.String("product_id", p.ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		c.byID[p.ID] = len(c.products)
		if p.Slug != "" {
			c.bySlug[p.Slug] = len(c.products)
		}
		c.products = append(c.products, p)
	}

	logger.Info("catalog loaded",
		zap.Int("products", len(c.products)),
		zap.Int("rejected", len(errs)))

	return c, errors.Join(errs...)
}

func LoadFile(path string, logger *zap.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	return Load(f, logger)
}

func (c *Catalog) Product(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}

	return c.products[i], true
}

func (c *Catalog) BySlug(slug string) (domain.Product, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return domain.Product{}, false
	}

	return c.products[i], true
}

// Products returns the products in catalog order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)

	return out
}
