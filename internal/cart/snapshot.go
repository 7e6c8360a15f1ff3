package cart

import (
	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/currency"
)

// sanitize drops persisted records that could not have been produced by Store and
// merges duplicate keys into the first occurrence, keeping its unit price. A
// duplicate whose merge would exceed MaxLineQuantity is dropped instead.
func sanitize(persisted []domain.CartLine, cur currency.Unit) ([]domain.CartLine, int) {
	var (
		lines   []domain.CartLine
		dropped int
		seen    = make(map[domain.LineKey]int, len(persisted))
	)

	for _, l := range persisted {
		if validateKey(l.ProductID, l.VariantID) != nil ||
			validateQuantity(l.Quantity) != nil ||
			l.UnitPrice.Currency != cur ||
			validateAmount(l.UnitPrice) != nil {
			dropped++
			continue
		}

		if i, ok := seen[l.Key()]; ok {
			if lines[i].Quantity <= domain.MaxLineQuantity-l.Quantity {
				lines[i].Quantity += l.Quantity
			}
			dropped++
			continue
		}

		seen[l.Key()] = len(lines)
		lines = append(lines, l)
	}

	return lines, dropped
}
