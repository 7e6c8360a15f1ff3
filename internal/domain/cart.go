package domain

import (
	"math"
	"time"
)

// MaxLineQuantity is the largest quantity a single cart line may hold. It keeps
// quantities representable in every snapshot store (Postgres INTEGER included).
const MaxLineQuantity = math.MaxInt32

type Cart struct {
	SessionID string
	Lines     []CartLine
}

type LineKey struct {
	ProductID string
	VariantID string
}

type CartLine struct {
	ProductID string
	VariantID string
	// UnitPrice is the price at the time the line was first added.
	UnitPrice Money
	Quantity  int

	CreatedAt time.Time
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, VariantID: l.VariantID}
}
