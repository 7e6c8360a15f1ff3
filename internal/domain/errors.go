package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrDataIntegrity    = errors.New("catalog data integrity violation")
)

// IntegrityError reports a malformed product found while loading the catalog.
type IntegrityError struct {
	ProductID string
	Reason    string
}

func NewIntegrityError(productID, format string, args ...any) *IntegrityError {
	return &IntegrityError{
		ProductID: productID,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("product[%s]: %s", e.ProductID, e.Reason)
}

func (e *IntegrityError) Unwrap() error {
	return ErrDataIntegrity
}
