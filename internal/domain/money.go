package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

// MoneyFromMinor builds Money from an integer count of the currency's minor units.
func MoneyFromMinor(units int64, cur currency.Unit) Money {
	return Money{
		Amount:   decimal.New(units, -minorScale(cur)),
		Currency: cur,
	}
}

// MoneyFromMinorTotal builds Money from an exact minor-unit total that may exceed int64.
func MoneyFromMinorTotal(units decimal.Decimal, cur currency.Unit) Money {
	return Money{
		Amount:   units.Shift(-minorScale(cur)),
		Currency: cur,
	}
}

// MinorUnits returns the amount as an integer count of minor units (cents for USD).
// Amounts carrying more fractional digits than the currency allows are rejected.
func (m Money) MinorUnits() (int64, error) {
	shifted := m.Amount.Shift(minorScale(m.Currency))
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s has more than %d fractional digits for %s",
			ErrInvalidPrice, m.Amount.String(), minorScale(m.Currency), m.Currency)
	}
	if shifted.Abs().GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidPrice, m.Amount.String())
	}

	return shifted.IntPart(), nil
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

func (m Money) GreaterThan(other Money) bool {
	return m.Amount.GreaterThan(other.Amount)
}

// Format renders the amount for display, e.g. "USD 40.00".
func (m Money) Format() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(minorScale(m.Currency)))
}

func (m Money) String() string {
	return m.Format()
}

func minorScale(cur currency.Unit) int32 {
	scale, _ := currency.Standard.Rounding(cur)
	return int32(scale)
}
