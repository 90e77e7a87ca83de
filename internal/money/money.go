package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrCurrencyMismatch    = errors.New("currency mismatch")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
)

// DefaultDisplayCurrency is used when a request does not name one.
const DefaultDisplayCurrency = "USD"

// Money is an amount in integer minor units of an ISO 4217 currency.
// All arithmetic stays in cents; fractional math goes through Decimal
// and comes back via FromDecimal's half-up rounding.
type Money struct {
	Cents    int64  `db:"cents" json:"cents"`
	Currency string `db:"currency" json:"currency"`
}

func New(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// FromDecimal converts a major-unit decimal amount to Money, rounding
// half-up at the minor unit.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{Cents: d.Shift(2).Round(0).IntPart(), Currency: currency}
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Cents: m.Cents + o.Cents, Currency: m.Currency}, nil
}

func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Cents: m.Cents - o.Cents, Currency: m.Currency}, nil
}

func (m Money) LessThan(o Money) (bool, error) {
	if m.Currency != o.Currency {
		return false, ErrCurrencyMismatch
	}
	return m.Cents < o.Cents, nil
}

func (m Money) IsZero() bool { return m.Cents == 0 }

func (m Money) IsNegative() bool { return m.Cents < 0 }

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.Currency)
}
