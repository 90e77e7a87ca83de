package money

import "github.com/shopspring/decimal"

// RateProvider resolves an exchange rate between two currencies.
type RateProvider interface {
	Rate(from, to string) (decimal.Decimal, bool)
}

// StaticRates is a fixed in-memory rate table keyed "FROM:TO".
type StaticRates map[string]decimal.Decimal

// NewStaticRates returns the built-in table. Rates are snapshots, not
// live quotes.
func NewStaticRates() StaticRates {
	return StaticRates{
		"USD:EUR": decimal.NewFromFloat(0.85),
		"EUR:USD": decimal.NewFromFloat(1.18),
		"USD:GBP": decimal.NewFromFloat(0.73),
		"GBP:USD": decimal.NewFromFloat(1.37),
		"USD:KZT": decimal.NewFromFloat(449.50),
		"KZT:USD": decimal.NewFromFloat(0.0022),
	}
}

func (r StaticRates) Rate(from, to string) (decimal.Decimal, bool) {
	rate, ok := r[from+":"+to]
	return rate, ok
}

func (r StaticRates) Set(from, to string, rate decimal.Decimal) {
	r[from+":"+to] = rate
}

// Convert exchanges m into the target currency. Same-currency
// conversion is the identity; an unknown pair is
// ErrUnsupportedCurrency.
func Convert(p RateProvider, m Money, target string) (Money, error) {
	if m.Currency == target {
		return m, nil
	}
	rate, ok := p.Rate(m.Currency, target)
	if !ok {
		return Money{}, ErrUnsupportedCurrency
	}
	return FromDecimal(m.Decimal().Mul(rate), target), nil
}
