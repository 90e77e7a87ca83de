package pricing

import (
	"context"

	"domainbill/internal/money"

	"github.com/shopspring/decimal"
)

// Comparison periods offered for multi-year registrations.
var comparisonYears = []int{1, 2, 3, 5, 10}

var hundred = decimal.NewFromInt(100)

// BalanceGetter reports a user's current wallet balance. Satisfied by
// wallet.Service.
type BalanceGetter interface {
	GetBalance(ctx context.Context, userID int) (money.Money, error)
}

// Engine turns registrar base costs into customer prices: markup on
// top of cost, bulk discounts before markup, currency conversion via
// the injected rate table.
type Engine struct {
	markupPercent decimal.Decimal
	rates         money.RateProvider
}

func NewEngine(markupPercent float64, rates money.RateProvider) *Engine {
	return &Engine{
		markupPercent: decimal.NewFromFloat(markupPercent),
		rates:         rates,
	}
}

func (e *Engine) MarkupPercent() float64 {
	f, _ := e.markupPercent.Float64()
	return f
}

// BulkDiscountPercent returns the pre-markup discount tier for a
// registration period.
func BulkDiscountPercent(years int) decimal.Decimal {
	switch {
	case years >= 10:
		return decimal.NewFromInt(15)
	case years >= 5:
		return decimal.NewFromInt(10)
	case years >= 2:
		return decimal.NewFromInt(5)
	}
	return decimal.Zero
}

// ApplyMarkup adds the configured markup to a base cost, rounding
// half-up at the minor unit. A 0% markup is the identity.
func (e *Engine) ApplyMarkup(base money.Money) money.Money {
	factor := decimal.NewFromInt(1).Add(e.markupPercent.Div(hundred))
	return money.FromDecimal(base.Decimal().Mul(factor), base.Currency)
}

// Quote is a fully broken-down price for one registration.
type Quote struct {
	BaseCost        money.Money `json:"base_cost"`
	Years           int         `json:"years"`
	Subtotal        money.Money `json:"subtotal"`
	DiscountPercent float64     `json:"discount_percent"`
	DiscountAmount  money.Money `json:"discount_amount"`
	Total           money.Money `json:"total"`
}

// CalculateDomainPrice prices a registration at the plain per-year
// rate: markup on baseCost*years with no bulk discount.
func (e *Engine) CalculateDomainPrice(baseCost money.Money, years int) Quote {
	if years < 1 {
		years = 1
	}

	subtotal := money.New(baseCost.Cents*int64(years), baseCost.Currency)
	return Quote{
		BaseCost:       baseCost,
		Years:          years,
		Subtotal:       subtotal,
		DiscountAmount: money.New(0, baseCost.Currency),
		Total:          e.ApplyMarkup(subtotal),
	}
}

// CalculateBulkPrice prices a multi-year registration: the bulk
// discount comes off the subtotal before markup is applied.
func (e *Engine) CalculateBulkPrice(baseCost money.Money, years int) Quote {
	if years < 1 {
		years = 1
	}

	subtotal := money.New(baseCost.Cents*int64(years), baseCost.Currency)
	discountPct := BulkDiscountPercent(years)
	discountAmount := money.FromDecimal(
		subtotal.Decimal().Mul(discountPct.Div(hundred)), subtotal.Currency)
	discounted := money.New(subtotal.Cents-discountAmount.Cents, subtotal.Currency)

	pctF, _ := discountPct.Float64()
	return Quote{
		BaseCost:        baseCost,
		Years:           years,
		Subtotal:        subtotal,
		DiscountPercent: pctF,
		DiscountAmount:  discountAmount,
		Total:           e.ApplyMarkup(discounted),
	}
}

// ComparisonOption is one row of a multi-year price comparison. Savings
// fields are omitted for the one-year row.
type ComparisonOption struct {
	Years             int          `json:"years"`
	Total             money.Money  `json:"total"`
	PerYear           money.Money  `json:"per_year"`
	Savings           *money.Money `json:"savings,omitempty"`
	SavingsPercentage *float64     `json:"savings_percentage,omitempty"`
}

// CalculatePriceComparison prices the standard year options and reports
// the savings of each against paying the one-year price every year.
func (e *Engine) CalculatePriceComparison(baseCost money.Money, years []int) []ComparisonOption {
	if len(years) == 0 {
		years = comparisonYears
	}

	oneYear := e.CalculateBulkPrice(baseCost, 1).Total

	options := make([]ComparisonOption, 0, len(years))
	for _, y := range years {
		quote := e.CalculateBulkPrice(baseCost, y)
		opt := ComparisonOption{
			Years:   quote.Years,
			Total:   quote.Total,
			PerYear: money.New(quote.Total.Cents/int64(quote.Years), quote.Total.Currency),
		}
		if quote.Years > 1 {
			fullPrice := oneYear.Cents * int64(quote.Years)
			savings := money.New(fullPrice-quote.Total.Cents, quote.Total.Currency)
			opt.Savings = &savings
			if fullPrice > 0 {
				pct := decimal.New(savings.Cents, 0).
					Div(decimal.New(fullPrice, 0)).
					Mul(hundred).Round(2)
				pctF, _ := pct.Float64()
				opt.SavingsPercentage = &pctF
			}
		}
		options = append(options, opt)
	}
	return options
}

// ConvertCurrency converts m into the target currency using the
// engine's rate table.
func (e *Engine) ConvertCurrency(m money.Money, target string) (money.Money, error) {
	return money.Convert(e.rates, m, target)
}

// Display is a customer-facing price breakdown, optionally annotated
// with affordability against the viewer's wallet.
type Display struct {
	Price        money.Money `json:"price"`
	BaseCost     money.Money `json:"base_cost"`
	MarkupAmount money.Money `json:"markup_amount"`

	Balance   *money.Money `json:"balance,omitempty"`
	CanAfford *bool        `json:"can_afford,omitempty"`

	// Exactly one of these is set when affordability is requested:
	// the balance left after the purchase, or the shortfall to cover.
	RemainingBalance *money.Money `json:"remaining_balance,omitempty"`
	NeedsRecharge    *money.Money `json:"needs_recharge,omitempty"`
}

// FormatPriceDisplay inverts the markup out of a customer price so the
// base cost and markup share can be shown separately. The parts always
// sum back to the price exactly.
func (e *Engine) FormatPriceDisplay(price money.Money) Display {
	factor := decimal.NewFromInt(1).Add(e.markupPercent.Div(hundred))
	baseCost := money.FromDecimal(price.Decimal().Div(factor), price.Currency)
	markupAmount := money.New(price.Cents-baseCost.Cents, price.Currency)

	return Display{
		Price:        price,
		BaseCost:     baseCost,
		MarkupAmount: markupAmount,
	}
}

// FormatPriceDisplayFor adds wallet affordability to the breakdown.
func (e *Engine) FormatPriceDisplayFor(ctx context.Context, balances BalanceGetter, userID int, price money.Money) (Display, error) {
	d := e.FormatPriceDisplay(price)

	balance, err := balances.GetBalance(ctx, userID)
	if err != nil {
		return Display{}, err
	}
	if balance.Currency != price.Currency {
		balance, err = e.ConvertCurrency(balance, price.Currency)
		if err != nil {
			return Display{}, err
		}
	}

	canAfford := balance.Cents >= price.Cents
	d.Balance = &balance
	d.CanAfford = &canAfford

	if canAfford {
		remaining := money.New(balance.Cents-price.Cents, price.Currency)
		d.RemainingBalance = &remaining
	} else {
		shortfall := money.New(price.Cents-balance.Cents, price.Currency)
		d.NeedsRecharge = &shortfall
	}
	return d, nil
}

// Revenue is the profit breakdown of one priced transaction.
type Revenue struct {
	Price         money.Money `json:"price"`
	Cost          money.Money `json:"cost"`
	Profit        money.Money `json:"profit"`
	MarginPercent float64     `json:"margin_percent"`
}

// CalculateRevenue computes profit and margin for a sale. Margin is
// profit relative to the sale price, not the cost, and is 0 for a free
// sale regardless of cost.
func CalculateRevenue(price, cost money.Money) Revenue {
	profit := money.New(price.Cents-cost.Cents, price.Currency)

	margin := 0.0
	if price.Cents != 0 {
		m := decimal.New(profit.Cents, 0).
			Div(decimal.New(price.Cents, 0)).
			Mul(hundred).Round(2)
		margin, _ = m.Float64()
	}

	return Revenue{
		Price:         price,
		Cost:          cost,
		Profit:        profit,
		MarginPercent: margin,
	}
}
