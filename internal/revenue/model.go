package revenue

import (
	"strings"
	"time"

	"domainbill/internal/money"
)

const (
	CategoryRegistration = "registration"
	CategoryRenewal      = "renewal"
	CategoryTransfer     = "transfer"
)

// Record is one immutable revenue row, written when a priced
// transaction completes. Never updated afterwards.
type Record struct {
	ID            int       `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	Domain        string    `db:"domain" json:"domain"`
	TLD           string    `db:"tld" json:"tld"`
	Registrar     string    `db:"registrar" json:"registrar"`
	Category      string    `db:"category" json:"category"`
	RevenueCents  int64     `db:"revenue_cents" json:"revenue_cents"`
	CostCents     int64     `db:"cost_cents" json:"cost_cents"`
	ProfitCents   int64     `db:"profit_cents" json:"profit_cents"`
	Currency      string    `db:"currency" json:"currency"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

func (r *Record) Revenue() money.Money { return money.New(r.RevenueCents, r.Currency) }
func (r *Record) Cost() money.Money    { return money.New(r.CostCents, r.Currency) }
func (r *Record) Profit() money.Money  { return money.New(r.ProfitCents, r.Currency) }

// TLDOf extracts the top-level domain including the dot, "" when the
// name has none.
func TLDOf(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 {
		return ""
	}
	return domain[idx:]
}

type TLDRevenue struct {
	TLD     string      `json:"tld"`
	Revenue money.Money `json:"revenue"`
	Count   int         `json:"count"`
}

// Metrics are aggregate revenue figures over one time window, all in
// a single display currency.
type Metrics struct {
	TotalRevenue      money.Money  `json:"total_revenue"`
	TotalCost         money.Money  `json:"total_cost"`
	TotalProfit       money.Money  `json:"total_profit"`
	ProfitMargin      float64      `json:"profit_margin"`
	TransactionCount  int          `json:"transaction_count"`
	AverageOrderValue money.Money  `json:"average_order_value"`
	TopTLDs           []TLDRevenue `json:"top_tlds"`
}

type Analysis struct {
	Daily   Metrics `json:"daily"`
	Weekly  Metrics `json:"weekly"`
	Monthly Metrics `json:"monthly"`
	Yearly  Metrics `json:"yearly"`
}

type RegistrarCost struct {
	Registrar        string      `json:"registrar"`
	TotalCost        money.Money `json:"total_cost"`
	TransactionCount int         `json:"transaction_count"`
	AverageCost      money.Money `json:"average_cost"`
}

type ServiceBreakdown struct {
	DomainRegistration money.Money `json:"domain_registration"`
	DomainRenewal      money.Money `json:"domain_renewal"`
	DomainTransfer     money.Money `json:"domain_transfer"`
}

type CostAnalysis struct {
	RegistrarCosts  []RegistrarCost  `json:"registrar_costs"`
	ServiceCosts    ServiceBreakdown `json:"service_costs"`
	ProfitByService ServiceBreakdown `json:"profit_by_service"`
}

type Trends struct {
	RevenueGrowth     float64 `json:"revenue_growth"`
	ProfitGrowth      float64 `json:"profit_growth"`
	TransactionGrowth float64 `json:"transaction_growth"`
}

type Dashboard struct {
	Analysis     Analysis     `json:"analysis"`
	CostAnalysis CostAnalysis `json:"cost_analysis"`
	Trends       Trends       `json:"trends"`
}
