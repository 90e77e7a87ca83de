package revenue

import (
	"context"
	"sort"
	"time"

	"domainbill/internal/metrics"
	"domainbill/internal/money"
	"domainbill/internal/pricing"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Service aggregates revenue records into analytics. Aggregation walks
// the records in Go rather than in SQL so per-record currency
// conversion stays in one place.
type Service struct {
	repo  Repository
	rates money.RateProvider

	now func() time.Time
}

func NewService(repo Repository, rates money.RateProvider) *Service {
	return &Service{
		repo:  repo,
		rates: rates,
		now:   time.Now,
	}
}

// RecordRevenue writes one immutable revenue row for a completed
// transaction.
func (s *Service) RecordRevenue(ctx context.Context, transactionID, domain, registrar, category string, baseCost, finalPrice money.Money) (*Record, error) {
	rev := pricing.CalculateRevenue(finalPrice, baseCost)

	created, err := s.repo.Insert(ctx, &Record{
		TransactionID: transactionID,
		Domain:        domain,
		TLD:           TLDOf(domain),
		Registrar:     registrar,
		Category:      category,
		RevenueCents:  rev.Price.Cents,
		CostCents:     rev.Cost.Cents,
		ProfitCents:   rev.Profit.Cents,
		Currency:      finalPrice.Currency,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRevenue()
	return created, nil
}

// GetRevenueMetrics aggregates the records in [start, end] into the
// display currency. An empty window yields zero metrics, not an error.
func (s *Service) GetRevenueMetrics(ctx context.Context, start, end time.Time, currency string) (*Metrics, error) {
	records, err := s.repo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.aggregate(records, currency)
}

func (s *Service) aggregate(records []Record, currency string) (*Metrics, error) {
	if len(records) == 0 {
		return emptyMetrics(currency), nil
	}

	var totalRevenue, totalCost, totalProfit int64
	type tldBucket struct {
		revenue int64
		count   int
	}
	tlds := map[string]*tldBucket{}

	for _, record := range records {
		revenue, err := money.Convert(s.rates, record.Revenue(), currency)
		if err != nil {
			return nil, err
		}
		cost, err := money.Convert(s.rates, record.Cost(), currency)
		if err != nil {
			return nil, err
		}
		profit, err := money.Convert(s.rates, record.Profit(), currency)
		if err != nil {
			return nil, err
		}

		totalRevenue += revenue.Cents
		totalCost += cost.Cents
		totalProfit += profit.Cents

		bucket, ok := tlds[record.TLD]
		if !ok {
			bucket = &tldBucket{}
			tlds[record.TLD] = bucket
		}
		bucket.revenue += revenue.Cents
		bucket.count++
	}

	margin := 0.0
	if totalRevenue > 0 {
		margin = roundPct(totalProfit, totalRevenue)
	}

	topTLDs := make([]TLDRevenue, 0, len(tlds))
	for tld, bucket := range tlds {
		topTLDs = append(topTLDs, TLDRevenue{
			TLD:     tld,
			Revenue: money.New(bucket.revenue, currency),
			Count:   bucket.count,
		})
	}
	sort.Slice(topTLDs, func(i, j int) bool {
		if topTLDs[i].Revenue.Cents != topTLDs[j].Revenue.Cents {
			return topTLDs[i].Revenue.Cents > topTLDs[j].Revenue.Cents
		}
		return topTLDs[i].TLD < topTLDs[j].TLD
	})
	if len(topTLDs) > 10 {
		topTLDs = topTLDs[:10]
	}

	return &Metrics{
		TotalRevenue:      money.New(totalRevenue, currency),
		TotalCost:         money.New(totalCost, currency),
		TotalProfit:       money.New(totalProfit, currency),
		ProfitMargin:      margin,
		TransactionCount:  len(records),
		AverageOrderValue: money.New(totalRevenue/int64(len(records)), currency),
		TopTLDs:           topTLDs,
	}, nil
}

// GetRevenueAnalysis reports metrics for the four standard windows:
// today, trailing 7 days, month to date and year to date.
func (s *Service) GetRevenueAnalysis(ctx context.Context, currency string) (*Analysis, error) {
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := now.Add(-7 * 24 * time.Hour)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())

	daily, err := s.GetRevenueMetrics(ctx, startOfDay, now, currency)
	if err != nil {
		return nil, err
	}
	weekly, err := s.GetRevenueMetrics(ctx, startOfWeek, now, currency)
	if err != nil {
		return nil, err
	}
	monthly, err := s.GetRevenueMetrics(ctx, startOfMonth, now, currency)
	if err != nil {
		return nil, err
	}
	yearly, err := s.GetRevenueMetrics(ctx, startOfYear, now, currency)
	if err != nil {
		return nil, err
	}

	return &Analysis{Daily: *daily, Weekly: *weekly, Monthly: *monthly, Yearly: *yearly}, nil
}

// GetCostAnalysis breaks down costs by registrar and by service
// category over the window.
func (s *Service) GetCostAnalysis(ctx context.Context, start, end time.Time, currency string) (*CostAnalysis, error) {
	records, err := s.repo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type registrarBucket struct {
		cost  int64
		count int
	}
	registrars := map[string]*registrarBucket{}
	var serviceCosts, profitByService [3]int64

	for _, record := range records {
		cost, err := money.Convert(s.rates, record.Cost(), currency)
		if err != nil {
			return nil, err
		}
		profit, err := money.Convert(s.rates, record.Profit(), currency)
		if err != nil {
			return nil, err
		}

		bucket, ok := registrars[record.Registrar]
		if !ok {
			bucket = &registrarBucket{}
			registrars[record.Registrar] = bucket
		}
		bucket.cost += cost.Cents
		bucket.count++

		var idx int
		switch record.Category {
		case CategoryRegistration:
			idx = 0
		case CategoryRenewal:
			idx = 1
		case CategoryTransfer:
			idx = 2
		default:
			continue
		}
		serviceCosts[idx] += cost.Cents
		profitByService[idx] += profit.Cents
	}

	registrarCosts := make([]RegistrarCost, 0, len(registrars))
	for registrar, bucket := range registrars {
		registrarCosts = append(registrarCosts, RegistrarCost{
			Registrar:        registrar,
			TotalCost:        money.New(bucket.cost, currency),
			TransactionCount: bucket.count,
			AverageCost:      money.New(bucket.cost/int64(bucket.count), currency),
		})
	}
	sort.Slice(registrarCosts, func(i, j int) bool {
		if registrarCosts[i].TotalCost.Cents != registrarCosts[j].TotalCost.Cents {
			return registrarCosts[i].TotalCost.Cents > registrarCosts[j].TotalCost.Cents
		}
		return registrarCosts[i].Registrar < registrarCosts[j].Registrar
	})

	return &CostAnalysis{
		RegistrarCosts: registrarCosts,
		ServiceCosts: ServiceBreakdown{
			DomainRegistration: money.New(serviceCosts[0], currency),
			DomainRenewal:      money.New(serviceCosts[1], currency),
			DomainTransfer:     money.New(serviceCosts[2], currency),
		},
		ProfitByService: ServiceBreakdown{
			DomainRegistration: money.New(profitByService[0], currency),
			DomainRenewal:      money.New(profitByService[1], currency),
			DomainTransfer:     money.New(profitByService[2], currency),
		},
	}, nil
}

// GetRevenueDashboard combines the standard analysis with a trailing
// 30-day cost breakdown and growth against the preceding 30 days.
// Growth is 0 when the previous period had nothing to compare against.
func (s *Service) GetRevenueDashboard(ctx context.Context, currency string) (*Dashboard, error) {
	now := s.now()
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)
	sixtyDaysAgo := now.Add(-60 * 24 * time.Hour)

	analysis, err := s.GetRevenueAnalysis(ctx, currency)
	if err != nil {
		return nil, err
	}
	costAnalysis, err := s.GetCostAnalysis(ctx, thirtyDaysAgo, now, currency)
	if err != nil {
		return nil, err
	}
	current, err := s.GetRevenueMetrics(ctx, thirtyDaysAgo, now, currency)
	if err != nil {
		return nil, err
	}
	previous, err := s.GetRevenueMetrics(ctx, sixtyDaysAgo, thirtyDaysAgo, currency)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Analysis:     *analysis,
		CostAnalysis: *costAnalysis,
		Trends: Trends{
			RevenueGrowth:     growth(current.TotalRevenue.Cents, previous.TotalRevenue.Cents),
			ProfitGrowth:      growth(current.TotalProfit.Cents, previous.TotalProfit.Cents),
			TransactionGrowth: growth(int64(current.TransactionCount), int64(previous.TransactionCount)),
		},
	}, nil
}

func growth(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return roundPct(current-previous, previous)
}

func roundPct(numerator, denominator int64) float64 {
	pct := decimal.New(numerator, 0).
		Div(decimal.New(denominator, 0)).
		Mul(hundred).Round(2)
	f, _ := pct.Float64()
	return f
}

func emptyMetrics(currency string) *Metrics {
	return &Metrics{
		TotalRevenue:      money.New(0, currency),
		TotalCost:         money.New(0, currency),
		TotalProfit:       money.New(0, currency),
		AverageOrderValue: money.New(0, currency),
		TopTLDs:           []TLDRevenue{},
	}
}
