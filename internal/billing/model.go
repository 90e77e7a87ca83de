package billing

import (
	"time"

	"domainbill/internal/money"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"

	PlanBasic = "basic"
)

// Plan is a subscription product. Periods are fixed-length, not
// calendar-aligned.
type Plan struct {
	ID         string
	PriceCents int64
	Currency   string
	Period     time.Duration
}

var plans = map[string]Plan{
	PlanBasic: {
		ID:         PlanBasic,
		PriceCents: 999,
		Currency:   "USD",
		Period:     30 * 24 * time.Hour,
	},
}

// PlanByID looks up a subscription plan.
func PlanByID(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

func (p Plan) Price() money.Money {
	return money.New(p.PriceCents, p.Currency)
}

type Subscription struct {
	ID                 int       `db:"id" json:"id"`
	UserID             int       `db:"user_id" json:"user_id"`
	PlanID             string    `db:"plan_id" json:"plan_id"`
	Status             string    `db:"status" json:"status"`
	PaymentMethodID    string    `db:"payment_method_id" json:"payment_method_id"`
	CurrentPeriodStart time.Time `db:"current_period_start" json:"current_period_start"`
	CurrentPeriodEnd   time.Time `db:"current_period_end" json:"current_period_end"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// BillingRecord is one row of subscription billing history, written
// together with the subscription it bills.
type BillingRecord struct {
	ID             int       `db:"id" json:"id"`
	SubscriptionID int       `db:"subscription_id" json:"subscription_id"`
	UserID         int       `db:"user_id" json:"user_id"`
	AmountCents    int64     `db:"amount_cents" json:"amount_cents"`
	Currency       string    `db:"currency" json:"currency"`
	Status         string    `db:"status" json:"status"`
	Reference      string    `db:"reference" json:"reference"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// SubscriptionResult reports a billing flow outcome. Failures are
// results, not errors, so callers always get a usable envelope.
type SubscriptionResult struct {
	Success        bool   `json:"success"`
	SubscriptionID int    `json:"subscription_id,omitempty"`
	TransactionID  int    `json:"transaction_id,omitempty"`
	Error          string `json:"error,omitempty"`
}
