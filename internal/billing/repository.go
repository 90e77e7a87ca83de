package billing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var ErrNoActiveSubscription = errors.New("no active subscription")

const subscriptionColumns = `id, user_id, plan_id, status, payment_method_id,
	current_period_start, current_period_end, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActiveByUser(ctx context.Context, userID int) (*Subscription, error) {
	var sub Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT `+subscriptionColumns+`
		FROM user_subscriptions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, StatusActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("getting active subscription: %w", err)
	}
	return &sub, nil
}

// CreateSubscription inserts the subscription and its first billing
// history row in one transaction so neither exists without the other.
func (r *repository) CreateSubscription(ctx context.Context, sub *Subscription, record *BillingRecord) (*Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var created Subscription
	err = tx.GetContext(ctx, &created, `
		INSERT INTO user_subscriptions
			(user_id, plan_id, status, payment_method_id,
			 current_period_start, current_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+subscriptionColumns,
		sub.UserID, sub.PlanID, sub.Status, sub.PaymentMethodID,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("creating subscription: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO subscription_billing_history
			(subscription_id, user_id, amount_cents, currency, status, reference)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		created.ID, record.UserID, record.AmountCents, record.Currency,
		record.Status, record.Reference)
	if err != nil {
		return nil, fmt.Errorf("recording billing history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing subscription: %w", err)
	}
	return &created, nil
}

func (r *repository) GetBillingHistory(ctx context.Context, userID int, limit int) ([]BillingRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	records := []BillingRecord{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, subscription_id, user_id, amount_cents, currency, status, reference, created_at
		FROM subscription_billing_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing billing history: %w", err)
	}
	return records, nil
}
