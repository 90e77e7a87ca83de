package billing

import "context"

type Repository interface {
	GetActiveByUser(ctx context.Context, userID int) (*Subscription, error)
	CreateSubscription(ctx context.Context, sub *Subscription, record *BillingRecord) (*Subscription, error)
	GetBillingHistory(ctx context.Context, userID int, limit int) ([]BillingRecord, error)
}
