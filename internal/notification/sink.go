package notification

import "context"

const (
	EventRechargeSucceeded   = "recharge_succeeded"
	EventRechargeFailed      = "recharge_failed"
	EventSubscriptionCreated = "subscription_created"
)

// Sink receives user-facing notifications from the billing flows.
// Implementations must not block the calling flow on delivery.
type Sink interface {
	Notify(ctx context.Context, userID int, event string, payload map[string]string) error
}
