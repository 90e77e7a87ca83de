package payment

import (
	"errors"
	"time"
)

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrMethodNotFound       = errors.New("payment method not found")
)

type Purpose string

const (
	PurposeWallet       Purpose = "wallet"
	PurposeSubscription Purpose = "subscription"
	PurposeBoth         Purpose = "both"
)

// Method is a stored payment instrument. The two scope flags partition
// instruments between wallet recharges and subscription billing; an
// instrument carries both only when registered with PurposeBoth.
type Method struct {
	ID                   string    `db:"id" json:"id"`
	UserID               int       `db:"user_id" json:"user_id"`
	Type                 string    `db:"type" json:"type"`
	Last4                string    `db:"last4" json:"last4"`
	Brand                string    `db:"brand" json:"brand"`
	ExpiryMonth          int       `db:"expiry_month" json:"expiry_month"`
	ExpiryYear           int       `db:"expiry_year" json:"expiry_year"`
	IsWalletMethod       bool      `db:"is_wallet_method" json:"is_wallet_method"`
	IsSubscriptionMethod bool      `db:"is_subscription_method" json:"is_subscription_method"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// WalletMethod wraps an instrument proven to be wallet-scoped, so
// wallet-charging code cannot be handed a subscription-only card.
type WalletMethod struct {
	Method
}

// SubscriptionMethod wraps an instrument proven to be eligible for
// recurring subscription billing.
type SubscriptionMethod struct {
	Method
}

// AsWalletMethod narrows m, rejecting instruments outside the wallet
// scope.
func AsWalletMethod(m *Method) (*WalletMethod, error) {
	if m == nil || !m.IsWalletMethod {
		return nil, ErrInvalidPaymentMethod
	}
	return &WalletMethod{Method: *m}, nil
}

// AsSubscriptionMethod narrows m, rejecting wallet-only instruments.
func AsSubscriptionMethod(m *Method) (*SubscriptionMethod, error) {
	if m == nil || !m.IsSubscriptionMethod {
		return nil, ErrInvalidPaymentMethod
	}
	return &SubscriptionMethod{Method: *m}, nil
}
