package wallet

import (
	"time"

	"domainbill/internal/money"
)

const (
	TypeDebit  = "debit"
	TypeCredit = "credit"

	ServiceDomain = "domain"
	ServiceVPS    = "vps"
	ServiceAddon  = "addon"
)

// Default auto-recharge settings for lazily created wallets.
const (
	DefaultCurrency               = "USD"
	DefaultRechargeAmountCents    = 2500
	DefaultRechargeThresholdCents = 500
)

// Wallet is a prepaid balance account, one per user. The balance currency
// is fixed at creation.
type Wallet struct {
	ID                     int       `db:"id" json:"id"`
	UserID                 int       `db:"user_id" json:"user_id"`
	BalanceCents           int64     `db:"balance_cents" json:"balance_cents"`
	Currency               string    `db:"currency" json:"currency"`
	AutoRechargeEnabled    bool      `db:"auto_recharge_enabled" json:"auto_recharge_enabled"`
	RechargeAmountCents    int64     `db:"recharge_amount_cents" json:"recharge_amount_cents"`
	RechargeThresholdCents int64     `db:"recharge_threshold_cents" json:"recharge_threshold_cents"`
	PaymentMethodID        *string   `db:"payment_method_id" json:"payment_method_id,omitempty"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}

func (w *Wallet) Balance() money.Money {
	return money.New(w.BalanceCents, w.Currency)
}

func (w *Wallet) RechargeAmount() money.Money {
	return money.New(w.RechargeAmountCents, w.Currency)
}

func (w *Wallet) RechargeThreshold() money.Money {
	return money.New(w.RechargeThresholdCents, w.Currency)
}

// Settings is the mutable auto-recharge configuration of a wallet.
type Settings struct {
	AutoRechargeEnabled bool    `json:"auto_recharge_enabled"`
	RechargeAmount      int64   `json:"recharge_amount_cents" binding:"gte=0"`
	RechargeThreshold   int64   `json:"recharge_threshold_cents" binding:"gte=0"`
	PaymentMethodID     *string `json:"payment_method_id,omitempty"`
}

// Transaction is one append-only ledger entry. Amounts are stored
// unsigned; Type carries the sign.
type Transaction struct {
	ID            int       `db:"id" json:"id"`
	WalletID      int       `db:"wallet_id" json:"wallet_id"`
	Type          string    `db:"type" json:"type"`
	AmountCents   int64     `db:"amount_cents" json:"amount_cents"`
	Currency      string    `db:"currency" json:"currency"`
	Description   string    `db:"description" json:"description"`
	ServiceType   string    `db:"service_type" json:"service_type"`
	BalanceBefore int64     `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

func (t *Transaction) Amount() money.Money {
	return money.New(t.AmountCents, t.Currency)
}
