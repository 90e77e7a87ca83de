package recharge

import (
	"context"
	"fmt"

	"domainbill/internal/logger"
	"domainbill/internal/metrics"
	"domainbill/internal/money"
	"domainbill/internal/notification"
	"domainbill/internal/payment"
	"domainbill/internal/wallet"

	"github.com/google/uuid"
)

// WalletStore is the slice of the wallet service the controller needs.
type WalletStore interface {
	GetWallet(ctx context.Context, userID int) (*wallet.Wallet, error)
	Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*wallet.Transaction, error)
}

// Result reports a recharge attempt. Declines and timeouts come back
// as unsuccessful results, not errors.
type Result struct {
	Success       bool         `json:"success"`
	Amount        *money.Money `json:"amount,omitempty"`
	NewBalance    *money.Money `json:"new_balance,omitempty"`
	TransactionID int          `json:"transaction_id,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// Controller drives automatic wallet recharges: it decides when a
// recharge is due and runs the charge-then-credit flow. The ledger is
// only touched after the gateway confirms the charge.
type Controller struct {
	wallets WalletStore
	methods payment.Repository
	gateway payment.Gateway
	sink    notification.Sink
}

func NewController(wallets WalletStore, methods payment.Repository, gateway payment.Gateway, sink notification.Sink) *Controller {
	return &Controller{
		wallets: wallets,
		methods: methods,
		gateway: gateway,
		sink:    sink,
	}
}

// Check reports whether an auto-recharge is due: enabled and balance
// strictly below the threshold.
func (c *Controller) Check(ctx context.Context, userID int) (bool, *wallet.Wallet, error) {
	w, err := c.wallets.GetWallet(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	needed := w.AutoRechargeEnabled && w.BalanceCents < w.RechargeThresholdCents
	return needed, w, nil
}

// Trigger runs one recharge attempt for the user's configured amount.
// A failed charge leaves the ledger untouched and is not retried here.
func (c *Controller) Trigger(ctx context.Context, userID int) (*Result, error) {
	w, err := c.wallets.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !w.AutoRechargeEnabled {
		metrics.RecordAutoRecharge("disabled")
		return &Result{Success: false, Error: "auto-recharge is disabled"}, nil
	}

	method, err := c.resolveMethod(ctx, userID, w)
	if err != nil {
		metrics.RecordAutoRecharge("no_method")
		c.notifyFailure(ctx, userID, "no wallet payment method on file")
		return &Result{Success: false, Error: "no wallet payment method on file"}, nil
	}

	amount := w.RechargeAmount()
	charge, err := c.gateway.Charge(ctx, method.ID, amount, uuid.NewString())
	if err != nil {
		metrics.RecordAutoRecharge("error")
		c.notifyFailure(ctx, userID, "payment processing failed")
		return &Result{Success: false, Error: "payment processing failed"}, nil
	}

	if !charge.Succeeded() {
		metrics.RecordAutoRecharge(charge.Status)
		outcome := payment.OutcomeError(charge)
		c.notifyFailure(ctx, userID, outcome.Error())
		return &Result{Success: false, Error: outcome.Error()}, nil
	}

	entry, err := c.wallets.Credit(ctx, userID, amount,
		fmt.Sprintf("Auto recharge - %s", method.Last4), wallet.ServiceDomain)
	if err != nil {
		return nil, err
	}

	metrics.RecordAutoRecharge("success")

	newBalance := money.New(entry.BalanceAfter, entry.Currency)
	if err := c.sink.Notify(ctx, userID, notification.EventRechargeSucceeded, map[string]string{
		"amount":  amount.String(),
		"balance": newBalance.String(),
	}); err != nil {
		logger.Errorf("Failed to queue recharge notification for user %d: %v", userID, err)
	}

	return &Result{
		Success:       true,
		Amount:        &amount,
		NewBalance:    &newBalance,
		TransactionID: entry.ID,
	}, nil
}

// resolveMethod picks the wallet's pinned instrument, or the newest
// wallet-scoped one when nothing is pinned.
func (c *Controller) resolveMethod(ctx context.Context, userID int, w *wallet.Wallet) (*payment.WalletMethod, error) {
	if w.PaymentMethodID != nil {
		m, err := c.methods.GetByID(ctx, userID, *w.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		return payment.AsWalletMethod(m)
	}

	methods, err := c.methods.List(ctx, userID, payment.PurposeWallet)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, payment.ErrMethodNotFound
	}
	return payment.AsWalletMethod(&methods[0])
}

func (c *Controller) notifyFailure(ctx context.Context, userID int, reason string) {
	if err := c.sink.Notify(ctx, userID, notification.EventRechargeFailed, map[string]string{
		"reason": reason,
	}); err != nil {
		logger.Errorf("Failed to queue recharge failure notification for user %d: %v", userID, err)
	}
}
