package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"domainbill/internal/logger"
	"domainbill/internal/metrics"
	"domainbill/internal/money"
	"domainbill/internal/notification"
	"domainbill/internal/payment"
	"domainbill/internal/wallet"

	"github.com/google/uuid"
)

const (
	msgInvalidSubscriptionMethod = "Invalid payment method for subscription billing"
	msgInvalidWalletMethod       = "Invalid payment method for wallet recharge"
)

// WalletCreditor is the slice of the wallet service billing needs.
type WalletCreditor interface {
	Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*wallet.Transaction, error)
}

// Service keeps subscription billing and wallet funding strictly
// separated: subscription flows only accept subscription-scoped
// instruments and never touch the wallet ledger, and vice versa.
type Service struct {
	repo    Repository
	methods payment.Repository
	gateway payment.Gateway
	wallets WalletCreditor
	sink    notification.Sink

	now func() time.Time
}

func NewService(repo Repository, methods payment.Repository, gateway payment.Gateway, wallets WalletCreditor, sink notification.Sink) *Service {
	return &Service{
		repo:    repo,
		methods: methods,
		gateway: gateway,
		wallets: wallets,
		sink:    sink,
		now:     time.Now,
	}
}

// ProcessSubscription activates the basic plan for the user. Calling
// it with an active subscription already in place is a no-op that
// returns the existing subscription. The method id is optional; when
// given it must be subscription-scoped and gets its subscription flag
// set once the subscription is created.
func (s *Service) ProcessSubscription(ctx context.Context, userID int, methodID string) (*SubscriptionResult, error) {
	existing, err := s.repo.GetActiveByUser(ctx, userID)
	if err == nil {
		return &SubscriptionResult{Success: true, SubscriptionID: existing.ID}, nil
	}
	if !errors.Is(err, ErrNoActiveSubscription) {
		return nil, err
	}

	if methodID != "" {
		method, err := s.methods.GetByID(ctx, userID, methodID)
		if err != nil {
			return &SubscriptionResult{Success: false, Error: msgInvalidSubscriptionMethod}, nil
		}
		if _, err := payment.AsSubscriptionMethod(method); err != nil {
			return &SubscriptionResult{Success: false, Error: msgInvalidSubscriptionMethod}, nil
		}
	}

	plan, ok := PlanByID(PlanBasic)
	if !ok {
		return nil, fmt.Errorf("unknown plan %q", PlanBasic)
	}

	start := s.now()
	created, err := s.repo.CreateSubscription(ctx,
		&Subscription{
			UserID:             userID,
			PlanID:             plan.ID,
			Status:             StatusActive,
			PaymentMethodID:    methodID,
			CurrentPeriodStart: start,
			CurrentPeriodEnd:   start.Add(plan.Period),
		},
		&BillingRecord{
			UserID:      userID,
			AmountCents: plan.PriceCents,
			Currency:    plan.Currency,
			Status:      "paid",
			Reference:   uuid.NewString(),
		})
	if err != nil {
		return nil, err
	}

	metrics.RecordSubscription(plan.ID)

	if methodID != "" {
		if err := s.methods.MarkSubscriptionMethod(ctx, userID, methodID); err != nil {
			logger.Errorf("Failed to flag subscription method %s for user %d: %v", methodID, userID, err)
		}
	}

	if err := s.sink.Notify(ctx, userID, notification.EventSubscriptionCreated, map[string]string{
		"plan":   plan.ID,
		"amount": plan.Price().String(),
	}); err != nil {
		logger.Errorf("Failed to queue subscription notification for user %d: %v", userID, err)
	}

	return &SubscriptionResult{Success: true, SubscriptionID: created.ID}, nil
}

// ManualRecharge charges a wallet-scoped instrument and credits the
// ledger. The credit only happens after the gateway confirms the
// charge.
func (s *Service) ManualRecharge(ctx context.Context, userID int, amount money.Money, methodID string) (*SubscriptionResult, error) {
	method, err := s.methods.GetByID(ctx, userID, methodID)
	if err != nil {
		return &SubscriptionResult{Success: false, Error: msgInvalidWalletMethod}, nil
	}
	walletMethod, err := payment.AsWalletMethod(method)
	if err != nil {
		return &SubscriptionResult{Success: false, Error: msgInvalidWalletMethod}, nil
	}

	charge, err := s.gateway.Charge(ctx, walletMethod.ID, amount, uuid.NewString())
	if err != nil {
		return &SubscriptionResult{Success: false, Error: "payment processing failed"}, nil
	}
	if !charge.Succeeded() {
		return &SubscriptionResult{Success: false, Error: payment.OutcomeError(charge).Error()}, nil
	}

	entry, err := s.wallets.Credit(ctx, userID, amount,
		fmt.Sprintf("Manual recharge - %s", walletMethod.Last4), wallet.ServiceDomain)
	if err != nil {
		return nil, err
	}

	return &SubscriptionResult{Success: true, TransactionID: entry.ID}, nil
}

func (s *Service) GetActiveSubscription(ctx context.Context, userID int) (*Subscription, error) {
	return s.repo.GetActiveByUser(ctx, userID)
}

func (s *Service) GetBillingHistory(ctx context.Context, userID int, limit int) ([]BillingRecord, error) {
	return s.repo.GetBillingHistory(ctx, userID, limit)
}

// AddPaymentMethod registers an instrument under the requested scope.
func (s *Service) AddPaymentMethod(ctx context.Context, userID int, m *payment.Method, purpose payment.Purpose) (*payment.Method, error) {
	switch purpose {
	case payment.PurposeWallet:
		m.IsWalletMethod = true
	case payment.PurposeSubscription:
		m.IsSubscriptionMethod = true
	case payment.PurposeBoth:
		m.IsWalletMethod = true
		m.IsSubscriptionMethod = true
	default:
		return nil, payment.ErrInvalidPaymentMethod
	}

	m.UserID = userID
	return s.methods.Add(ctx, m)
}

func (s *Service) ListPaymentMethods(ctx context.Context, userID int, purpose payment.Purpose) ([]payment.Method, error) {
	return s.methods.List(ctx, userID, purpose)
}

func (s *Service) RemovePaymentMethod(ctx context.Context, userID int, methodID string) error {
	return s.methods.Remove(ctx, userID, methodID)
}
