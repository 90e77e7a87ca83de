package recharge

import (
	"context"
	"os"
	"testing"

	"domainbill/internal/logger"
	"domainbill/internal/money"
	"domainbill/internal/notification"
	"domainbill/internal/payment"
	"domainbill/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockWalletStore struct{ mock.Mock }

func (m *MockWalletStore) GetWallet(ctx context.Context, userID int) (*wallet.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Wallet), args.Error(1)
}

func (m *MockWalletStore) Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*wallet.Transaction, error) {
	args := m.Called(ctx, userID, amount, description, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.Transaction), args.Error(1)
}

type MockMethods struct{ mock.Mock }

func (m *MockMethods) Add(ctx context.Context, method *payment.Method) (*payment.Method, error) {
	args := m.Called(ctx, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Method), args.Error(1)
}

func (m *MockMethods) Remove(ctx context.Context, userID int, methodID string) error {
	return m.Called(ctx, userID, methodID).Error(0)
}

func (m *MockMethods) List(ctx context.Context, userID int, purpose payment.Purpose) ([]payment.Method, error) {
	args := m.Called(ctx, userID, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payment.Method), args.Error(1)
}

func (m *MockMethods) GetByID(ctx context.Context, userID int, methodID string) (*payment.Method, error) {
	args := m.Called(ctx, userID, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Method), args.Error(1)
}

func (m *MockMethods) MarkSubscriptionMethod(ctx context.Context, userID int, methodID string) error {
	return m.Called(ctx, userID, methodID).Error(0)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) Charge(ctx context.Context, methodID string, amount money.Money, idempotencyKey string) (*payment.ChargeResult, error) {
	args := m.Called(ctx, methodID, amount, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeResult), args.Error(1)
}

type MockSink struct{ mock.Mock }

func (m *MockSink) Notify(ctx context.Context, userID int, event string, payload map[string]string) error {
	return m.Called(ctx, userID, event, payload).Error(0)
}

func lowWallet() *wallet.Wallet {
	return &wallet.Wallet{
		ID: 1, UserID: 1, BalanceCents: 300, Currency: "USD",
		AutoRechargeEnabled:    true,
		RechargeAmountCents:    2500,
		RechargeThresholdCents: 500,
	}
}

func TestCheck_BelowThreshold(t *testing.T) {
	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(lowWallet(), nil)

	ctrl := NewController(wallets, new(MockMethods), new(MockGateway), new(MockSink))

	needed, w, err := ctrl.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, needed)
	assert.Equal(t, int64(300), w.BalanceCents)
}

func TestCheck_AtThresholdNotNeeded(t *testing.T) {
	w := lowWallet()
	w.BalanceCents = 500

	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(w, nil)

	ctrl := NewController(wallets, new(MockMethods), new(MockGateway), new(MockSink))

	needed, _, err := ctrl.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, needed)
}

func TestCheck_DisabledNotNeeded(t *testing.T) {
	w := lowWallet()
	w.AutoRechargeEnabled = false

	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(w, nil)

	ctrl := NewController(wallets, new(MockMethods), new(MockGateway), new(MockSink))

	needed, _, err := ctrl.Check(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, needed)
}

func TestTrigger_Success(t *testing.T) {
	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(lowWallet(), nil)
	wallets.On("Credit", mock.Anything, 1, money.New(2500, "USD"), "Auto recharge - 4242", wallet.ServiceDomain).
		Return(&wallet.Transaction{
			ID: 42, WalletID: 1, Type: wallet.TypeCredit,
			AmountCents: 2500, Currency: "USD",
			BalanceBefore: 300, BalanceAfter: 2800,
		}, nil)

	methods := new(MockMethods)
	methods.On("List", mock.Anything, 1, payment.PurposeWallet).Return([]payment.Method{
		{ID: "pm-1", UserID: 1, Last4: "4242", IsWalletMethod: true},
	}, nil)

	gateway := new(MockGateway)
	gateway.On("Charge", mock.Anything, "pm-1", money.New(2500, "USD"), mock.AnythingOfType("string")).
		Return(&payment.ChargeResult{Status: payment.StatusSuccess, Reference: "ch_1"}, nil)

	sink := new(MockSink)
	sink.On("Notify", mock.Anything, 1, notification.EventRechargeSucceeded, map[string]string{
		"amount":  "25.00 USD",
		"balance": "28.00 USD",
	}).Return(nil)

	ctrl := NewController(wallets, methods, gateway, sink)

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 42, result.TransactionID)
	require.NotNil(t, result.NewBalance)
	assert.Equal(t, int64(2800), result.NewBalance.Cents)

	wallets.AssertExpectations(t)
	gateway.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestTrigger_DeclineLeavesLedgerUntouched(t *testing.T) {
	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(lowWallet(), nil)

	methods := new(MockMethods)
	methods.On("List", mock.Anything, 1, payment.PurposeWallet).Return([]payment.Method{
		{ID: "pm-1", UserID: 1, Last4: "4242", IsWalletMethod: true},
	}, nil)

	gateway := new(MockGateway)
	gateway.On("Charge", mock.Anything, "pm-1", money.New(2500, "USD"), mock.AnythingOfType("string")).
		Return(&payment.ChargeResult{Status: payment.StatusDeclined}, nil)

	sink := new(MockSink)
	sink.On("Notify", mock.Anything, 1, notification.EventRechargeFailed, mock.Anything).Return(nil)

	ctrl := NewController(wallets, methods, gateway, sink)

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, payment.ErrGatewayDeclined.Error(), result.Error)

	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sink.AssertExpectations(t)
}

func TestTrigger_TimeoutTreatedAsFailure(t *testing.T) {
	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(lowWallet(), nil)

	methods := new(MockMethods)
	methods.On("List", mock.Anything, 1, payment.PurposeWallet).Return([]payment.Method{
		{ID: "pm-1", UserID: 1, Last4: "4242", IsWalletMethod: true},
	}, nil)

	gateway := new(MockGateway)
	gateway.On("Charge", mock.Anything, "pm-1", money.New(2500, "USD"), mock.AnythingOfType("string")).
		Return(&payment.ChargeResult{Status: payment.StatusTimeout}, nil)

	sink := new(MockSink)
	sink.On("Notify", mock.Anything, 1, notification.EventRechargeFailed, mock.Anything).Return(nil)

	ctrl := NewController(wallets, methods, gateway, sink)

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, payment.ErrGatewayTimeout.Error(), result.Error)

	wallets.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrigger_DisabledFailsFast(t *testing.T) {
	w := lowWallet()
	w.AutoRechargeEnabled = false

	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(w, nil)

	methods := new(MockMethods)
	gateway := new(MockGateway)

	ctrl := NewController(wallets, methods, gateway, new(MockSink))

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "auto-recharge is disabled", result.Error)

	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTrigger_NoWalletMethod(t *testing.T) {
	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(lowWallet(), nil)

	methods := new(MockMethods)
	methods.On("List", mock.Anything, 1, payment.PurposeWallet).Return([]payment.Method{}, nil)

	sink := new(MockSink)
	sink.On("Notify", mock.Anything, 1, notification.EventRechargeFailed, map[string]string{
		"reason": "no wallet payment method on file",
	}).Return(nil)

	gateway := new(MockGateway)

	ctrl := NewController(wallets, methods, gateway, sink)

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)

	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	sink.AssertExpectations(t)
}

func TestTrigger_PinnedSubscriptionOnlyMethodRejected(t *testing.T) {
	w := lowWallet()
	pinned := "pm-sub"
	w.PaymentMethodID = &pinned

	wallets := new(MockWalletStore)
	wallets.On("GetWallet", mock.Anything, 1).Return(w, nil)

	methods := new(MockMethods)
	methods.On("GetByID", mock.Anything, 1, "pm-sub").Return(&payment.Method{
		ID: "pm-sub", UserID: 1, IsSubscriptionMethod: true,
	}, nil)

	sink := new(MockSink)
	sink.On("Notify", mock.Anything, 1, notification.EventRechargeFailed, mock.Anything).Return(nil)

	ctrl := NewController(wallets, methods, new(MockGateway), sink)

	result, err := ctrl.Trigger(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Success)
}
