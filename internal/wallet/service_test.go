package wallet

import (
	"context"
	"testing"

	"domainbill/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func (m *MockRepo) Debit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	args := m.Called(ctx, userID, amount, description, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepo) Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	args := m.Called(ctx, userID, amount, description, serviceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transaction), args.Error(1)
}

func (m *MockRepo) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transaction), args.Error(1)
}

func (m *MockRepo) UpdateSettings(ctx context.Context, userID int, settings Settings) (*Wallet, error) {
	args := m.Called(ctx, userID, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Wallet), args.Error(1)
}

func TestService_GetBalance_LazyCreate(t *testing.T) {
	repo := new(MockRepo)
	repo.On("GetOrCreateWallet", mock.Anything, 1).Return(&Wallet{
		ID: 1, UserID: 1, BalanceCents: 0, Currency: "USD",
	}, nil)

	svc := NewService(repo)
	balance, err := svc.GetBalance(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, money.New(0, "USD"), balance)
	repo.AssertExpectations(t)
}

func TestService_Debit_InsufficientFundsPassthrough(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Debit", mock.Anything, 1, money.New(3000, "USD"), "purchase", ServiceDomain).
		Return(nil, ErrInsufficientFunds)

	svc := NewService(repo)
	_, err := svc.Debit(context.Background(), 1, money.New(3000, "USD"), "purchase", ServiceDomain)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestService_CreditThenHistory(t *testing.T) {
	repo := new(MockRepo)
	repo.On("Credit", mock.Anything, 1, money.New(2500, "USD"), "initial top-up", ServiceDomain).
		Return(&Transaction{ID: 1, WalletID: 1, Type: TypeCredit, AmountCents: 2500, Currency: "USD", BalanceBefore: 0, BalanceAfter: 2500}, nil)
	repo.On("GetTransactions", mock.Anything, 1, 10, 0).
		Return([]Transaction{{ID: 1, Type: TypeCredit, AmountCents: 2500, Currency: "USD", BalanceAfter: 2500}}, nil)

	svc := NewService(repo)

	entry, err := svc.Credit(context.Background(), 1, money.New(2500, "USD"), "initial top-up", ServiceDomain)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), entry.BalanceAfter)

	history, err := svc.GetHistory(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, TypeCredit, history[0].Type)
}

func TestService_UpdateSettings_EnsuresWallet(t *testing.T) {
	repo := new(MockRepo)
	settings := Settings{AutoRechargeEnabled: true, RechargeAmount: 2500, RechargeThreshold: 500}

	repo.On("GetOrCreateWallet", mock.Anything, 1).Return(&Wallet{ID: 1, UserID: 1, Currency: "USD"}, nil)
	repo.On("UpdateSettings", mock.Anything, 1, settings).Return(&Wallet{
		ID: 1, UserID: 1, Currency: "USD",
		AutoRechargeEnabled: true, RechargeAmountCents: 2500, RechargeThresholdCents: 500,
	}, nil)

	svc := NewService(repo)
	w, err := svc.UpdateSettings(context.Background(), 1, settings)

	require.NoError(t, err)
	assert.True(t, w.AutoRechargeEnabled)
	repo.AssertExpectations(t)
}
