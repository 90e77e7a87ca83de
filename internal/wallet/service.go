package wallet

import (
	"context"

	"domainbill/internal/metrics"
	"domainbill/internal/money"
)

// Service is the wallet ledger exposed to the rest of the system.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetBalance returns the current balance, creating a zero-balance wallet
// with default settings if the user has none.
func (s *Service) GetBalance(ctx context.Context, userID int) (money.Money, error) {
	w, err := s.repo.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return money.Money{}, err
	}
	return w.Balance(), nil
}

func (s *Service) GetWallet(ctx context.Context, userID int) (*Wallet, error) {
	return s.repo.GetOrCreateWallet(ctx, userID)
}

// Debit withdraws amount from the user's wallet. It fails with
// ErrInsufficientFunds when amount exceeds the balance and leaves no
// partial state behind.
func (s *Service) Debit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	entry, err := s.repo.Debit(ctx, userID, amount, description, serviceType)
	if err != nil {
		return nil, err
	}
	metrics.RecordWalletTransaction(TypeDebit, serviceType, amount.Cents)
	return entry, nil
}

// Credit deposits amount into the user's wallet, creating the wallet if
// needed.
func (s *Service) Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	entry, err := s.repo.Credit(ctx, userID, amount, description, serviceType)
	if err != nil {
		return nil, err
	}
	metrics.RecordWalletTransaction(TypeCredit, serviceType, amount.Cents)
	return entry, nil
}

// GetHistory returns up to limit transactions, newest first.
func (s *Service) GetHistory(ctx context.Context, userID int, limit int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit, 0)
}

func (s *Service) UpdateSettings(ctx context.Context, userID int, settings Settings) (*Wallet, error) {
	if _, err := s.repo.GetOrCreateWallet(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.UpdateSettings(ctx, userID, settings)
}
