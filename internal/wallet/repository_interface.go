package wallet

import (
	"context"

	"domainbill/internal/money"
)

type Repository interface {
	GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error)
	Debit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error)
	Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
	UpdateSettings(ctx context.Context, userID int, settings Settings) (*Wallet, error)
}
