package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"domainbill/internal/money"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

const walletColumns = `id, user_id, balance_cents, currency, auto_recharge_enabled,
	recharge_amount_cents, recharge_threshold_cents, payment_method_id, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreateWallet(ctx context.Context, userID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (user_id)
		 VALUES ($1)
		 RETURNING `+walletColumns,
		userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) Debit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	return r.applyTransaction(ctx, userID, TypeDebit, amount, description, serviceType)
}

func (r *repository) Credit(ctx context.Context, userID int, amount money.Money, description, serviceType string) (*Transaction, error) {
	return r.applyTransaction(ctx, userID, TypeCredit, amount, description, serviceType)
}

// applyTransaction runs the read-balance / compute / append / persist
// sequence inside one DB transaction. The SELECT ... FOR UPDATE row lock
// serializes writers per wallet; distinct wallets proceed concurrently.
func (r *repository) applyTransaction(ctx context.Context, userID int, txType string, amount money.Money, description, serviceType string) (*Transaction, error) {
	if amount.Cents <= 0 {
		return nil, ErrNonPositiveAmount
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (user_id)
			 VALUES ($1)
			 RETURNING `+walletColumns,
			userID,
		).StructScan(&w)
		if err != nil {
			return nil, err
		}
	}

	if amount.Currency != w.Currency {
		return nil, fmt.Errorf("%w: wallet is %s, amount is %s",
			money.ErrCurrencyMismatch, w.Currency, amount.Currency)
	}

	balanceBefore := w.BalanceCents
	var balanceAfter int64
	switch txType {
	case TypeDebit:
		if amount.Cents > balanceBefore {
			return nil, ErrInsufficientFunds
		}
		balanceAfter = balanceBefore - amount.Cents
	case TypeCredit:
		balanceAfter = balanceBefore + amount.Cents
	default:
		return nil, fmt.Errorf("unknown transaction type %q", txType)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		balanceAfter, w.ID,
	)
	if err != nil {
		return nil, err
	}

	entry := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, type, amount_cents, currency, description, service_type, balance_before, balance_after)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, wallet_id, type, amount_cents, currency, description, service_type, balance_before, balance_after, created_at`,
		w.ID, txType, amount.Cents, w.Currency, description, serviceType, balanceBefore, balanceAfter,
	).StructScan(entry)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Transaction{}, nil
		}
		return nil, err
	}

	var txs []Transaction
	err = r.db.SelectContext(ctx, &txs, `
		SELECT id, wallet_id, type, amount_cents, currency, description, service_type, balance_before, balance_after, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *repository) UpdateSettings(ctx context.Context, userID int, settings Settings) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE wallets
		 SET auto_recharge_enabled = $1,
		     recharge_amount_cents = $2,
		     recharge_threshold_cents = $3,
		     payment_method_id = $4,
		     updated_at = NOW()
		 WHERE user_id = $5
		 RETURNING `+walletColumns,
		settings.AutoRechargeEnabled, settings.RechargeAmount, settings.RechargeThreshold, settings.PaymentMethodID, userID,
	).StructScan(w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	return w, nil
}
