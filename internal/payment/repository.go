package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const methodColumns = `id, user_id, type, last4, brand, expiry_month, expiry_year,
	is_wallet_method, is_subscription_method, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Add(ctx context.Context, m *Method) (*Method, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	var created Method
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO user_payment_methods
			(id, user_id, type, last4, brand, expiry_month, expiry_year,
			 is_wallet_method, is_subscription_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+methodColumns,
		m.ID, m.UserID, m.Type, m.Last4, m.Brand, m.ExpiryMonth, m.ExpiryYear,
		m.IsWalletMethod, m.IsSubscriptionMethod)
	if err != nil {
		return nil, fmt.Errorf("adding payment method: %w", err)
	}
	return &created, nil
}

func (r *repository) Remove(ctx context.Context, userID int, methodID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_payment_methods WHERE id = $1 AND user_id = $2`,
		methodID, userID)
	if err != nil {
		return fmt.Errorf("removing payment method: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodNotFound
	}
	return nil
}

// List returns the user's instruments, optionally narrowed to one scope.
// PurposeBoth (or empty) returns everything.
func (r *repository) List(ctx context.Context, userID int, purpose Purpose) ([]Method, error) {
	query := `SELECT ` + methodColumns + ` FROM user_payment_methods WHERE user_id = $1`
	switch purpose {
	case PurposeWallet:
		query += ` AND is_wallet_method = TRUE`
	case PurposeSubscription:
		query += ` AND is_subscription_method = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	methods := []Method{}
	if err := r.db.SelectContext(ctx, &methods, query, userID); err != nil {
		return nil, fmt.Errorf("listing payment methods: %w", err)
	}
	return methods, nil
}

func (r *repository) GetByID(ctx context.Context, userID int, methodID string) (*Method, error) {
	var m Method
	err := r.db.GetContext(ctx, &m,
		`SELECT `+methodColumns+` FROM user_payment_methods WHERE id = $1 AND user_id = $2`,
		methodID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment method: %w", err)
	}
	return &m, nil
}

func (r *repository) MarkSubscriptionMethod(ctx context.Context, userID int, methodID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_payment_methods
		SET is_subscription_method = TRUE
		WHERE id = $1 AND user_id = $2`,
		methodID, userID)
	if err != nil {
		return fmt.Errorf("marking subscription method: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodNotFound
	}
	return nil
}
