package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var methodCols = []string{
	"id", "user_id", "type", "last4", "brand", "expiry_month", "expiry_year",
	"is_wallet_method", "is_subscription_method", "created_at",
}

func setupMethodMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestAdd_GeneratesID(t *testing.T) {
	repo, mock, close := setupMethodMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO user_payment_methods")).
		WillReturnRows(sqlmock.NewRows(methodCols).
			AddRow("pm-abc", 1, "card", "4242", "visa", 12, 2030, true, false, time.Now()))

	created, err := repo.Add(context.Background(), &Method{
		UserID: 1, Type: "card", Last4: "4242", Brand: "visa",
		ExpiryMonth: 12, ExpiryYear: 2030, IsWalletMethod: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pm-abc", created.ID)
	assert.True(t, created.IsWalletMethod)
	assert.False(t, created.IsSubscriptionMethod)
}

func TestList_WalletScopeFilter(t *testing.T) {
	repo, mock, close := setupMethodMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM user_payment_methods WHERE user_id = .+ AND is_wallet_method = TRUE").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(methodCols).
			AddRow("pm-1", 1, "card", "4242", "visa", 12, 2030, true, false, time.Now()))

	methods, err := repo.List(context.Background(), 1, PurposeWallet)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.True(t, methods[0].IsWalletMethod)
}

func TestList_AllWhenUnfiltered(t *testing.T) {
	repo, mock, close := setupMethodMock(t)
	defer close()

	mock.ExpectQuery("SELECT .+ FROM user_payment_methods WHERE user_id = .+ ORDER BY created_at DESC").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(methodCols).
			AddRow("pm-1", 1, "card", "4242", "visa", 12, 2030, true, false, time.Now()).
			AddRow("pm-2", 1, "card", "1111", "mastercard", 6, 2029, false, true, time.Now()))

	methods, err := repo.List(context.Background(), 1, PurposeBoth)
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}

func TestRemove_NotFound(t *testing.T) {
	repo, mock, close := setupMethodMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_payment_methods")).
		WithArgs("pm-missing", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Remove(context.Background(), 1, "pm-missing")
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestMarkSubscriptionMethod(t *testing.T) {
	repo, mock, close := setupMethodMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE user_payment_methods")).
		WithArgs("pm-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSubscriptionMethod(context.Background(), 1, "pm-1")
	require.NoError(t, err)
}
