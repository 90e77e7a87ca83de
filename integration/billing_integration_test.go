package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"domainbill/internal/billing"
	"domainbill/internal/payment"
)

func addTestMethod(t *testing.T, repo payment.Repository, userID int, walletOK, subOK bool) *payment.Method {
	m, err := repo.Add(context.Background(), &payment.Method{
		UserID:               userID,
		Type:                 "card",
		Last4:                "4242",
		Brand:                "visa",
		ExpiryMonth:          12,
		ExpiryYear:           2030,
		IsWalletMethod:       walletOK,
		IsSubscriptionMethod: subOK,
	})
	require.NoError(t, err)
	return m
}

func TestPaymentMethodScopes_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	repo := payment.NewRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "methods@test.com", "Methods User")

	walletOnly := addTestMethod(t, repo, userID, true, false)
	subOnly := addTestMethod(t, repo, userID, false, true)
	both := addTestMethod(t, repo, userID, true, true)

	walletMethods, err := repo.List(ctx, userID, payment.PurposeWallet)
	require.NoError(t, err)
	require.Len(t, walletMethods, 2)

	subMethods, err := repo.List(ctx, userID, payment.PurposeSubscription)
	require.NoError(t, err)
	require.Len(t, subMethods, 2)

	all, err := repo.List(ctx, userID, payment.PurposeBoth)
	require.NoError(t, err)
	require.Len(t, all, 3)

	got, err := repo.GetByID(ctx, userID, walletOnly.ID)
	require.NoError(t, err)
	_, err = payment.AsSubscriptionMethod(got)
	require.ErrorIs(t, err, payment.ErrInvalidPaymentMethod)

	got, err = repo.GetByID(ctx, userID, subOnly.ID)
	require.NoError(t, err)
	_, err = payment.AsWalletMethod(got)
	require.ErrorIs(t, err, payment.ErrInvalidPaymentMethod)

	got, err = repo.GetByID(ctx, userID, both.ID)
	require.NoError(t, err)
	_, err = payment.AsWalletMethod(got)
	require.NoError(t, err)
	_, err = payment.AsSubscriptionMethod(got)
	require.NoError(t, err)
}

func TestPaymentMethodRemove_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	repo := payment.NewRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "remove@test.com", "Remove User")
	other := createTestUser(t, db, "other@test.com", "Other User")

	m := addTestMethod(t, repo, userID, true, false)

	// Another user cannot remove it.
	err := repo.Remove(ctx, other, m.ID)
	require.ErrorIs(t, err, payment.ErrMethodNotFound)

	err = repo.Remove(ctx, userID, m.ID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, userID, m.ID)
	require.ErrorIs(t, err, payment.ErrMethodNotFound)
}

func TestSubscriptionLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	repo := billing.NewRepository(db)
	ctx := context.Background()

	userID := createTestUser(t, db, "sub@test.com", "Sub User")
	method := addTestMethod(t, payment.NewRepository(db), userID, false, true)

	_, err := repo.GetActiveByUser(ctx, userID)
	require.ErrorIs(t, err, billing.ErrNoActiveSubscription)

	now := time.Now().UTC()
	created, err := repo.CreateSubscription(ctx,
		&billing.Subscription{
			UserID:             userID,
			PlanID:             billing.PlanBasic,
			Status:             billing.StatusActive,
			PaymentMethodID:    method.ID,
			CurrentPeriodStart: now,
			CurrentPeriodEnd:   now.Add(30 * 24 * time.Hour),
		},
		&billing.BillingRecord{
			UserID:      userID,
			AmountCents: 999,
			Currency:    "USD",
			Status:      "paid",
			Reference:   "test-ref",
		})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	active, err := repo.GetActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, created.ID, active.ID)
	require.Equal(t, billing.PlanBasic, active.PlanID)

	history, err := repo.GetBillingHistory(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, created.ID, history[0].SubscriptionID)
	require.Equal(t, int64(999), history[0].AmountCents)
}
