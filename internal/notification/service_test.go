package notification

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"domainbill/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type staticResolver struct{}

func (staticResolver) EmailByUserID(ctx context.Context, userID int) (string, string, error) {
	return "user@example.com", "User", nil
}

func newTestService(rdb *redis.Client) *Service {
	return &Service{
		redis:    rdb,
		resolver: staticResolver{},
		from:     "noreply@domainbill.com",
		fromName: "DomainBill Team",
		smtpHost: "smtp.test.com",
		smtpPort: "587",
		smtpUser: "test@example.com",
		smtpPass: "password",
	}
}

func TestNotify(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetVal(1)

	svc := newTestService(db)

	err := svc.Notify(ctx, 1, EventRechargeSucceeded, map[string]string{
		"amount":  "25.00 USD",
		"balance": "28.00 USD",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotifyError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush(queueKey, `.*`).SetErr(assert.AnError)

	svc := newTestService(db)

	err := svc.Notify(ctx, 1, EventRechargeFailed, map[string]string{"reason": "declined"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen(queueKey).SetVal(5)

	svc := newTestService(db)

	length := svc.QueueLength(ctx)
	assert.Equal(t, int64(5), length)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderKnownEvents(t *testing.T) {
	subject, body := render(Job{
		Event:   EventRechargeSucceeded,
		Payload: map[string]string{"amount": "25.00 USD", "balance": "28.00 USD"},
	}, "Alice")
	assert.Equal(t, "Wallet Recharged", subject)
	assert.Contains(t, body, "25.00 USD")
	assert.Contains(t, body, "28.00 USD")

	subject, body = render(Job{
		Event:   EventRechargeFailed,
		Payload: map[string]string{"reason": "payment declined"},
	}, "Alice")
	assert.Equal(t, "Wallet Recharge Failed", subject)
	assert.Contains(t, body, "payment declined")

	subject, _ = render(Job{Event: "unknown"}, "Alice")
	assert.Equal(t, "DomainBill Notification", subject)
}
