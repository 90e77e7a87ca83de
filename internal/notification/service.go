package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"domainbill/internal/logger"
	"domainbill/internal/metrics"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"

	maxTries = 3
)

// EmailResolver maps a user id to a deliverable address. Satisfied by
// user.Service.
type EmailResolver interface {
	EmailByUserID(ctx context.Context, userID int) (email, name string, err error)
}

type Job struct {
	UserID  int               `json:"user_id"`
	Event   string            `json:"event"`
	Payload map[string]string `json:"payload"`
	Tries   int               `json:"tries"`
	Created time.Time         `json:"created"`
}

// Service queues notifications in redis and drains them to SMTP in a
// background worker.
type Service struct {
	redis    *redis.Client
	resolver EmailResolver
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(resolver EmailResolver, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		resolver: resolver,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Notify queues a notification job. Delivery happens asynchronously in
// the worker, so billing flows never wait on SMTP.
func (s *Service) Notify(ctx context.Context, userID int, event string, payload map[string]string) error {
	job := Job{
		UserID:  userID,
		Event:   event,
		Payload: payload,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue %s notification for user %d: %v", event, userID, err)
		return err
	}

	metrics.RecordNotification(event)
	logger.Infof("Notification queued: %s for user %d", event, userID)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	if err := s.deliver(ctx, job); err != nil {
		logger.Errorf("Failed to deliver %s to user %d: %v", job.Event, job.UserID, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification for user %d (attempt %d)", job.UserID, job.Tries+1)
		} else {
			logger.Errorf("Notification for user %d failed after %d attempts", job.UserID, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Notification delivered: %s to user %d", job.Event, job.UserID)
}

func (s *Service) deliver(ctx context.Context, job Job) error {
	email, name, err := s.resolver.EmailByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("resolving recipient: %w", err)
	}

	subject, body := render(job, name)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", email)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "\r\n" + body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{email}, []byte(message))
}

func render(job Job, name string) (subject, body string) {
	switch job.Event {
	case EventRechargeSucceeded:
		subject = "Wallet Recharged"
		body = fmt.Sprintf(`Hi %s,

Your wallet was recharged with %s.
New balance: %s

- DomainBill Team`, name, job.Payload["amount"], job.Payload["balance"])
	case EventRechargeFailed:
		subject = "Wallet Recharge Failed"
		body = fmt.Sprintf(`Hi %s,

We could not recharge your wallet: %s
Please check your payment method.

- DomainBill Team`, name, job.Payload["reason"])
	case EventSubscriptionCreated:
		subject = "Subscription Activated"
		body = fmt.Sprintf(`Hi %s,

Your %s subscription is now active.
Amount: %s

- DomainBill Team`, name, job.Payload["plan"], job.Payload["amount"])
	default:
		subject = "DomainBill Notification"
		body = fmt.Sprintf("Hi %s,\n\nEvent: %s\n\n- DomainBill Team", name, job.Event)
	}
	return subject, body
}

func (s *Service) saveFailed(job Job, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedKey, data)
	logger.Errorf("Notification moved to failed queue: user %d", job.UserID)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
