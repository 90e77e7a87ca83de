package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"domainbill/internal/money"
)

const (
	StatusSuccess  = "success"
	StatusDeclined = "declined"
	StatusTimeout  = "timeout"
)

var (
	ErrGatewayDeclined = errors.New("payment declined by gateway")
	ErrGatewayTimeout  = errors.New("payment gateway timed out")
)

// OutcomeError maps a non-success charge outcome to its sentinel.
func OutcomeError(r *ChargeResult) error {
	switch {
	case r == nil:
		return ErrGatewayDeclined
	case r.Status == StatusTimeout:
		return ErrGatewayTimeout
	case r.Status != StatusSuccess:
		return ErrGatewayDeclined
	}
	return nil
}

type ChargeResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

func (r *ChargeResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// Gateway charges external payment instruments. Implementations must be
// safe to retry with the same idempotency key.
type Gateway interface {
	Charge(ctx context.Context, methodID string, amount money.Money, idempotencyKey string) (*ChargeResult, error)
}

type HTTPGateway struct {
	baseURL string
	client  *http.Client
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	MethodID       string `json:"method_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Charge posts a charge to the upstream processor. A transport timeout
// is reported as a timeout outcome rather than an error so callers
// treat it like a decline.
func (g *HTTPGateway) Charge(ctx context.Context, methodID string, amount money.Money, idempotencyKey string) (*ChargeResult, error) {
	body, err := json.Marshal(chargeRequest{
		MethodID:       methodID,
		AmountCents:    amount.Cents,
		Currency:       amount.Currency,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := g.client.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return &ChargeResult{Status: StatusTimeout}, nil
		}
		return nil, fmt.Errorf("charging payment method: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired {
		return &ChargeResult{Status: StatusDeclined}, nil
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding gateway response: %w", err)
	}
	return &result, nil
}
