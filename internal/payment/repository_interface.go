package payment

import "context"

type Repository interface {
	Add(ctx context.Context, m *Method) (*Method, error)
	Remove(ctx context.Context, userID int, methodID string) error
	List(ctx context.Context, userID int, purpose Purpose) ([]Method, error)
	GetByID(ctx context.Context, userID int, methodID string) (*Method, error)
	MarkSubscriptionMethod(ctx context.Context, userID int, methodID string) error
}
