package revenue

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, record *Record) (*Record, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]Record, error)
}
