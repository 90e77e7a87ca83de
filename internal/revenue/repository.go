package revenue

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const recordColumns = `id, transaction_id, domain, tld, registrar, category,
	revenue_cents, cost_cents, profit_cents, currency, recorded_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, record *Record) (*Record, error) {
	var created Record
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO domain_revenue
			(transaction_id, domain, tld, registrar, category,
			 revenue_cents, cost_cents, profit_cents, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+recordColumns,
		record.TransactionID, record.Domain, record.TLD, record.Registrar,
		record.Category, record.RevenueCents, record.CostCents,
		record.ProfitCents, record.Currency)
	if err != nil {
		return nil, fmt.Errorf("inserting revenue record: %w", err)
	}
	return &created, nil
}

func (r *repository) ListBetween(ctx context.Context, start, end time.Time) ([]Record, error) {
	records := []Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT `+recordColumns+`
		FROM domain_revenue
		WHERE recorded_at >= $1 AND recorded_at <= $2
		ORDER BY recorded_at`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("listing revenue records: %w", err)
	}
	return records, nil
}
