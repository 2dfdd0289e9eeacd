package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// YearCounterRepository allocates per-year invoice sequence numbers with a
// single atomic upsert-increment, so concurrent callers never observe the
// same number.
type YearCounterRepository struct {
	DB *pgxpool.Pool
}

func NewYearCounterRepository(db *pgxpool.Pool) *YearCounterRepository {
	return &YearCounterRepository{DB: db}
}

func (r *YearCounterRepository) NextInvoiceNumber(ctx context.Context, year int) (int, error) {
	var next int
	err := r.DB.QueryRow(ctx, `
		INSERT INTO invoice_year_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year)
		DO UPDATE SET last_number = invoice_year_counters.last_number + 1, updated_at = NOW()
		RETURNING last_number`,
		year).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to increment year counter for %d: %w", year, err)
	}
	return next, nil
}
