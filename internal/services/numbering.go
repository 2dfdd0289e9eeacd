package services

import (
	"context"
	"fmt"
)

// CounterStore allocates per-year invoice sequence numbers. Implementations
// must make the increment atomic: two concurrent calls for the same year
// must never observe the same number.
type CounterStore interface {
	NextInvoiceNumber(ctx context.Context, year int) (int, error)
}

// NumberIssuer turns the raw per-year sequence into the display form used
// on invoices, e.g. INV-2025-0042.
type NumberIssuer struct {
	Counters CounterStore
}

func NewNumberIssuer(counters CounterStore) *NumberIssuer {
	return &NumberIssuer{Counters: counters}
}

func (n *NumberIssuer) Next(ctx context.Context, year int) (string, error) {
	seq, err := n.Counters.NextInvoiceNumber(ctx, year)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number for %d: %w", year, err)
	}
	return FormatInvoiceNumber(year, seq), nil
}

// FormatInvoiceNumber pads the sequence to four digits; numbers past 9999
// simply grow wider.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}
