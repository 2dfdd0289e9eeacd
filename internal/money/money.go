// Package money holds the fixed-precision currency arithmetic for the
// invoice ledger. Every derived value is rounded to whole cents
// independently, so recomputing from the same inputs always yields the
// same result.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the full derived money state of an invoice.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
	AmountDue decimal.Decimal
}

// RoundCents rounds to the nearest whole cent, ties away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal computes quantity × unitPrice rounded to cents.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return RoundCents(quantity.Mul(unitPrice))
}

// Compute derives subtotal, tax, total and amount due from the line totals,
// the tax rate (percent) and the amount already paid. Each value is rounded
// on its own, not cumulatively.
func Compute(lineTotals []decimal.Decimal, taxRatePercent, amountPaid decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = RoundCents(subtotal)

	taxAmount := RoundCents(subtotal.Mul(taxRatePercent).Div(hundred))
	total := RoundCents(subtotal.Add(taxAmount))
	amountDue := RoundCents(total.Sub(amountPaid))

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     total,
		AmountDue: amountDue,
	}
}
