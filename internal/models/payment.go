package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted by the ledger.
const (
	PaymentMethodCash         = "CASH"
	PaymentMethodCard         = "CARD"
	PaymentMethodBankTransfer = "BANK_TRANSFER"
	PaymentMethodCheque       = "CHEQUE"
	PaymentMethodOther        = "OTHER"
)

// ValidPaymentMethod reports whether m is one of the enumerated methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer,
		PaymentMethodCheque, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a payment applied against an invoice. The invoice's
// amount_paid/amount_due/status are updated in the same transaction that
// inserts the payment row.
type Payment struct {
	ID             int             `json:"id"`
	InvoiceID      int             `json:"invoice_id"`
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	IdempotencyKey string          `json:"-"`
	PaidAt         time.Time       `json:"paid_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

type RecordPaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Method         string          `json:"method"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	PaidAt         time.Time       `json:"paid_at"`
}
