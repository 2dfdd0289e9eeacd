package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice lifecycle statuses
const (
	InvoiceStatusDraft         = "DRAFT"
	InvoiceStatusSent          = "SENT"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusPaid          = "PAID"
	InvoiceStatusOverdue       = "OVERDUE"
	InvoiceStatusCancelled     = "CANCELLED"
)

// Invoice is the ledger aggregate. Subtotal, TaxAmount, Total and AmountDue
// are always recomputed from the line items and payments, never set directly.
// Version is bumped on every write and checked by the repository so two
// concurrent updates cannot overwrite each other.
type Invoice struct {
	ID            int             `json:"id"`
	ContactID     int             `json:"contact_id"`
	BookingID     *int            `json:"booking_id,omitempty"`
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	TaxRate       decimal.Decimal `json:"tax_rate_percent"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Status        string          `json:"status"`
	Version       int64           `json:"-"`
	LineItems     []LineItem      `json:"line_items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"deleted_at,omitempty"`
}

// LineItem belongs to exactly one invoice and is only mutable while the
// invoice is DRAFT. Total is derived, never settable.
type LineItem struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	SortOrder   int             `json:"sort_order"`
}

// CreateInvoiceRequest creates an invoice from scratch.
type CreateInvoiceRequest struct {
	ContactID int                     `json:"contact_id"`
	BookingID *int                    `json:"booking_id,omitempty"`
	LineItems []CreateLineItemRequest `json:"line_items"`
	TaxRate   decimal.Decimal         `json:"tax_rate_percent"`
	IssueDate time.Time               `json:"issue_date"`
	DueDate   time.Time               `json:"due_date"`
}

// CreateFromBookingRequest derives a single-line invoice from a booking.
type CreateFromBookingRequest struct {
	BookingID int              `json:"booking_id"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate_percent,omitempty"`
}

type CreateLineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type UpdateLineItemRequest struct {
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// UpdateDraftRequest patches header fields on a DRAFT invoice. Nil fields
// are left untouched and never show up in the activity diff.
type UpdateDraftRequest struct {
	IssueDate *time.Time       `json:"issue_date,omitempty"`
	DueDate   *time.Time       `json:"due_date,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate_percent,omitempty"`
}
