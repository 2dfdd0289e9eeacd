package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind tags which entity an activity belongs to. All four kinds share
// one activities table; per-kind streams are just filtered queries.
type EntityKind string

const (
	EntityContact EntityKind = "contact"
	EntityEnquiry EntityKind = "enquiry"
	EntityBooking EntityKind = "booking"
	EntityInvoice EntityKind = "invoice"
)

// EntityKinds lists every kind, in feed-merge order.
var EntityKinds = []EntityKind{EntityContact, EntityEnquiry, EntityBooking, EntityInvoice}

// ValidEntityKind reports whether k names a known entity kind.
func ValidEntityKind(k EntityKind) bool {
	switch k {
	case EntityContact, EntityEnquiry, EntityBooking, EntityInvoice:
		return true
	}
	return false
}

// Activity types, closed per entity kind.
const (
	// contact
	ActivityContactCreated = "CONTACT_CREATED"
	ActivityContactUpdated = "CONTACT_UPDATED"

	// enquiry
	ActivityEnquiryCreated = "ENQUIRY_CREATED"
	ActivityEnquiryUpdated = "ENQUIRY_UPDATED"
	ActivityStageChanged   = "STAGE_CHANGED"

	// booking
	ActivityBookingCreated       = "BOOKING_CREATED"
	ActivityBookingUpdated       = "BOOKING_UPDATED"
	ActivityBookingStatusChanged = "BOOKING_STATUS_CHANGED"
	ActivityBookingRescheduled   = "BOOKING_RESCHEDULED"

	// invoice
	ActivityInvoiceCreated       = "INVOICE_CREATED"
	ActivityInvoiceUpdated       = "INVOICE_UPDATED"
	ActivityInvoiceSent          = "INVOICE_SENT"
	ActivityInvoiceStatusChanged = "INVOICE_STATUS_CHANGED"
	ActivityLineItemAdded        = "LINE_ITEM_ADDED"
	ActivityLineItemUpdated      = "LINE_ITEM_UPDATED"
	ActivityLineItemDeleted      = "LINE_ITEM_DELETED"
	ActivityPaymentRecorded      = "PAYMENT_RECORDED"
	ActivityPaymentDeleted       = "PAYMENT_DELETED"
)

// Activity is one immutable audit record. Rows are append-only: never
// updated, never deleted.
type Activity struct {
	ID         int            `json:"id"`
	EntityKind EntityKind     `json:"entity_kind"`
	EntityID   int            `json:"entity_id"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewActivity builds an activity from a typed payload struct. The payload
// structs below fix the key set per activity type, so call sites cannot
// misspell a key the renderers depend on.
func NewActivity(kind EntityKind, entityID int, activityType string, payload any) *Activity {
	return &Activity{
		EntityKind: kind,
		EntityID:   entityID,
		Type:       activityType,
		Payload:    payloadToMap(payload),
	}
}

func payloadToMap(payload any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	if m, ok := payload.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return map[string]any{}
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Change is one field-level diff entry.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Typed payload shapes, one per activity type that carries data.

type InvoiceCreatedPayload struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	ContactName   string          `json:"contactName,omitempty"`
	Total         decimal.Decimal `json:"total"`
	FromBooking   bool            `json:"fromBooking,omitempty"`
}

type InvoiceSentPayload struct {
	InvoiceNumber string `json:"invoiceNumber"`
}

type StatusChangedPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type PaymentRecordedPayload struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
}

type PaymentDeletedPayload struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
}

type LineItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

type LineItemChangedPayload struct {
	Description string            `json:"description"`
	Changes     map[string]Change `json:"changes"`
}

type UpdatedPayload struct {
	Changes map[string]Change `json:"changes"`
}

type RescheduledPayload struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type CreatedPayload struct {
	Name string `json:"name,omitempty"`
}
