package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses.
const (
	BookingStatusScheduled = "SCHEDULED"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// ValidBookingStatus reports whether s is one of the booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusScheduled, BookingStatusConfirmed,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a scheduled service for a contact. Service and Price seed the
// single line item when an invoice is created from the booking.
type Booking struct {
	ID        int             `json:"id"`
	ContactID int             `json:"contact_id"`
	Service   string          `json:"service"`
	Price     decimal.Decimal `json:"price"`
	Status    string          `json:"status"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty"`
}

type CreateBookingRequest struct {
	ContactID int             `json:"contact_id"`
	Service   string          `json:"service"`
	Price     decimal.Decimal `json:"price"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
	Notes     string          `json:"notes,omitempty"`
}

type UpdateBookingRequest struct {
	Service  *string          `json:"service,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Status   *string          `json:"status,omitempty"`
	StartsAt *time.Time       `json:"starts_at,omitempty"`
	EndsAt   *time.Time       `json:"ends_at,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
}
