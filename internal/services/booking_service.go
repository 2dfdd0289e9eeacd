package services

import (
	"context"
	"strings"

	"crm-backend/internal/models"
)

type BookingStore interface {
	GetBooking(ctx context.Context, id int) (*models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	UpdateBooking(ctx context.Context, b *models.Booking) error
	ListBookings(ctx context.Context, limit, offset int) ([]*models.Booking, int64, error)
}

type BookingService struct {
	Store    BookingStore
	Contacts ContactStore
	Recorder *Recorder
}

func NewBookingService(store BookingStore, contacts ContactStore, recorder *Recorder) *BookingService {
	return &BookingService{Store: store, Contacts: contacts, Recorder: recorder}
}

func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	if strings.TrimSpace(req.Service) == "" || req.Price.IsNegative() {
		return nil, models.ErrValidationFailed
	}
	if _, err := s.Contacts.GetContact(ctx, req.ContactID); err != nil {
		return nil, err
	}
	b := &models.Booking{
		ContactID: req.ContactID,
		Service:   req.Service,
		Price:     req.Price,
		Status:    models.BookingStatusScheduled,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Notes:     req.Notes,
	}
	if err := s.Store.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	if _, err := s.Recorder.Record(ctx, models.EntityBooking, b.ID, models.ActivityBookingCreated,
		models.CreatedPayload{Name: b.Service}); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) Get(ctx context.Context, id int) (*models.Booking, error) {
	return s.Store.GetBooking(ctx, id)
}

func (s *BookingService) List(ctx context.Context, limit, offset int) ([]*models.Booking, int64, error) {
	return s.Store.ListBookings(ctx, limit, offset)
}

// Update patches the booking. Status changes log BOOKING_STATUS_CHANGED and
// schedule changes log BOOKING_RESCHEDULED; the generic BOOKING_UPDATED is
// only emitted when no specific activity applies.
func (s *BookingService) Update(ctx context.Context, id int, req *models.UpdateBookingRequest) (*models.Booking, error) {
	b, err := s.Store.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && !models.ValidBookingStatus(*req.Status) {
		return nil, models.ErrValidationFailed
	}
	if req.Price != nil && req.Price.IsNegative() {
		return nil, models.ErrValidationFailed
	}

	oldVals := map[string]any{}
	newVals := map[string]any{}
	patchString(oldVals, newVals, "service", b.Service, req.Service)
	patchString(oldVals, newVals, "status", b.Status, req.Status)
	patchString(oldVals, newVals, "notes", b.Notes, req.Notes)
	if req.Price != nil {
		oldVals["price"] = b.Price
		newVals["price"] = *req.Price
	}
	if req.StartsAt != nil {
		oldVals["starts_at"] = b.StartsAt
		newVals["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		oldVals["ends_at"] = b.EndsAt
		newVals["ends_at"] = *req.EndsAt
	}

	changes := Diff(oldVals, newVals)
	if len(changes) == 0 {
		return b, nil
	}

	oldStatus := b.Status
	oldStart := b.StartsAt
	applyString(&b.Service, req.Service)
	applyString(&b.Status, req.Status)
	applyString(&b.Notes, req.Notes)
	if req.Price != nil {
		b.Price = *req.Price
	}
	if req.StartsAt != nil {
		b.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		b.EndsAt = *req.EndsAt
	}

	if err := s.Store.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	_, statusChanged := changes["status"]
	_, rescheduled := changes["starts_at"]
	if statusChanged {
		if _, err := s.Recorder.Record(ctx, models.EntityBooking, b.ID, models.ActivityBookingStatusChanged,
			models.StatusChangedPayload{From: oldStatus, To: b.Status}); err != nil {
			return nil, err
		}
	}
	if rescheduled {
		if _, err := s.Recorder.Record(ctx, models.EntityBooking, b.ID, models.ActivityBookingRescheduled,
			models.RescheduledPayload{From: oldStart, To: b.StartsAt}); err != nil {
			return nil, err
		}
	}
	if !statusChanged && !rescheduled {
		if _, err := s.Recorder.Record(ctx, models.EntityBooking, b.ID, models.ActivityBookingUpdated,
			models.UpdatedPayload{Changes: changes}); err != nil {
			return nil, err
		}
	}
	return b, nil
}
