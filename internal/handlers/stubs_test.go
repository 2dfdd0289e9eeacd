package handlers

import (
	"context"
	"sort"
	"time"

	"crm-backend/internal/models"
)

// Map-backed stores satisfying the service interfaces, just enough to run
// handlers end-to-end through httptest.

type stubContactStore struct {
	contacts map[int]*models.Contact
}

func (s *stubContactStore) GetContact(_ context.Context, id int) (*models.Contact, error) {
	c, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubContactStore) CreateContact(_ context.Context, c *models.Contact) error {
	c.ID = len(s.contacts) + 1
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *stubContactStore) UpdateContact(_ context.Context, c *models.Contact) error {
	if _, ok := s.contacts[c.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *stubContactStore) ListContacts(_ context.Context, _, _ int) ([]*models.Contact, int64, error) {
	var out []*models.Contact
	for _, c := range s.contacts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type stubBookingStore struct {
	bookings map[int]*models.Booking
}

func (s *stubBookingStore) GetBooking(_ context.Context, id int) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *stubBookingStore) CreateBooking(_ context.Context, b *models.Booking) error {
	b.ID = len(s.bookings) + 1
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *stubBookingStore) UpdateBooking(_ context.Context, b *models.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *stubBookingStore) ListBookings(_ context.Context, _, _ int) ([]*models.Booking, int64, error) {
	var out []*models.Booking
	for _, b := range s.bookings {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type stubCounterStore struct {
	years map[int]int
}

func (s *stubCounterStore) NextInvoiceNumber(_ context.Context, year int) (int, error) {
	s.years[year]++
	return s.years[year], nil
}

type stubActivityStore struct {
	acts   []*models.Activity
	nextID int
	clock  time.Time
}

func (s *stubActivityStore) AppendActivity(_ context.Context, a *models.Activity) error {
	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		s.clock = s.clock.Add(time.Second)
		a.CreatedAt = s.clock
	}
	s.acts = append(s.acts, a)
	return nil
}

func (s *stubActivityStore) filtered(match func(*models.Activity) bool, limit, offset int) []*models.Activity {
	var out []*models.Activity
	for _, a := range s.acts {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if offset >= len(out) {
		return nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end]
}

func (s *stubActivityStore) ListActivities(_ context.Context, kind models.EntityKind, entityID, limit, offset int) ([]*models.Activity, error) {
	return s.filtered(func(a *models.Activity) bool {
		return a.EntityKind == kind && a.EntityID == entityID
	}, limit, offset), nil
}

func (s *stubActivityStore) ListRecentActivities(_ context.Context, kind models.EntityKind, limit, offset int) ([]*models.Activity, error) {
	return s.filtered(func(a *models.Activity) bool { return a.EntityKind == kind }, limit, offset), nil
}

func (s *stubActivityStore) CountActivities(_ context.Context, kind models.EntityKind) (int64, error) {
	var n int64
	for _, a := range s.acts {
		if a.EntityKind == kind {
			n++
		}
	}
	return n, nil
}

func (s *stubActivityStore) CountEntityActivities(_ context.Context, kind models.EntityKind, entityID int) (int64, error) {
	var n int64
	for _, a := range s.acts {
		if a.EntityKind == kind && a.EntityID == entityID {
			n++
		}
	}
	return n, nil
}

type stubInvoiceStore struct {
	invoices      map[int]*models.Invoice
	payments      map[int]*models.Payment
	acts          *stubActivityStore
	nextInvoiceID int
	nextItemID    int
	nextPaymentID int
}

func newStubInvoiceStore(acts *stubActivityStore) *stubInvoiceStore {
	return &stubInvoiceStore{
		invoices: map[int]*models.Invoice{},
		payments: map[int]*models.Payment{},
		acts:     acts,
	}
}

func copyInvoice(inv *models.Invoice) *models.Invoice {
	cp := *inv
	cp.LineItems = append([]models.LineItem(nil), inv.LineItems...)
	if inv.BookingID != nil {
		b := *inv.BookingID
		cp.BookingID = &b
	}
	return &cp
}

func (s *stubInvoiceStore) GetInvoice(_ context.Context, id int) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, models.ErrNotFound
	}
	return copyInvoice(inv), nil
}

func (s *stubInvoiceStore) GetInvoiceByBooking(_ context.Context, bookingID int) (*models.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.BookingID != nil && *inv.BookingID == bookingID && inv.DeletedAt == nil {
			return copyInvoice(inv), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *stubInvoiceStore) ListInvoices(_ context.Context, _, _ int) ([]*models.Invoice, int64, error) {
	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.DeletedAt == nil {
			out = append(out, copyInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (s *stubInvoiceStore) record(invoiceID int, acts []*models.Activity) {
	for _, a := range acts {
		if a.EntityID == 0 {
			a.EntityID = invoiceID
		}
		s.acts.AppendActivity(context.Background(), a)
	}
}

func (s *stubInvoiceStore) CreateInvoice(_ context.Context, inv *models.Invoice, acts []*models.Activity) error {
	s.nextInvoiceID++
	inv.ID = s.nextInvoiceID
	inv.Version = 1
	for i := range inv.LineItems {
		s.nextItemID++
		inv.LineItems[i].ID = s.nextItemID
		inv.LineItems[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) bump(inv *models.Invoice, expectedVersion int64) error {
	stored, ok := s.invoices[inv.ID]
	if !ok {
		return models.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return models.ErrStaleVersion
	}
	inv.Version = expectedVersion + 1
	return nil
}

func (s *stubInvoiceStore) UpdateInvoice(_ context.Context, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) AddLineItem(_ context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	s.nextItemID++
	item.ID = s.nextItemID
	inv.LineItems[len(inv.LineItems)-1].ID = item.ID
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) UpdateLineItem(_ context.Context, _ *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) DeleteLineItem(_ context.Context, _ int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) CreatePayment(_ context.Context, p *models.Payment, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	s.nextPaymentID++
	p.ID = s.nextPaymentID
	cp := *p
	s.payments[p.ID] = &cp
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) DeletePayment(_ context.Context, paymentID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	if err := s.bump(inv, expectedVersion); err != nil {
		return err
	}
	delete(s.payments, paymentID)
	s.invoices[inv.ID] = copyInvoice(inv)
	s.record(inv.ID, acts)
	return nil
}

func (s *stubInvoiceStore) GetPayment(_ context.Context, invoiceID, paymentID int) (*models.Payment, error) {
	p, ok := s.payments[paymentID]
	if !ok || p.InvoiceID != invoiceID {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubInvoiceStore) GetPaymentByKey(_ context.Context, invoiceID int, key string) (*models.Payment, error) {
	for _, p := range s.payments {
		if p.InvoiceID == invoiceID && p.IdempotencyKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *stubInvoiceStore) ListPayments(_ context.Context, invoiceID int) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range s.payments {
		if p.InvoiceID == invoiceID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
