package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"crm-backend/internal/models"
)

// In-memory stores backing the service tests. They mirror the repository
// contracts, including version checking and newest-first ordering.

type fakeActivityStore struct {
	mu     sync.Mutex
	acts   []*models.Activity
	nextID int
	clock  time.Time
}

func newFakeActivityStore() *fakeActivityStore {
	return &fakeActivityStore{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeActivityStore) AppendActivity(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(a)
	return nil
}

// append assigns an ID and, unless the caller staged one, a strictly
// increasing timestamp. Callers must hold mu.
func (s *fakeActivityStore) append(a *models.Activity) {
	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		s.clock = s.clock.Add(time.Second)
		a.CreatedAt = s.clock
	}
	s.acts = append(s.acts, a)
}

func (s *fakeActivityStore) sorted(filter func(*models.Activity) bool) []*models.Activity {
	var out []*models.Activity
	for _, a := range s.acts {
		if filter(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (s *fakeActivityStore) ListActivities(_ context.Context, kind models.EntityKind, entityID, limit, offset int) ([]*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sorted(func(a *models.Activity) bool {
		return a.EntityKind == kind && a.EntityID == entityID
	})
	return page(all, limit, offset), nil
}

func (s *fakeActivityStore) ListRecentActivities(_ context.Context, kind models.EntityKind, limit, offset int) ([]*models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sorted(func(a *models.Activity) bool { return a.EntityKind == kind })
	return page(all, limit, offset), nil
}

func (s *fakeActivityStore) CountActivities(_ context.Context, kind models.EntityKind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.acts {
		if a.EntityKind == kind {
			n++
		}
	}
	return n, nil
}

func (s *fakeActivityStore) CountEntityActivities(_ context.Context, kind models.EntityKind, entityID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.acts {
		if a.EntityKind == kind && a.EntityID == entityID {
			n++
		}
	}
	return n, nil
}

// byType returns the entity's activities of one type, oldest first.
func (s *fakeActivityStore) byType(kind models.EntityKind, entityID int, activityType string) []*models.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Activity
	for _, a := range s.acts {
		if a.EntityKind == kind && a.EntityID == entityID && a.Type == activityType {
			out = append(out, a)
		}
	}
	return out
}

type fakeContactStore struct {
	mu       sync.Mutex
	contacts map[int]*models.Contact
	nextID   int
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: map[int]*models.Contact{}}
}

func (s *fakeContactStore) GetContact(_ context.Context, id int) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeContactStore) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *fakeContactStore) UpdateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[c.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *fakeContactStore) ListContacts(_ context.Context, limit, offset int) ([]*models.Contact, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Contact
	for _, c := range s.contacts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(s.contacts)), nil
}

type fakeEnquiryStore struct {
	mu        sync.Mutex
	enquiries map[int]*models.Enquiry
	nextID    int
}

func newFakeEnquiryStore() *fakeEnquiryStore {
	return &fakeEnquiryStore{enquiries: map[int]*models.Enquiry{}}
}

func (s *fakeEnquiryStore) GetEnquiry(_ context.Context, id int) (*models.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enquiries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEnquiryStore) CreateEnquiry(_ context.Context, e *models.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	cp := *e
	s.enquiries[e.ID] = &cp
	return nil
}

func (s *fakeEnquiryStore) UpdateEnquiry(_ context.Context, e *models.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enquiries[e.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *e
	s.enquiries[e.ID] = &cp
	return nil
}

func (s *fakeEnquiryStore) ListEnquiries(_ context.Context, limit, offset int) ([]*models.Enquiry, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Enquiry
	for _, e := range s.enquiries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(s.enquiries)), nil
}

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[int]*models.Booking
	nextID   int
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[int]*models.Booking{}}
}

func (s *fakeBookingStore) GetBooking(_ context.Context, id int) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBookingStore) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeBookingStore) UpdateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return models.ErrNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *fakeBookingStore) ListBookings(_ context.Context, limit, offset int) ([]*models.Booking, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Booking
	for _, b := range s.bookings {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(s.bookings)), nil
}

type fakeCounterStore struct {
	mu    sync.Mutex
	years map[int]int
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{years: map[int]int{}}
}

func (s *fakeCounterStore) NextInvoiceNumber(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.years[year]++
	return s.years[year], nil
}

type fakeInvoiceStore struct {
	mu            sync.Mutex
	invoices      map[int]*models.Invoice
	payments      map[int]*models.Payment
	acts          *fakeActivityStore
	nextInvoiceID int
	nextItemID    int
	nextPaymentID int
}

func newFakeInvoiceStore(acts *fakeActivityStore) *fakeInvoiceStore {
	return &fakeInvoiceStore{
		invoices: map[int]*models.Invoice{},
		payments: map[int]*models.Payment{},
		acts:     acts,
	}
}

func cloneInvoice(inv *models.Invoice) *models.Invoice {
	cp := *inv
	cp.LineItems = append([]models.LineItem(nil), inv.LineItems...)
	if inv.BookingID != nil {
		b := *inv.BookingID
		cp.BookingID = &b
	}
	return &cp
}

func (s *fakeInvoiceStore) GetInvoice(_ context.Context, id int) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok || inv.DeletedAt != nil {
		return nil, models.ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (s *fakeInvoiceStore) GetInvoiceByBooking(_ context.Context, bookingID int) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invoices {
		if inv.BookingID != nil && *inv.BookingID == bookingID && inv.DeletedAt == nil {
			return cloneInvoice(inv), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeInvoiceStore) ListInvoices(_ context.Context, limit, offset int) ([]*models.Invoice, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Invoice
	for _, inv := range s.invoices {
		if inv.DeletedAt == nil {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), int64(len(out)), nil
}

func (s *fakeInvoiceStore) appendActs(invoiceID int, acts []*models.Activity) {
	for _, a := range acts {
		if a.EntityID == 0 {
			a.EntityID = invoiceID
		}
		s.acts.mu.Lock()
		s.acts.append(a)
		s.acts.mu.Unlock()
	}
}

func (s *fakeInvoiceStore) CreateInvoice(_ context.Context, inv *models.Invoice, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextInvoiceID++
	inv.ID = s.nextInvoiceID
	inv.Version = 1
	inv.CreatedAt = time.Now()
	for i := range inv.LineItems {
		s.nextItemID++
		inv.LineItems[i].ID = s.nextItemID
		inv.LineItems[i].InvoiceID = inv.ID
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

// checkVersion enforces the optimistic lock and bumps the version on the
// caller's copy. Callers must hold mu.
func (s *fakeInvoiceStore) checkVersion(inv *models.Invoice, expectedVersion int64) error {
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

func (s *fakeInvoiceStore) UpdateInvoice(_ context.Context, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) AddLineItem(_ context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	s.nextItemID++
	item.ID = s.nextItemID
	inv.LineItems[len(inv.LineItems)-1].ID = item.ID
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) UpdateLineItem(_ context.Context, _ *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) DeleteLineItem(_ context.Context, _ int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) CreatePayment(_ context.Context, p *models.Payment, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	if p.IdempotencyKey != "" {
		for _, existing := range s.payments {
			if existing.InvoiceID == p.InvoiceID && existing.IdempotencyKey == p.IdempotencyKey {
				return models.ErrConflict
			}
		}
	}
	s.nextPaymentID++
	p.ID = s.nextPaymentID
	p.CreatedAt = time.Now()
	cp := *p
	s.payments[p.ID] = &cp
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) DeletePayment(_ context.Context, paymentID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkVersion(inv, expectedVersion); err != nil {
		return err
	}
	delete(s.payments, paymentID)
	s.invoices[inv.ID] = cloneInvoice(inv)
	s.appendActs(inv.ID, acts)
	return nil
}

func (s *fakeInvoiceStore) GetPayment(_ context.Context, invoiceID, paymentID int) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[paymentID]
	if !ok || p.InvoiceID != invoiceID {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeInvoiceStore) GetPaymentByKey(_ context.Context, invoiceID int, key string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.InvoiceID == invoiceID && p.IdempotencyKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeInvoiceStore) ListPayments(_ context.Context, invoiceID int) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
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
