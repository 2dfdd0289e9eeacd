package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm-backend/internal/metrics"
	"crm-backend/internal/models"
	"crm-backend/internal/money"

	"github.com/shopspring/decimal"
)

// maxRetries bounds the optimistic-lock retry loop on invoice writes.
const maxRetries = 3

// defaultDueDays is applied when createFromBooking gets no due date.
const defaultDueDays = 14

// InvoiceStore persists the invoice aggregate. Each write method runs as a
// single transaction: the row updates, the activity inserts and the version
// bump either all land or none do. Writes check expectedVersion against the
// stored row and return models.ErrStaleVersion on a mismatch. Create
// methods fill IDs and timestamps on the passed values, including the
// EntityID of any activities created alongside a new invoice.
type InvoiceStore interface {
	GetInvoice(ctx context.Context, id int) (*models.Invoice, error)
	GetInvoiceByBooking(ctx context.Context, bookingID int) (*models.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]*models.Invoice, int64, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice, acts []*models.Activity) error
	UpdateInvoice(ctx context.Context, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	AddLineItem(ctx context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	UpdateLineItem(ctx context.Context, item *models.LineItem, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	DeleteLineItem(ctx context.Context, itemID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	CreatePayment(ctx context.Context, p *models.Payment, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	DeletePayment(ctx context.Context, paymentID int, inv *models.Invoice, expectedVersion int64, acts []*models.Activity) error
	GetPayment(ctx context.Context, invoiceID, paymentID int) (*models.Payment, error)
	GetPaymentByKey(ctx context.Context, invoiceID int, key string) (*models.Payment, error)
	ListPayments(ctx context.Context, invoiceID int) ([]*models.Payment, error)
}

// LedgerService owns invoice totals, payments and status transitions.
type LedgerService struct {
	Invoices InvoiceStore
	Contacts ContactStore
	Bookings BookingStore
	Issuer   *NumberIssuer
}

func NewLedgerService(invoices InvoiceStore, contacts ContactStore, bookings BookingStore, issuer *NumberIssuer) *LedgerService {
	return &LedgerService{Invoices: invoices, Contacts: contacts, Bookings: bookings, Issuer: issuer}
}

func (s *LedgerService) Get(ctx context.Context, id int) (*models.Invoice, error) {
	return s.Invoices.GetInvoice(ctx, id)
}

func (s *LedgerService) List(ctx context.Context, limit, offset int) ([]*models.Invoice, int64, error) {
	return s.Invoices.ListInvoices(ctx, limit, offset)
}

func (s *LedgerService) ListPayments(ctx context.Context, invoiceID int) ([]*models.Payment, error) {
	if _, err := s.Invoices.GetInvoice(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.Invoices.ListPayments(ctx, invoiceID)
}

// CreateFromBooking derives a single-line invoice from a booking's service
// and price. One invoice per booking; the unique index on the booking
// reference closes the check-then-insert race.
func (s *LedgerService) CreateFromBooking(ctx context.Context, req *models.CreateFromBookingRequest) (*models.Invoice, error) {
	booking, err := s.Bookings.GetBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Invoices.GetInvoiceByBooking(ctx, req.BookingID); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	taxRate := decimal.Zero
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if taxRate.IsNegative() {
		return nil, models.ErrValidationFailed
	}

	issueDate := time.Now()
	dueDate := issueDate.AddDate(0, 0, defaultDueDays)
	if req.DueDate != nil {
		dueDate = *req.DueDate
	}

	item := models.LineItem{
		Description: booking.Service,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   booking.Price,
		Total:       money.LineTotal(decimal.NewFromInt(1), booking.Price),
		SortOrder:   0,
	}
	bookingID := booking.ID
	inv := &models.Invoice{
		ContactID: booking.ContactID,
		BookingID: &bookingID,
		IssueDate: issueDate,
		DueDate:   dueDate,
		TaxRate:   taxRate,
		Status:    models.InvoiceStatusDraft,
		LineItems: []models.LineItem{item},
	}
	applyTotals(inv, decimal.Zero)

	return s.createInvoice(ctx, inv, booking.ContactID, true)
}

// CreateFromScratch creates an invoice for a contact with an explicit line
// item set.
func (s *LedgerService) CreateFromScratch(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if _, err := s.Contacts.GetContact(ctx, req.ContactID); err != nil {
		return nil, err
	}
	if req.BookingID != nil {
		if _, err := s.Bookings.GetBooking(ctx, *req.BookingID); err != nil {
			return nil, err
		}
		if _, err := s.Invoices.GetInvoiceByBooking(ctx, *req.BookingID); err == nil {
			return nil, models.ErrConflict
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
	}
	if req.TaxRate.IsNegative() || req.IssueDate.IsZero() || req.DueDate.IsZero() {
		return nil, models.ErrValidationFailed
	}

	items := make([]models.LineItem, 0, len(req.LineItems))
	for i, li := range req.LineItems {
		if err := validateLineItem(li.Description, li.Quantity, li.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, models.LineItem{
			Description: li.Description,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Total:       money.LineTotal(li.Quantity, li.UnitPrice),
			SortOrder:   i,
		})
	}

	inv := &models.Invoice{
		ContactID: req.ContactID,
		BookingID: req.BookingID,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,
		TaxRate:   req.TaxRate,
		Status:    models.InvoiceStatusDraft,
		LineItems: items,
	}
	applyTotals(inv, decimal.Zero)

	return s.createInvoice(ctx, inv, req.ContactID, false)
}

func (s *LedgerService) createInvoice(ctx context.Context, inv *models.Invoice, contactID int, fromBooking bool) (*models.Invoice, error) {
	number, err := s.Issuer.Next(ctx, inv.IssueDate.Year())
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number

	contactName := ""
	if contact, err := s.Contacts.GetContact(ctx, contactID); err == nil {
		contactName = contact.Name
	}

	act := models.NewActivity(models.EntityInvoice, 0, models.ActivityInvoiceCreated, models.InvoiceCreatedPayload{
		InvoiceNumber: inv.InvoiceNumber,
		ContactName:   contactName,
		Total:         inv.Total,
		FromBooking:   fromBooking,
	})
	if !fromBooking {
		// fromBooking is only present on booking-derived invoices
		delete(act.Payload, "fromBooking")
	}

	if err := s.Invoices.CreateInvoice(ctx, inv, []*models.Activity{act}); err != nil {
		return nil, err
	}
	metrics.InvoicesCreatedTotal.Inc()
	return inv, nil
}

// AddLineItem appends a line item to a DRAFT invoice and recomputes totals
// from the full resulting set.
func (s *LedgerService) AddLineItem(ctx context.Context, invoiceID int, req *models.CreateLineItemRequest) (*models.Invoice, error) {
	if err := validateLineItem(req.Description, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft {
			return models.ErrInvalidState
		}

		item := &models.LineItem{
			InvoiceID:   inv.ID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			Total:       money.LineTotal(req.Quantity, req.UnitPrice),
			SortOrder:   len(inv.LineItems),
		}
		version := inv.Version
		inv.LineItems = append(inv.LineItems, *item)
		applyTotals(inv, inv.AmountPaid)

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityLineItemAdded, models.LineItemPayload{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
		})
		if err := s.Invoices.AddLineItem(ctx, item, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// UpdateLineItem patches a line item on a DRAFT invoice, logging the
// before/after diff.
func (s *LedgerService) UpdateLineItem(ctx context.Context, invoiceID, itemID int, req *models.UpdateLineItemRequest) (*models.Invoice, error) {
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return nil, models.ErrValidationFailed
	}
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft {
			return models.ErrInvalidState
		}
		idx := findLineItem(inv.LineItems, itemID)
		if idx < 0 {
			return models.ErrNotFound
		}
		item := &inv.LineItems[idx]

		oldVals := map[string]any{}
		newVals := map[string]any{}
		patchString(oldVals, newVals, "description", item.Description, req.Description)
		if req.Quantity != nil {
			if !req.Quantity.IsPositive() {
				return models.ErrInvalidAmount
			}
			oldVals["quantity"] = item.Quantity
			newVals["quantity"] = *req.Quantity
		}
		if req.UnitPrice != nil {
			if req.UnitPrice.IsNegative() {
				return models.ErrInvalidAmount
			}
			oldVals["unitPrice"] = item.UnitPrice
			newVals["unitPrice"] = *req.UnitPrice
		}

		changes := Diff(oldVals, newVals)
		if len(changes) == 0 {
			out = inv
			return nil
		}

		applyString(&item.Description, req.Description)
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.UnitPrice != nil {
			item.UnitPrice = *req.UnitPrice
		}
		item.Total = money.LineTotal(item.Quantity, item.UnitPrice)

		version := inv.Version
		applyTotals(inv, inv.AmountPaid)

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityLineItemUpdated, models.LineItemChangedPayload{
			Description: item.Description,
			Changes:     changes,
		})
		if err := s.Invoices.UpdateLineItem(ctx, item, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// DeleteLineItem removes a line item from a DRAFT invoice and recomputes
// totals from the remaining set.
func (s *LedgerService) DeleteLineItem(ctx context.Context, invoiceID, itemID int) (*models.Invoice, error) {
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft {
			return models.ErrInvalidState
		}
		idx := findLineItem(inv.LineItems, itemID)
		if idx < 0 {
			return models.ErrNotFound
		}
		removed := inv.LineItems[idx]

		version := inv.Version
		inv.LineItems = append(inv.LineItems[:idx], inv.LineItems[idx+1:]...)
		applyTotals(inv, inv.AmountPaid)

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityLineItemDeleted, models.LineItemPayload{
			Description: removed.Description,
			Quantity:    removed.Quantity,
			UnitPrice:   removed.UnitPrice,
			Total:       removed.Total,
		})
		if err := s.Invoices.DeleteLineItem(ctx, itemID, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// UpdateDraftFields patches header fields on a DRAFT invoice. A tax-rate
// change recomputes totals from the existing line items.
func (s *LedgerService) UpdateDraftFields(ctx context.Context, invoiceID int, req *models.UpdateDraftRequest) (*models.Invoice, error) {
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft {
			return models.ErrInvalidState
		}

		oldVals := map[string]any{}
		newVals := map[string]any{}
		if req.IssueDate != nil {
			oldVals["issueDate"] = inv.IssueDate
			newVals["issueDate"] = *req.IssueDate
		}
		if req.DueDate != nil {
			oldVals["dueDate"] = inv.DueDate
			newVals["dueDate"] = *req.DueDate
		}
		if req.TaxRate != nil {
			if req.TaxRate.IsNegative() {
				return models.ErrValidationFailed
			}
			oldVals["taxRatePercent"] = inv.TaxRate
			newVals["taxRatePercent"] = *req.TaxRate
		}

		changes := Diff(oldVals, newVals)
		if len(changes) == 0 {
			out = inv
			return nil
		}

		if req.IssueDate != nil {
			inv.IssueDate = *req.IssueDate
		}
		if req.DueDate != nil {
			inv.DueDate = *req.DueDate
		}
		version := inv.Version
		if req.TaxRate != nil {
			inv.TaxRate = *req.TaxRate
			applyTotals(inv, inv.AmountPaid)
		}

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityInvoiceUpdated,
			models.UpdatedPayload{Changes: changes})
		if err := s.Invoices.UpdateInvoice(ctx, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// Send transitions DRAFT → SENT. Line items are immutable afterwards.
func (s *LedgerService) Send(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft {
			return models.ErrInvalidState
		}
		version := inv.Version
		inv.Status = models.InvoiceStatusSent

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityInvoiceSent,
			models.InvoiceSentPayload{InvoiceNumber: inv.InvoiceNumber})
		if err := s.Invoices.UpdateInvoice(ctx, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// RecordPayment applies a payment to a SENT, PARTIALLY_PAID or OVERDUE
// invoice. The payment insert, the invoice update and the activity inserts
// are one atomic unit in the store. A replayed idempotency key returns the
// original payment without reapplying it.
func (s *LedgerService) RecordPayment(ctx context.Context, invoiceID int, req *models.RecordPaymentRequest) (*models.Invoice, *models.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, nil, models.ErrInvalidAmount
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, nil, models.ErrValidationFailed
	}

	var outInv *models.Invoice
	var outPayment *models.Payment
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		if req.IdempotencyKey != "" {
			existing, err := s.Invoices.GetPaymentByKey(ctx, invoiceID, req.IdempotencyKey)
			if err == nil {
				outInv, outPayment = inv, existing
				return nil
			}
			if !errors.Is(err, models.ErrNotFound) {
				return err
			}
		}

		switch inv.Status {
		case models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue:
		default:
			return models.ErrInvalidState
		}

		paidAt := req.PaidAt
		if paidAt.IsZero() {
			paidAt = time.Now()
		}
		p := &models.Payment{
			InvoiceID:      inv.ID,
			Amount:         req.Amount,
			Method:         req.Method,
			Reference:      req.Reference,
			Notes:          req.Notes,
			IdempotencyKey: req.IdempotencyKey,
			PaidAt:         paidAt,
		}

		version := inv.Version
		oldStatus := inv.Status
		inv.AmountPaid = money.RoundCents(inv.AmountPaid.Add(req.Amount))
		inv.AmountDue = money.RoundCents(inv.Total.Sub(inv.AmountPaid))
		inv.Status = deriveStatus(inv.Status, inv.AmountPaid, inv.AmountDue)

		acts := []*models.Activity{
			models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityPaymentRecorded, models.PaymentRecordedPayload{
				Amount:    p.Amount,
				Method:    p.Method,
				Reference: p.Reference,
			}),
		}
		if inv.Status != oldStatus {
			acts = append(acts, models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityInvoiceStatusChanged,
				models.StatusChangedPayload{From: oldStatus, To: inv.Status}))
		}

		if err := s.Invoices.CreatePayment(ctx, p, inv, version, acts); err != nil {
			// A concurrent request with the same key can win the unique
			// index between our pre-check and the insert; resolve the
			// loser to the same replay semantics.
			if errors.Is(err, models.ErrConflict) && req.IdempotencyKey != "" {
				existing, keyErr := s.Invoices.GetPaymentByKey(ctx, invoiceID, req.IdempotencyKey)
				if keyErr == nil {
					current, invErr := s.Invoices.GetInvoice(ctx, invoiceID)
					if invErr != nil {
						return invErr
					}
					outInv, outPayment = current, existing
					return nil
				}
			}
			return err
		}
		metrics.PaymentsRecordedTotal.Inc()
		outInv, outPayment = inv, p
		return nil
	})
	return outInv, outPayment, err
}

// DeletePayment reverses a payment's effect on amountPaid, amountDue and
// status, in the same transaction that removes the payment row.
func (s *LedgerService) DeletePayment(ctx context.Context, invoiceID, paymentID int) (*models.Invoice, error) {
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		p, err := s.Invoices.GetPayment(ctx, invoiceID, paymentID)
		if err != nil {
			return err
		}

		version := inv.Version
		oldStatus := inv.Status
		inv.AmountPaid = money.RoundCents(inv.AmountPaid.Sub(p.Amount))
		inv.AmountDue = money.RoundCents(inv.Total.Sub(inv.AmountPaid))
		inv.Status = deriveStatusAfterReversal(inv.Status, inv.AmountPaid, inv.AmountDue)

		acts := []*models.Activity{
			models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityPaymentDeleted, models.PaymentDeletedPayload{
				Amount: p.Amount,
				Method: p.Method,
			}),
		}
		if inv.Status != oldStatus {
			acts = append(acts, models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityInvoiceStatusChanged,
				models.StatusChangedPayload{From: oldStatus, To: inv.Status}))
		}

		if err := s.Invoices.DeletePayment(ctx, paymentID, inv, version, acts); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// MarkOverdue is the entry point for the external aging job.
func (s *LedgerService) MarkOverdue(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	return s.transition(ctx, invoiceID, models.InvoiceStatusOverdue,
		models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid)
}

// Cancel moves any non-PAID, non-CANCELLED invoice to CANCELLED.
func (s *LedgerService) Cancel(ctx context.Context, invoiceID int) (*models.Invoice, error) {
	return s.transition(ctx, invoiceID, models.InvoiceStatusCancelled,
		models.InvoiceStatusDraft, models.InvoiceStatusSent, models.InvoiceStatusPartiallyPaid, models.InvoiceStatusOverdue)
}

func (s *LedgerService) transition(ctx context.Context, invoiceID int, to string, from ...string) (*models.Invoice, error) {
	var out *models.Invoice
	err := s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		allowed := false
		for _, f := range from {
			if inv.Status == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.ErrInvalidState
		}
		version := inv.Version
		oldStatus := inv.Status
		inv.Status = to

		act := models.NewActivity(models.EntityInvoice, inv.ID, models.ActivityInvoiceStatusChanged,
			models.StatusChangedPayload{From: oldStatus, To: to})
		if err := s.Invoices.UpdateInvoice(ctx, inv, version, []*models.Activity{act}); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// SoftDelete marks a DRAFT or CANCELLED invoice as deleted. Line items go
// with the invoice; activities stay.
func (s *LedgerService) SoftDelete(ctx context.Context, invoiceID int) error {
	return s.withRetry(func() error {
		inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != models.InvoiceStatusDraft && inv.Status != models.InvoiceStatusCancelled {
			return models.ErrInvalidState
		}
		version := inv.Version
		now := time.Now()
		inv.DeletedAt = &now
		return s.Invoices.UpdateInvoice(ctx, inv, version, nil)
	})
}

// withRetry re-runs fn when the invoice row moved underneath it. fn must
// re-read the invoice on each attempt.
func (s *LedgerService) withRetry(fn func() error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if !errors.Is(err, models.ErrStaleVersion) {
			return err
		}
	}
	return err
}

// deriveStatus picks the post-payment status: PAID iff nothing is due,
// otherwise PARTIALLY_PAID once anything was paid, otherwise unchanged.
func deriveStatus(current string, amountPaid, amountDue decimal.Decimal) string {
	if amountDue.Sign() <= 0 {
		return models.InvoiceStatusPaid
	}
	if amountPaid.Sign() > 0 {
		return models.InvoiceStatusPartiallyPaid
	}
	return current
}

// deriveStatusAfterReversal mirrors deriveStatus for payment deletion:
// with nothing paid the invoice falls back to SENT, except an OVERDUE
// invoice stays OVERDUE.
func deriveStatusAfterReversal(current string, amountPaid, amountDue decimal.Decimal) string {
	if amountDue.Sign() <= 0 {
		return models.InvoiceStatusPaid
	}
	if amountPaid.Sign() > 0 {
		if current == models.InvoiceStatusOverdue {
			return current
		}
		return models.InvoiceStatusPartiallyPaid
	}
	if current == models.InvoiceStatusOverdue {
		return current
	}
	return models.InvoiceStatusSent
}

func applyTotals(inv *models.Invoice, amountPaid decimal.Decimal) {
	lineTotals := make([]decimal.Decimal, 0, len(inv.LineItems))
	for _, li := range inv.LineItems {
		lineTotals = append(lineTotals, li.Total)
	}
	totals := money.Compute(lineTotals, inv.TaxRate, amountPaid)
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.AmountPaid = amountPaid
	inv.AmountDue = totals.AmountDue
}

func validateLineItem(description string, quantity, unitPrice decimal.Decimal) error {
	if strings.TrimSpace(description) == "" {
		return models.ErrValidationFailed
	}
	if !quantity.IsPositive() {
		return models.ErrInvalidAmount
	}
	if unitPrice.IsNegative() {
		return models.ErrInvalidAmount
	}
	return nil
}

func findLineItem(items []models.LineItem, itemID int) int {
	for i := range items {
		if items[i].ID == itemID {
			return i
		}
	}
	return -1
}
