package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-backend/internal/models"
	"crm-backend/internal/services"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceAPI struct {
	router   *mux.Router
	invoices *stubInvoiceStore
}

// newInvoiceAPI wires the ledger handler onto a router with the same route
// templates main registers, backed by in-memory stores seeded with one
// contact and one confirmed booking.
func newInvoiceAPI(t *testing.T) *invoiceAPI {
	t.Helper()

	contacts := &stubContactStore{contacts: map[int]*models.Contact{
		1: {ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
	}}
	bookings := &stubBookingStore{bookings: map[int]*models.Booking{
		1: {
			ID:        1,
			ContactID: 1,
			Service:   "Deep clean",
			Price:     decimal.RequireFromString("49.99"),
			Status:    "CONFIRMED",
			StartsAt:  time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC),
			EndsAt:    time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}}
	invoices := newStubInvoiceStore(&stubActivityStore{})
	issuer := services.NewNumberIssuer(&stubCounterStore{years: map[int]int{}})
	ledger := services.NewLedgerService(invoices, contacts, bookings, issuer)
	h := NewInvoiceHandler(ledger)

	r := mux.NewRouter()
	r.HandleFunc("/api/invoices/from-booking", h.CreateFromBooking).Methods("POST")
	r.HandleFunc("/api/invoices/{id:[0-9]+}", h.GetInvoice).Methods("GET")
	r.HandleFunc("/api/invoices/{id:[0-9]+}/send", h.Send).Methods("POST")
	r.HandleFunc("/api/invoices/{id:[0-9]+}/payments", h.RecordPayment).Methods("POST")

	return &invoiceAPI{router: r, invoices: invoices}
}

func (a *invoiceAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestInvoiceRoutesLifecycle(t *testing.T) {
	api := newInvoiceAPI(t)

	rec := api.do(t, "POST", "/api/invoices/from-booking", map[string]any{
		"booking_id": 1, "tax_rate_percent": "20",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var inv models.Invoice
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&inv))
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", time.Now().Year()), inv.InvoiceNumber)
	assert.Equal(t, models.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "59.99", inv.Total.StringFixed(2))
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "Deep clean", inv.LineItems[0].Description)

	// one invoice per booking
	rec = api.do(t, "POST", "/api/invoices/from-booking", map[string]any{"booking_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "conflict", decodeErrorBody(t, rec).Error)

	rec = api.do(t, "GET", fmt.Sprintf("/api/invoices/%d", inv.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Invoice
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, inv.InvoiceNumber, fetched.InvoiceNumber)

	// payments are rejected while the invoice is still a draft
	payment := map[string]any{"amount": "59.99", "method": "CASH"}
	rec = api.do(t, "POST", fmt.Sprintf("/api/invoices/%d/payments", inv.ID), payment)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_state", decodeErrorBody(t, rec).Error)

	rec = api.do(t, "POST", fmt.Sprintf("/api/invoices/%d/send", inv.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, "POST", fmt.Sprintf("/api/invoices/%d/payments", inv.ID), payment)
	require.Equal(t, http.StatusCreated, rec.Code)
	var settled struct {
		Invoice models.Invoice `json:"invoice"`
		Payment models.Payment `json:"payment"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&settled))
	assert.Equal(t, models.InvoiceStatusPaid, settled.Invoice.Status)
	assert.Equal(t, "0.00", settled.Invoice.AmountDue.StringFixed(2))
	assert.Equal(t, "59.99", settled.Payment.Amount.StringFixed(2))
}

func TestInvoiceRoutesRejectBadRequests(t *testing.T) {
	api := newInvoiceAPI(t)

	rec := api.do(t, "GET", "/api/invoices/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorBody(t, rec).Error)

	rec = api.do(t, "GET", "/api/invoices/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_invoice_id", decodeErrorBody(t, rec).Error)

	req := httptest.NewRequest("POST", "/api/invoices/from-booking", bytes.NewBufferString("{not json"))
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeErrorBody(t, rec).Error)

	rec = api.do(t, "POST", "/api/invoices/from-booking", map[string]any{"booking_id": 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeErrorBody(t, rec).Error)
}
