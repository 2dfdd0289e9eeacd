package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"crm-backend/internal/models"
	"crm-backend/internal/services"
	"crm-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	Ledger *services.LedgerService
}

func NewInvoiceHandler(ledger *services.LedgerService) *InvoiceHandler {
	return &InvoiceHandler{Ledger: ledger}
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	return id, err == nil && id > 0
}

// CreateInvoice creates an invoice from scratch.
func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, err := h.Ledger.CreateFromScratch(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, inv)
}

// CreateFromBooking derives an invoice from a booking.
func (h *InvoiceHandler) CreateFromBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFromBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, err := h.Ledger.CreateFromBooking(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	inv, err := h.Ledger.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)
	invoices, total, err := h.Ledger.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"items": invoices, "total": total, "limit": limit, "offset": offset,
	})
}

func (h *InvoiceHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	var req models.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, err := h.Ledger.UpdateDraftFields(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	var req models.CreateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, err := h.Ledger.AddLineItem(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, inv)
}

func (h *InvoiceHandler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "item_id")
	if !ok || !ok2 {
		utils.JSONError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	var req models.UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, err := h.Ledger.UpdateLineItem(r.Context(), id, itemID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	itemID, ok2 := pathID(r, "item_id")
	if !ok || !ok2 {
		utils.JSONError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	inv, err := h.Ledger.DeleteLineItem(r.Context(), id, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	inv, err := h.Ledger.Send(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	var req models.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	inv, payment, err := h.Ledger.RecordPayment(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]any{"invoice": inv, "payment": payment})
}

func (h *InvoiceHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	payments, err := h.Ledger.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *InvoiceHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	paymentID, ok2 := pathID(r, "payment_id")
	if !ok || !ok2 {
		utils.JSONError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	inv, err := h.Ledger.DeletePayment(r.Context(), id, paymentID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	inv, err := h.Ledger.MarkOverdue(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	inv, err := h.Ledger.Cancel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, inv)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_invoice_id")
		return
	}
	if err := h.Ledger.SoftDelete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}
