package handlers

import (
	"encoding/json"
	"net/http"

	"crm-backend/internal/models"
	"crm-backend/internal/services"
	"crm-backend/pkg/utils"
)

type EnquiryHandler struct {
	Service *services.EnquiryService
}

func NewEnquiryHandler(service *services.EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{Service: service}
}

func (h *EnquiryHandler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	e, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, e)
}

func (h *EnquiryHandler) GetEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_enquiry_id")
		return
	}
	e, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *EnquiryHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r, 50)
	enquiries, total, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"items": enquiries, "total": total, "limit": limit, "offset": offset,
	})
}

func (h *EnquiryHandler) UpdateEnquiry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		utils.JSONError(w, http.StatusBadRequest, "invalid_enquiry_id")
		return
	}
	var req models.UpdateEnquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	e, err := h.Service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}
