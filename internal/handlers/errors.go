package handlers

import (
	"errors"
	"net/http"

	"crm-backend/internal/models"
	"crm-backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

// writeError maps domain error kinds to status codes; anything else is an
// infrastructure failure and comes back as a 500 without leaking detail.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, models.ErrInvalidState):
		utils.JSONError(w, http.StatusBadRequest, "invalid_state")
	case errors.Is(err, models.ErrInvalidAmount):
		utils.JSONError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrStaleVersion):
		utils.JSONError(w, http.StatusBadRequest, "conflict")
	case errors.Is(err, models.ErrValidationFailed):
		utils.JSONError(w, http.StatusBadRequest, "validation_failed")
	default:
		log.Error().Err(err).Msg("request failed")
		utils.JSONError(w, http.StatusInternalServerError, "internal_error")
	}
}
