package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/models"
)

// errorResponse is the JSON body for every failed request
type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps a domain error to an HTTP status. Every error kind the
// services produce is distinguishable here; anything unexpected (including
// persistence failures) becomes a 500 without leaking internals.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrDestinationNotFound),
		errors.Is(err, models.ErrParkNotFound),
		errors.Is(err, models.ErrTicketTypeNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrTicketNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrAttractionNotFound),
		errors.Is(err, models.ErrReviewNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: err.Error()})

	case errors.Is(err, models.ErrTicketTypeInactive),
		errors.Is(err, models.ErrTicketTypeUnavailable),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrQuantityOutOfRange),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidVisitDate),
		errors.Is(err, models.ErrGuestNameRequired),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrReviewContentRequired),
		errors.Is(err, models.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})

	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrTicketAlreadyUsed),
		errors.Is(err, models.ErrTicketNotUpdatable):
		writeJSON(w, http.StatusConflict, errorResponse{Detail: err.Error()})

	case errors.Is(err, models.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: err.Error()})

	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
}
