package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/middleware"
	"themepark-ticketing-platform/internal/services"
)

// TicketHandler handles ticket lookup, redemption and guest naming
type TicketHandler struct {
	tickets  *services.TicketService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(tickets *services.TicketService, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{
		tickets:  tickets,
		validate: validator.New(),
		logger:   logger,
	}
}

type updateGuestRequest struct {
	GuestName string `json:"guest_name" validate:"max=100"`
}

// ListTickets handles GET /api/tickets
func (h *TicketHandler) ListTickets(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	tickets, err := h.tickets.ListTickets(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// ListValidTickets handles GET /api/tickets/valid. A ticket is valid when its
// order is paid and it has not been used.
func (h *TicketHandler) ListValidTickets(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	tickets, err := h.tickets.ListValidTickets(user.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

// GetTicket handles GET /api/tickets/{id}
func (h *TicketHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid ticket id"})
		return
	}

	ticket, err := h.tickets.GetTicket(user.ID, ticketID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// MarkUsed handles POST /api/tickets/{id}/use
func (h *TicketHandler) MarkUsed(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid ticket id"})
		return
	}

	ticket, err := h.tickets.MarkUsed(user.ID, ticketID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// UpdateGuestName handles PATCH /api/tickets/{id}/guest
func (h *TicketHandler) UpdateGuestName(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid ticket id"})
		return
	}

	var req updateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	ticket, err := h.tickets.UpdateGuestName(user.ID, ticketID, req.GuestName)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}
