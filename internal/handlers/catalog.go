package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/repositories"
)

// CatalogHandler serves the browsable destination, park and ticket type
// catalog. Listings are public; no session is required.
type CatalogHandler struct {
	catalog *repositories.CatalogRepository
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *repositories.CatalogRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// ListDestinations handles GET /api/destinations
func (h *CatalogHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.catalog.ListDestinations()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, destinations)
}

// GetDestination handles GET /api/destinations/{id}
func (h *CatalogHandler) GetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid destination id"})
		return
	}

	destination, err := h.catalog.GetDestinationByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, destination)
}

// ListParks handles GET /api/parks with an optional destination_id filter
func (h *CatalogHandler) ListParks(w http.ResponseWriter, r *http.Request) {
	destinationID := 0
	if v := r.URL.Query().Get("destination_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid destination_id"})
			return
		}
		destinationID = id
	}

	parks, err := h.catalog.ListParks(destinationID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, parks)
}

// GetPark handles GET /api/parks/{id}
func (h *CatalogHandler) GetPark(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid park id"})
		return
	}

	park, err := h.catalog.GetParkByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, park)
}

// ListAttractions handles GET /api/attractions with optional park_id and
// destination_id filters
func (h *CatalogHandler) ListAttractions(w http.ResponseWriter, r *http.Request) {
	var filters repositories.AttractionFilters

	q := r.URL.Query()
	if v := q.Get("park_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid park_id"})
			return
		}
		filters.ParkID = id
	}
	if v := q.Get("destination_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid destination_id"})
			return
		}
		filters.DestinationID = id
	}

	attractions, err := h.catalog.ListAttractions(filters)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, attractions)
}

// GetAttraction handles GET /api/attractions/{id}
func (h *CatalogHandler) GetAttraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid attraction id"})
		return
	}

	attraction, err := h.catalog.GetAttractionByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, attraction)
}

// ListTicketTypes handles GET /api/ticket-types. Browsing shows only active
// types unless include_inactive=true is passed.
func (h *CatalogHandler) ListTicketTypes(w http.ResponseWriter, r *http.Request) {
	filters := repositories.TicketTypeFilters{ActiveOnly: true}

	q := r.URL.Query()
	if v := q.Get("park_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid park_id"})
			return
		}
		filters.ParkID = id
	}
	if v := q.Get("destination_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid destination_id"})
			return
		}
		filters.DestinationID = id
	}
	if q.Get("include_inactive") == "true" {
		filters.ActiveOnly = false
	}

	ticketTypes, err := h.catalog.ListTicketTypes(filters)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketTypes)
}

// GetTicketType handles GET /api/ticket-types/{id}
func (h *CatalogHandler) GetTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid ticket type id"})
		return
	}

	ticketType, err := h.catalog.GetTicketTypeByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketType)
}
