package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/middleware"
	"themepark-ticketing-platform/internal/services"
)

// ReviewHandler handles guest reviews of attractions
type ReviewHandler struct {
	reviews  *services.ReviewService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews:  reviews,
		validate: validator.New(),
		logger:   logger,
	}
}

type createReviewRequest struct {
	AttractionID int    `json:"attraction_id" validate:"required,min=1"`
	Rating       int    `json:"rating" validate:"required"`
	Content      string `json:"content" validate:"required,max=2000"`
	VisitDate    string `json:"visit_date"`
}

// ListReviews handles GET /api/reviews with an optional attraction_id filter
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	attractionID := 0
	if v := r.URL.Query().Get("attraction_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid attraction_id"})
			return
		}
		attractionID = id
	}

	reviews, err := h.reviews.ListReviews(user.ID, attractionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// GetReview handles GET /api/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	reviewID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid review id"})
		return
	}

	review, err := h.reviews.GetReview(user.ID, reviewID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	var visitDate *time.Time
	if req.VisitDate != "" {
		parsed, err := time.Parse(visitDateLayout, req.VisitDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "visit_date must be formatted as YYYY-MM-DD"})
			return
		}
		visitDate = &parsed
	}

	review, err := h.reviews.CreateReview(user.ID, req.AttractionID, req.Rating, req.Content, visitDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
