package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"themepark-ticketing-platform/internal/models"
)

// ReviewRepository interface for guest review data operations
type ReviewRepository interface {
	Create(review *models.GuestReview) (*models.GuestReview, error)
	GetByID(id uuid.UUID, userID int) (*models.GuestReview, error)
	ListByUser(userID, attractionID int) ([]*models.GuestReview, error)
}

// AttractionReader resolves attractions for review creation.
type AttractionReader interface {
	GetAttractionByID(id int) (*models.Attraction, error)
}

// ReviewService handles guest reviews of attractions
type ReviewService struct {
	reviewRepo ReviewRepository
	catalog    AttractionReader
	logger     *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo ReviewRepository, catalog AttractionReader, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		catalog:    catalog,
		logger:     logger,
	}
}

// CreateReview validates and stores a review authored by the given user
func (s *ReviewService) CreateReview(userID, attractionID, rating int, content string, visitDate *time.Time) (*models.GuestReview, error) {
	if _, err := s.catalog.GetAttractionByID(attractionID); err != nil {
		return nil, err
	}
	if err := models.ValidateRating(rating); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, models.ErrReviewContentRequired
	}

	review, err := s.reviewRepo.Create(&models.GuestReview{
		AttractionID: attractionID,
		UserID:       userID,
		Rating:       rating,
		Content:      content,
		VisitDate:    visitDate,
		IsPublished:  true,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("review created",
		zap.Int("user_id", userID),
		zap.Int("attraction_id", attractionID),
		zap.Int("rating", rating),
	)

	return review, nil
}

// GetReview retrieves one of the user's reviews
func (s *ReviewService) GetReview(userID int, reviewID uuid.UUID) (*models.GuestReview, error) {
	return s.reviewRepo.GetByID(reviewID, userID)
}

// ListReviews retrieves the user's reviews, optionally scoped to an attraction
func (s *ReviewService) ListReviews(userID, attractionID int) ([]*models.GuestReview, error) {
	return s.reviewRepo.ListByUser(userID, attractionID)
}
