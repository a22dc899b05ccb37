package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for guest reviews
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// GuestReview represents a user's review of an attraction. Reviews are scoped
// to their author: users list and create only their own.
type GuestReview struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	AttractionID int        `json:"attraction_id" db:"attraction_id"`
	UserID       int        `json:"user_id" db:"user_id"`
	Rating       int        `json:"rating" db:"rating"`
	Content      string     `json:"content" db:"content"`
	VisitDate    *time.Time `json:"visit_date,omitempty" db:"visit_date"`
	IsPublished  bool       `json:"is_published" db:"is_published"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	// Joined for listings.
	AttractionName string `json:"attraction_name,omitempty" db:"attraction_name"`
}

// ValidateRating checks a rating against the 1..5 scale.
func ValidateRating(rating int) error {
	if rating < MinReviewRating || rating > MaxReviewRating {
		return ErrInvalidRating
	}
	return nil
}
