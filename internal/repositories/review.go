package repositories

import (
	"database/sql"

	"github.com/google/uuid"

	"themepark-ticketing-platform/internal/models"
)

// ReviewRepository handles guest review data. Reviews are author-scoped:
// every read carries the owning user's id.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a new review for the given user
func (r *ReviewRepository) Create(review *models.GuestReview) (*models.GuestReview, error) {
	query := `
		INSERT INTO guest_reviews (id, attraction_id, user_id, rating, content, visit_date, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at`

	review.ID = uuid.New()
	err := r.db.QueryRow(query,
		review.ID,
		review.AttractionID,
		review.UserID,
		review.Rating,
		review.Content,
		review.VisitDate,
		review.IsPublished,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, models.NewPersistenceError("create review", err)
	}

	return review, nil
}

// GetByID retrieves a review scoped to its author
func (r *ReviewRepository) GetByID(id uuid.UUID, userID int) (*models.GuestReview, error) {
	query := `
		SELECT gr.id, gr.attraction_id, gr.user_id, gr.rating, gr.content, gr.visit_date, gr.is_published, gr.created_at, gr.updated_at, a.name
		FROM guest_reviews gr
		JOIN attractions a ON gr.attraction_id = a.id
		WHERE gr.id = $1 AND gr.user_id = $2`

	review := &models.GuestReview{}
	err := r.db.QueryRow(query, id, userID).Scan(
		&review.ID,
		&review.AttractionID,
		&review.UserID,
		&review.Rating,
		&review.Content,
		&review.VisitDate,
		&review.IsPublished,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.AttractionName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrReviewNotFound
		}
		return nil, models.NewPersistenceError("get review", err)
	}

	return review, nil
}

// ListByUser retrieves the user's reviews, optionally filtered by attraction
func (r *ReviewRepository) ListByUser(userID, attractionID int) ([]*models.GuestReview, error) {
	query := `
		SELECT gr.id, gr.attraction_id, gr.user_id, gr.rating, gr.content, gr.visit_date, gr.is_published, gr.created_at, gr.updated_at, a.name
		FROM guest_reviews gr
		JOIN attractions a ON gr.attraction_id = a.id
		WHERE gr.user_id = $1`

	args := []interface{}{userID}
	if attractionID > 0 {
		query += " AND gr.attraction_id = $2"
		args = append(args, attractionID)
	}
	query += " ORDER BY gr.created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("list reviews", err)
	}
	defer rows.Close()

	var reviews []*models.GuestReview
	for rows.Next() {
		review := &models.GuestReview{}
		err := rows.Scan(
			&review.ID,
			&review.AttractionID,
			&review.UserID,
			&review.Rating,
			&review.Content,
			&review.VisitDate,
			&review.IsPublished,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.AttractionName,
		)
		if err != nil {
			return nil, models.NewPersistenceError("scan review", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, models.NewPersistenceError("iterate reviews", err)
	}

	return reviews, nil
}
