package submissions

import (
	"time"

	"arena-api/database"
	"arena-api/services"
)

const DatabaseTimeout = 5 * time.Second

const (
	ErrInvalidRequest = "Invalid request data"
)

// Handler serves the submission and rating routes
type Handler struct {
	submissions *services.SubmissionService
	cache       *database.Cache
}

func NewHandler(submissions *services.SubmissionService, cache *database.Cache) *Handler {
	return &Handler{submissions: submissions, cache: cache}
}

// CreateSubmissionRequest is the payload of a new submission
type CreateSubmissionRequest struct {
	Content       string `json:"content"`
	Description   string `json:"description"`
	UserID        uint   `json:"user_id"`
	CompetitionID uint   `json:"competition_id" binding:"required"`
}

// UpdateSubmissionRequest changes the content or the description of a submission
type UpdateSubmissionRequest struct {
	Content     *string `json:"content"`
	Description *string `json:"description"`
}

// RatingRequest is one rating of a submission
type RatingRequest struct {
	UserID   uint   `json:"user_id"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
}
