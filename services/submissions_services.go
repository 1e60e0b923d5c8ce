package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena-api/database"
	"arena-api/metrics"
	"arena-api/models"

	log "github.com/sirupsen/logrus"
)

// Order selects how the submissions of a competition are ranked
type Order string

const (
	OrderVotes  Order = "votes"
	OrderRecent Order = "recent"
)

// Page is an offset pagination window. Take 0 means no limit
type Page struct {
	Skip int `json:"skip"`
	Take int `json:"take"`
}

// CreateSubmissionInput holds the fields a participant provides for a new submission
type CreateSubmissionInput struct {
	Content       string
	Description   string
	UserID        uint `validate:"required"`
	CompetitionID uint `validate:"required"`
}

// UpdateSubmissionInput holds the mutable fields of a submission. Nil fields are left untouched
type UpdateSubmissionInput struct {
	Content     *string
	Description *string
}

// RatingInput is one rating event on a submission
type RatingInput struct {
	UserID   uint `validate:"required"`
	Feedback string
	Rating   int
}

// RatingResult is the committed rating with the submission carrying its new aggregate
type RatingResult struct {
	Rating     *models.Rating     `json:"rating"`
	Submission *models.Submission `json:"submission"`
}

// SubmissionDeletion confirms what a submission delete removed
type SubmissionDeletion struct {
	Submission     *models.Submission `json:"submission"`
	RatingsDeleted int64              `json:"ratings_deleted"`
}

// RatingEvent is published once a rating has been committed
type RatingEvent struct {
	CompetitionID uint
	SubmissionID  uint
	RatingID      uint
	Value         int
	Aggregate     float64
}

// RatingListener receives committed rating events
type RatingListener interface {
	RatingCommitted(event RatingEvent)
}

// SubmissionService manages the lifecycle of submissions and their ratings
type SubmissionService struct {
	store    Store
	scale    RatingScale
	listener RatingListener
	now      func() time.Time
}

// SubmissionOption customizes a SubmissionService
type SubmissionOption func(*SubmissionService)

// WithRatingListener notifies listener after every committed rating
func WithRatingListener(listener RatingListener) SubmissionOption {
	return func(s *SubmissionService) { s.listener = listener }
}

// WithClock overrides the clock used to stamp new submissions
func WithClock(now func() time.Time) SubmissionOption {
	return func(s *SubmissionService) { s.now = now }
}

func NewSubmissionService(store Store, scale RatingScale, opts ...SubmissionOption) *SubmissionService {
	s := &SubmissionService{
		store: store,
		scale: scale,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a submission by id
func (s *SubmissionService) Get(ctx context.Context, id uint) (*models.Submission, error) {
	submission, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, "submission not found")
	}
	return submission, nil
}

// Create inserts a submission with no rating yet. The user and the competition must exist
func (s *SubmissionService) Create(ctx context.Context, input CreateSubmissionInput) (*models.Submission, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	submission := &models.Submission{
		Content:       input.Content,
		Description:   input.Description,
		UserID:        input.UserID,
		CompetitionID: input.CompetitionID,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateSubmission(ctx, submission); err != nil {
		if errors.Is(err, database.ErrForeignKey) {
			return nil, newError(KindReference, "record invalid: user or competition does not exist", err)
		}
		log.WithFields(log.Fields{
			"user_id":        input.UserID,
			"competition_id": input.CompetitionID,
			"error":          err,
		}).Error("Failed to create submission")
		return nil, newError(KindInternal, "failed to create submission", err)
	}
	return submission, nil
}

// Update changes the content and description of a submission. Rating and relations stay as they are
func (s *SubmissionService) Update(ctx context.Context, id uint, input UpdateSubmissionInput) (*models.Submission, error) {
	changes := map[string]any{}
	if input.Content != nil {
		changes["content"] = *input.Content
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}

	submission, err := s.store.UpdateSubmission(ctx, id, changes)
	if err != nil {
		return nil, readError(err, KindNotFound, "submission not found")
	}
	return submission, nil
}

// List returns a page of the submissions of a competition, best rated first for OrderVotes
// and newest first otherwise
func (s *SubmissionService) List(ctx context.Context, competitionID uint, page Page, order Order) ([]models.Submission, error) {
	if page.Skip < 0 || page.Take < 0 {
		return nil, newError(KindValidation, "skip and take must not be negative", nil)
	}

	query := database.SubmissionQuery{
		Skip:    page.Skip,
		Take:    page.Take,
		OrderBy: database.OrderByRecent,
	}
	if order == OrderVotes {
		query.OrderBy = database.OrderByRating
	}

	submissions, err := s.store.ListSubmissions(ctx, competitionID, query)
	if err != nil {
		return nil, readError(err, KindNotFound, "competition not found")
	}
	return submissions, nil
}

// SubmitRating records a rating event and refreshes the aggregate of the submission in one
// transaction, so the new aggregate is visible exactly when the rating is
func (s *SubmissionService) SubmitRating(ctx context.Context, submissionID uint, input RatingInput) (*RatingResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if !s.scale.Contains(input.Rating) {
		return nil, newError(KindValidation, fmt.Sprintf("rating must be between %d and %d", s.scale.Min, s.scale.Max), nil)
	}

	if _, err := s.store.GetSubmission(ctx, submissionID); err != nil {
		return nil, readError(err, KindReference, "submission does not exist")
	}

	rating := &models.Rating{
		Feedback:     input.Feedback,
		Rating:       input.Rating,
		UserID:       input.UserID,
		SubmissionID: submissionID,
	}
	submission := &models.Submission{}
	batch := database.NewBatch(
		database.LockSubmission(submissionID),
		database.CreateRating(rating),
		database.UpdateSubmissionRating(rating, MeanRating, submission),
	)
	if _, err := s.store.Commit(ctx, batch); err != nil {
		return nil, commitError(err, KindReference, "submission does not exist")
	}

	metrics.RatingsSubmitted.Inc()

	if s.listener != nil {
		s.listener.RatingCommitted(RatingEvent{
			CompetitionID: submission.CompetitionID,
			SubmissionID:  submission.ID,
			RatingID:      rating.ID,
			Value:         rating.Rating,
			Aggregate:     submission.Rating,
		})
	}

	return &RatingResult{Rating: rating, Submission: submission}, nil
}

// Delete removes a submission and all its ratings in one transaction
func (s *SubmissionService) Delete(ctx context.Context, id uint) (*SubmissionDeletion, error) {
	submission, err := s.store.GetSubmission(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, "submission not found")
	}

	batch := database.NewBatch(
		database.DeleteRatingsBySubmission(id),
		database.DeleteSubmission(id),
	)
	results, err := s.store.Commit(ctx, batch)
	if err != nil {
		return nil, deleteError(err, KindNotFound, "submission not found")
	}

	deletion := &SubmissionDeletion{Submission: submission}
	for _, result := range results {
		metrics.CascadeDeletedRows.WithLabelValues(result.Table).Add(float64(result.RowsAffected))
		if result.Name == "delete_ratings" {
			deletion.RatingsDeleted = result.RowsAffected
		}
	}
	return deletion, nil
}

// readError turns a store read failure into a service error. A missing row is reported with missingKind
func readError(err error, missingKind Kind, missingMessage string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return newError(missingKind, missingMessage, nil)
	case errors.Is(err, database.ErrForeignKey):
		return newError(KindReference, "referenced record does not exist", err)
	default:
		log.WithField("error", err).Error("Store operation failed")
		return newError(KindInternal, "storage failure", err)
	}
}

// commitError turns a failed batch into a service error. Nothing of the batch was applied
func commitError(err error, missingKind Kind, missingMessage string) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return newError(missingKind, missingMessage, err)
	case errors.Is(err, database.ErrForeignKey):
		return newError(KindReference, "referenced record does not exist", err)
	default:
		return newError(KindTransaction, "transaction could not be committed, no change was applied", err)
	}
}

// deleteError turns a failed delete batch into a service error. A foreign key violation there means
// a row was attached to the deleted entity concurrently, so the delete lost the race
func deleteError(err error, missingKind Kind, missingMessage string) error {
	if errors.Is(err, database.ErrForeignKey) {
		return newError(KindTransaction, "concurrent write conflicted with the delete, no change was applied", err)
	}
	return commitError(err, missingKind, missingMessage)
}
