package services

import (
	"context"
	"errors"

	"arena-api/database"
	"arena-api/metrics"
	"arena-api/models"

	log "github.com/sirupsen/logrus"
)

const (
	MsgUserDoesNotExist  = "user does not exist"
	MsgNotAuthorised     = "not authorised to create a competition"
	MsgCompetitionAbsent = "competition not found"
)

// CreateCompetitionInput holds the payload of a new competition. Dates are [year, month, day]
type CreateCompetitionInput struct {
	Title        string `validate:"required"`
	Type         string
	Description  string
	Rules        string
	Instructions string
	StartDate    []int `validate:"len=3"`
	EndDate      []int `validate:"len=3"`
}

// UpdateCompetitionInput replaces the four mutable fields of a competition
type UpdateCompetitionInput struct {
	Title       string
	Description string
	StartDate   []int `validate:"len=3"`
	EndDate     []int `validate:"len=3"`
}

// CompetitionDeletion confirms what a competition delete removed
type CompetitionDeletion struct {
	Competition        *models.Competition `json:"competition"`
	SubmissionsDeleted int64               `json:"submissions_deleted"`
	RatingsDeleted     int64               `json:"ratings_deleted"`
}

// cascadeStep builds the delete of one dependent entity type of a competition.
// Steps run in declaration order, leaves first. Dependents are selected inside the transaction
type cascadeStep func(competitionID uint) database.Op

var competitionDependents = []cascadeStep{
	database.LockCompetition,
	database.DeleteRatingsByCompetition,
	database.DeleteSubmissionsByCompetition,
}

// Actor is anything whose capabilities can be checked before a write
type Actor interface {
	CanCreateCompetitions() bool
}

// CompetitionService manages the lifecycle of competitions
type CompetitionService struct {
	store Store
}

func NewCompetitionService(store Store) *CompetitionService {
	return &CompetitionService{store: store}
}

// List returns every competition
func (s *CompetitionService) List(ctx context.Context) ([]models.Competition, error) {
	competitions, err := s.store.ListCompetitions(ctx)
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}
	return competitions, nil
}

// Get returns a competition by id
func (s *CompetitionService) Get(ctx context.Context, id uint) (*models.Competition, error) {
	competition, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}
	return competition, nil
}

// Create opens a competition on behalf of requestingUserID. Only judges may do so and
// the check happens before anything is written
func (s *CompetitionService) Create(ctx context.Context, input CreateCompetitionInput, requestingUserID uint) (*models.Competition, error) {
	user, err := s.store.GetUser(ctx, requestingUserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, newError(KindAuthorization, MsgUserDoesNotExist, nil)
		}
		return nil, readError(err, KindAuthorization, MsgUserDoesNotExist)
	}
	if err := authorizeCreation(user); err != nil {
		log.WithField("user_id", requestingUserID).Warn("Competition creation refused")
		return nil, err
	}

	if err := validateInput(input); err != nil {
		return nil, err
	}
	startDate, err := ParseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := ParseDate(input.EndDate)
	if err != nil {
		return nil, err
	}

	competition := &models.Competition{
		Title:        input.Title,
		Type:         input.Type,
		Description:  input.Description,
		Rules:        input.Rules,
		Instructions: input.Instructions,
		CreatorID:    user.ID,
		StartDate:    startDate,
		EndDate:      endDate,
	}
	if err := s.store.CreateCompetition(ctx, competition); err != nil {
		if errors.Is(err, database.ErrForeignKey) {
			return nil, newError(KindAuthorization, MsgUserDoesNotExist, err)
		}
		log.WithFields(log.Fields{"user_id": requestingUserID, "error": err}).Error("Failed to create competition")
		return nil, newError(KindInternal, "failed to create competition", err)
	}
	return competition, nil
}

// authorizeCreation checks the judge capability of the actor
func authorizeCreation(actor Actor) error {
	if !actor.CanCreateCompetitions() {
		return newError(KindAuthorization, MsgNotAuthorised, nil)
	}
	return nil
}

// Update replaces the title, description and dates of a competition.
// No capability is checked here: any caller may edit any competition
func (s *CompetitionService) Update(ctx context.Context, id uint, input UpdateCompetitionInput) (*models.Competition, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	startDate, err := ParseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := ParseDate(input.EndDate)
	if err != nil {
		return nil, err
	}

	competition, err := s.store.UpdateCompetition(ctx, id, map[string]any{
		"title":       input.Title,
		"description": input.Description,
		"start_date":  startDate,
		"end_date":    endDate,
	})
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}
	return competition, nil
}

// Delete removes a competition with its submissions and their ratings as one unit.
// A competition without submissions is deleted by a batch of size one
func (s *CompetitionService) Delete(ctx context.Context, id uint) (*CompetitionDeletion, error) {
	// Step 1: Load the competition so that it can be returned once gone
	competition, err := s.store.GetCompetition(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}

	// Step 2: Enumerate the dependent submissions
	submissionIDs, err := s.store.SubmissionIDsByCompetition(ctx, id)
	if err != nil {
		return nil, readError(err, KindNotFound, MsgCompetitionAbsent)
	}

	// Step 3: Build and commit the cascade
	results, err := s.store.Commit(ctx, cascadeBatch(id, len(submissionIDs) > 0))
	if err != nil {
		return nil, deleteError(err, KindNotFound, MsgCompetitionAbsent)
	}

	deletion := &CompetitionDeletion{Competition: competition}
	for _, result := range results {
		if result.Name == "lock_competition" {
			continue
		}
		metrics.CascadeDeletedRows.WithLabelValues(result.Table).Add(float64(result.RowsAffected))
		switch result.Table {
		case "submissions":
			deletion.SubmissionsDeleted += result.RowsAffected
		case "ratings":
			deletion.RatingsDeleted += result.RowsAffected
		}
	}

	log.WithFields(log.Fields{
		"competition_id": id,
		"submissions":    deletion.SubmissionsDeleted,
		"ratings":        deletion.RatingsDeleted,
	}).Info("Competition deleted")
	return deletion, nil
}

// cascadeBatch orders the delete of every dependent before the competition itself.
// Without dependents the batch only deletes the competition
func cascadeBatch(competitionID uint, hasDependents bool) *database.Batch {
	batch := database.NewBatch()
	if hasDependents {
		for _, step := range competitionDependents {
			batch.Add(step(competitionID))
		}
	}
	return batch.Add(database.DeleteCompetition(competitionID))
}
