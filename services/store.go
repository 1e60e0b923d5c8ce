package services

import (
	"context"

	"arena-api/database"
	"arena-api/models"
)

// Store is the storage contract the services depend on. database.Store implements it over gorm
type Store interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	ListCompetitions(ctx context.Context) ([]models.Competition, error)
	GetCompetition(ctx context.Context, id uint) (*models.Competition, error)
	CreateCompetition(ctx context.Context, competition *models.Competition) error
	UpdateCompetition(ctx context.Context, id uint, changes map[string]any) (*models.Competition, error)

	GetSubmission(ctx context.Context, id uint) (*models.Submission, error)
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	UpdateSubmission(ctx context.Context, id uint, changes map[string]any) (*models.Submission, error)
	ListSubmissions(ctx context.Context, competitionID uint, query database.SubmissionQuery) ([]models.Submission, error)
	SubmissionIDsByCompetition(ctx context.Context, competitionID uint) ([]uint, error)
	CountRatings(ctx context.Context, submissionIDs []uint) (map[uint]int64, error)

	// Commit runs the batch as one transaction: every op is applied or none is
	Commit(ctx context.Context, batch *database.Batch) ([]database.OpResult, error)
}

var _ Store = (*database.Store)(nil)
