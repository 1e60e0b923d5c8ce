package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena-api/metrics"
	"arena-api/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Submission orderings accepted by ListSubmissions
const (
	OrderByRating = "rating"
	OrderByRecent = "recent"
)

// SubmissionQuery selects a window of the submissions of a competition
type SubmissionQuery struct {
	Skip    int
	Take    int // 0 means no limit
	OrderBy string
}

// Store is the gorm implementation of the storage contract used by the services
type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetUser loads a user by id
func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	defer metrics.RecordDBOperation("select", "users", time.Now())

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateUser inserts a user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	defer metrics.RecordDBOperation("insert", "users", time.Now())

	return translateError(s.db.WithContext(ctx).Create(user).Error)
}

// ListCompetitions returns every competition ordered by id
func (s *Store) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	var competitions []models.Competition
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&competitions).Error; err != nil {
		return nil, translateError(err)
	}
	return competitions, nil
}

// GetCompetition loads a competition by id
func (s *Store) GetCompetition(ctx context.Context, id uint) (*models.Competition, error) {
	defer metrics.RecordDBOperation("select", "competitions", time.Now())

	var competition models.Competition
	if err := s.db.WithContext(ctx).First(&competition, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &competition, nil
}

// CreateCompetition inserts a competition
func (s *Store) CreateCompetition(ctx context.Context, competition *models.Competition) error {
	defer metrics.RecordDBOperation("insert", "competitions", time.Now())

	return translateError(s.db.WithContext(ctx).Create(competition).Error)
}

// UpdateCompetition writes the given columns and returns the updated competition
func (s *Store) UpdateCompetition(ctx context.Context, id uint, changes map[string]any) (*models.Competition, error) {
	defer metrics.RecordDBOperation("update", "competitions", time.Now())

	res := s.db.WithContext(ctx).Model(&models.Competition{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetCompetition(ctx, id)
}

// GetSubmission loads a submission by id
func (s *Store) GetSubmission(ctx context.Context, id uint) (*models.Submission, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

// CreateSubmission inserts a submission
func (s *Store) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	defer metrics.RecordDBOperation("insert", "submissions", time.Now())

	return translateError(s.db.WithContext(ctx).Create(submission).Error)
}

// UpdateSubmission writes the given columns and returns the updated submission
func (s *Store) UpdateSubmission(ctx context.Context, id uint, changes map[string]any) (*models.Submission, error) {
	defer metrics.RecordDBOperation("update", "submissions", time.Now())

	if len(changes) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return nil, translateError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetSubmission(ctx, id)
}

// ListSubmissions returns a window of the submissions of a competition.
// Ties keep insertion order so that pages are stable
func (s *Store) ListSubmissions(ctx context.Context, competitionID uint, query SubmissionQuery) ([]models.Submission, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	tx := s.db.WithContext(ctx).Where("competition_id = ?", competitionID)
	switch query.OrderBy {
	case OrderByRating:
		tx = tx.Order("rating DESC")
	default:
		tx = tx.Order("created_at DESC")
	}
	tx = tx.Order("id ASC")

	if query.Take > 0 {
		tx = tx.Limit(query.Take)
	}
	if query.Skip > 0 {
		if query.Take == 0 {
			tx = tx.Limit(-1)
		}
		tx = tx.Offset(query.Skip)
	}

	var submissions []models.Submission
	if err := tx.Find(&submissions).Error; err != nil {
		return nil, translateError(err)
	}
	return submissions, nil
}

// SubmissionIDsByCompetition returns the ids of every submission of a competition
func (s *Store) SubmissionIDsByCompetition(ctx context.Context, competitionID uint) ([]uint, error) {
	defer metrics.RecordDBOperation("select", "submissions", time.Now())

	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Submission{}).
		Where("competition_id = ?", competitionID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, translateError(err)
	}
	return ids, nil
}

// CountRatings returns the number of ratings of each given submission
func (s *Store) CountRatings(ctx context.Context, submissionIDs []uint) (map[uint]int64, error) {
	defer metrics.RecordDBOperation("select", "ratings", time.Now())

	counts := make(map[uint]int64, len(submissionIDs))
	if len(submissionIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		SubmissionID uint
		Total        int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("submission_id, COUNT(*) AS total").
		Where("submission_id IN ?", submissionIDs).
		Group("submission_id").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	for _, row := range rows {
		counts[row.SubmissionID] = row.Total
	}
	return counts, nil
}

// Commit runs every op of the batch in order inside one transaction.
// Any failing op rolls back the ops before it and the error names the op
func (s *Store) Commit(ctx context.Context, batch *Batch) ([]OpResult, error) {
	defer metrics.RecordDBOperation("transaction", "batch", time.Now())

	results := make([]OpResult, 0, batch.Len())
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range batch.ops {
			start := time.Now()
			affected, err := op.Run(tx)
			metrics.RecordDBOperation(op.Name, op.Table, start)
			if err != nil {
				return &OpError{Op: op.Name, Err: translateError(err)}
			}
			if op.MustAffect && affected == 0 {
				return &OpError{Op: op.Name, Err: ErrNotFound}
			}
			results = append(results, OpResult{Name: op.Name, Table: op.Table, RowsAffected: affected})
		}
		return nil
	})
	if err != nil {
		failedOp := "commit"
		var opErr *OpError
		if errors.As(err, &opErr) {
			failedOp = opErr.Op
		}
		metrics.BatchRollbacks.WithLabelValues(failedOp).Inc()
		log.WithFields(log.Fields{
			"ops":   batch.Names(),
			"error": err,
		}).Warn("batch rolled back")
		return nil, fmt.Errorf("commit batch: %w", err)
	}
	return results, nil
}
