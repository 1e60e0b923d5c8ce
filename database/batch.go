package database

import (
	"arena-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Op is a single write intent. It only runs inside the transaction of a Batch
type Op struct {
	Name  string
	Table string
	// MustAffect makes the whole batch fail with ErrNotFound when the op matches no row
	MustAffect bool
	Run        func(tx *gorm.DB) (int64, error)
}

// OpResult is the outcome of one committed op
type OpResult struct {
	Name         string `json:"name"`
	Table        string `json:"table"`
	RowsAffected int64  `json:"rows_affected"`
}

// Batch bundles ordered write intents that commit or roll back as one unit
type Batch struct {
	ops []Op
}

// NewBatch creates a batch holding the given ops in order
func NewBatch(ops ...Op) *Batch {
	return &Batch{ops: ops}
}

// Add appends ops to the batch and returns it for chaining
func (b *Batch) Add(ops ...Op) *Batch {
	b.ops = append(b.ops, ops...)
	return b
}

// Len returns the number of ops in the batch
func (b *Batch) Len() int {
	return len(b.ops)
}

// Names returns the op names in execution order
func (b *Batch) Names() []string {
	names := make([]string, 0, len(b.ops))
	for _, op := range b.ops {
		names = append(names, op.Name)
	}
	return names
}

// AggregateFunc computes an aggregate rating from the prior values and a new one
type AggregateFunc func(prior []float64, next float64) float64

// LockSubmission takes a row lock on the submission for the rest of the transaction
func LockSubmission(submissionID uint) Op {
	return Op{
		Name:       "lock_submission",
		Table:      "submissions",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			query := tx.Model(&models.Submission{}).Where("id = ?", submissionID)
			// SQLite has no row-level locking, its write lock covers the whole database
			if tx.Dialector.Name() != "sqlite" {
				query = query.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var ids []uint
			res := query.Pluck("id", &ids)
			return res.RowsAffected, res.Error
		},
	}
}

// CreateRating inserts the rating event
func CreateRating(rating *models.Rating) Op {
	return Op{
		Name:       "create_rating",
		Table:      "ratings",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			res := tx.Create(rating)
			return res.RowsAffected, res.Error
		},
	}
}

// LockCompetition takes a row lock on the competition and on every submission it holds, so that
// no submission or rating can be attached to them until the transaction ends
func LockCompetition(competitionID uint) Op {
	return Op{
		Name:       "lock_competition",
		Table:      "competitions",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			competitions := tx.Model(&models.Competition{}).Where("id = ?", competitionID)
			submissions := tx.Model(&models.Submission{}).Where("competition_id = ?", competitionID)
			if tx.Dialector.Name() != "sqlite" {
				competitions = competitions.Clauses(clause.Locking{Strength: "UPDATE"})
				submissions = submissions.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var ids []uint
			res := competitions.Pluck("id", &ids)
			if res.Error != nil || res.RowsAffected == 0 {
				return res.RowsAffected, res.Error
			}
			if err := submissions.Pluck("id", &[]uint{}).Error; err != nil {
				return 0, err
			}
			return res.RowsAffected, nil
		},
	}
}

// UpdateSubmissionRating recomputes the aggregate of the submission from every rating recorded before
// the given one plus the given one. It must run after CreateRating in the same batch.
// When into is not nil it receives the submission as written by the transaction
func UpdateSubmissionRating(rating *models.Rating, aggregate AggregateFunc, into *models.Submission) Op {
	return Op{
		Name:       "update_submission_rating",
		Table:      "submissions",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			var values []int
			if err := tx.Model(&models.Rating{}).
				Where("submission_id = ? AND id <> ?", rating.SubmissionID, rating.ID).
				Pluck("rating", &values).Error; err != nil {
				return 0, err
			}
			prior := make([]float64, len(values))
			for i, v := range values {
				prior[i] = float64(v)
			}
			res := tx.Model(&models.Submission{}).
				Where("id = ?", rating.SubmissionID).
				Update("rating", aggregate(prior, float64(rating.Rating)))
			if res.Error != nil || res.RowsAffected == 0 || into == nil {
				return res.RowsAffected, res.Error
			}
			if err := tx.First(into, "id = ?", rating.SubmissionID).Error; err != nil {
				return 0, err
			}
			return res.RowsAffected, nil
		},
	}
}

// DeleteRatingsBySubmission deletes every rating of one submission
func DeleteRatingsBySubmission(submissionID uint) Op {
	return DeleteRatingsBySubmissions([]uint{submissionID})
}

// DeleteRatingsBySubmissions deletes every rating whose submission is in the set
func DeleteRatingsBySubmissions(submissionIDs []uint) Op {
	return Op{
		Name:  "delete_ratings",
		Table: "ratings",
		Run: func(tx *gorm.DB) (int64, error) {
			if len(submissionIDs) == 0 {
				return 0, nil
			}
			res := tx.Where("submission_id IN ?", submissionIDs).Delete(&models.Rating{})
			return res.RowsAffected, res.Error
		},
	}
}

// DeleteRatingsByCompetition deletes every rating of every submission of a competition.
// The submissions are selected inside the transaction
func DeleteRatingsByCompetition(competitionID uint) Op {
	return Op{
		Name:  "delete_ratings",
		Table: "ratings",
		Run: func(tx *gorm.DB) (int64, error) {
			submissions := tx.Model(&models.Submission{}).Select("id").Where("competition_id = ?", competitionID)
			res := tx.Where("submission_id IN (?)", submissions).Delete(&models.Rating{})
			return res.RowsAffected, res.Error
		},
	}
}

// DeleteSubmission deletes one submission, failing the batch when it does not exist
func DeleteSubmission(submissionID uint) Op {
	return Op{
		Name:       "delete_submission",
		Table:      "submissions",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			res := tx.Where("id = ?", submissionID).Delete(&models.Submission{})
			return res.RowsAffected, res.Error
		},
	}
}

// DeleteSubmissionsByCompetition deletes every submission of a competition
func DeleteSubmissionsByCompetition(competitionID uint) Op {
	return Op{
		Name:  "delete_submissions",
		Table: "submissions",
		Run: func(tx *gorm.DB) (int64, error) {
			res := tx.Where("competition_id = ?", competitionID).Delete(&models.Submission{})
			return res.RowsAffected, res.Error
		},
	}
}

// DeleteCompetition deletes the competition row, failing the batch when it does not exist
func DeleteCompetition(competitionID uint) Op {
	return Op{
		Name:       "delete_competition",
		Table:      "competitions",
		MustAffect: true,
		Run: func(tx *gorm.DB) (int64, error) {
			res := tx.Where("id = ?", competitionID).Delete(&models.Competition{})
			return res.RowsAffected, res.Error
		},
	}
}
