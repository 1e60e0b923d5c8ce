// Package testutils provides fixtures shared by the package tests.
package testutils

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"arena-api/database"
	"arena-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewTestDB opens a migrated, isolated in-memory SQLite database with foreign keys enforced
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:arena_test_%d?mode=memory&cache=shared&_foreign_keys=on", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewTestStore returns a store over a fresh database
func NewTestStore(t testing.TB) (*database.Store, *gorm.DB) {
	t.Helper()
	db := NewTestDB(t)
	return database.NewStore(db), db
}

// CreateUser inserts a user with a unique email
func CreateUser(t testing.TB, db *gorm.DB, name string, judge bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s-%d@arena.test", name, dbCounter.Add(1)),
		Judge:    judge,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateCompetition inserts a competition owned by creator running through January 2024
func CreateCompetition(t testing.TB, db *gorm.DB, creator *models.User, title string) *models.Competition {
	t.Helper()
	competition := &models.Competition{
		Title:     title,
		CreatorID: creator.ID,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(competition).Error)
	return competition
}

// CreateSubmission inserts a submission with the given aggregate rating and creation time
func CreateSubmission(t testing.TB, db *gorm.DB, owner *models.User, competition *models.Competition, rating float64, createdAt time.Time) *models.Submission {
	t.Helper()
	submission := &models.Submission{
		Content:       "content",
		UserID:        owner.ID,
		CompetitionID: competition.ID,
		Rating:        rating,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(submission).Error)
	return submission
}

// CreateRating inserts a rating row directly, bypassing aggregation
func CreateRating(t testing.TB, db *gorm.DB, rater *models.User, submission *models.Submission, value int) *models.Rating {
	t.Helper()
	rating := &models.Rating{
		Rating:       value,
		UserID:       rater.ID,
		SubmissionID: submission.ID,
	}
	require.NoError(t, db.Create(rating).Error)
	return rating
}

// Count returns the number of rows of model matching the optional condition
func Count(t testing.TB, db *gorm.DB, model any, query ...any) int64 {
	t.Helper()
	var count int64
	tx := db.Model(model)
	if len(query) > 0 {
		tx = tx.Where(query[0], query[1:]...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}

// Clock returns a clock that moves forward one second per call
func Clock(start time.Time) func() time.Time {
	var ticks atomic.Int64
	return func() time.Time {
		return start.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}
