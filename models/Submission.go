package models

import "time"

// Submission represents an entry of a user in a competition.
// Rating is the mean of all the Ratings referencing the submission and is never written by clients.
type Submission struct {
    ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
    Content       string       `gorm:"type:text;not null" json:"content"`
    Description   string       `gorm:"type:text" json:"description"`
    UserID        uint         `gorm:"not null;index;column:user_id" json:"user_id"`
    CompetitionID uint         `gorm:"not null;index;column:competition_id" json:"competition_id"`
    Rating        float64      `gorm:"not null;default:0" json:"rating"`
    CreatedAt     time.Time    `gorm:"index" json:"created_at"`
    User          *User        `gorm:"foreignKey:UserID" json:"-"`
    Competition   *Competition `gorm:"foreignKey:CompetitionID" json:"-"`
}
