package models

import "time"

// Rating represents one immutable rating event of a user on a submission
type Rating struct {
    ID           uint        `gorm:"primaryKey;autoIncrement" json:"id"`
    Feedback     string      `gorm:"type:text" json:"feedback"`
    Rating       int         `gorm:"not null" json:"rating"`
    UserID       uint        `gorm:"not null;index;column:user_id" json:"user_id"`
    SubmissionID uint        `gorm:"not null;index;column:submission_id" json:"submission_id"`
    CreatedAt    time.Time   `gorm:"autoCreateTime" json:"created_at"`
    User         *User       `gorm:"foreignKey:UserID" json:"-"`
    Submission   *Submission `gorm:"foreignKey:SubmissionID" json:"-"`
}
