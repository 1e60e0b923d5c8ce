package models

import "time"

// User represents an account that can create competitions, submit entries and rate them
type User struct {
    ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
    Username  string    `gorm:"type:varchar(100);not null" json:"username"`
    Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
    Judge     bool      `gorm:"not null;default:false" json:"judge"`
    CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CanCreateCompetitions reports whether the user holds the judge capability
func (u *User) CanCreateCompetitions() bool {
    return u != nil && u.Judge
}
