package models

import "time"

// Competition represents a contest opened by a judge in which users submit entries
type Competition struct {
    ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
    Title        string        `gorm:"type:varchar(100);not null" json:"title"`
    Type         string        `gorm:"type:varchar(50)" json:"type"`
    Description  string        `gorm:"type:text" json:"description"`
    Rules        string        `gorm:"type:text" json:"rules"`
    Instructions string        `gorm:"type:text" json:"instructions"`
    CreatorID    uint          `gorm:"not null;index;column:creator_id" json:"creator_id"`
    StartDate    time.Time     `gorm:"type:date;not null;column:start_date" json:"start_date"`
    EndDate      time.Time     `gorm:"type:date;not null;column:end_date" json:"end_date"`
    CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
    Creator      *User         `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}
