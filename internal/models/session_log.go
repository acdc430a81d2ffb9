package models

import "time"

// SessionLog records one performed session. Append-only.
type SessionLog struct {
	ID            string  `gorm:"primaryKey;size:36"`
	UserID        string  `gorm:"size:36;not null;index"`
	SessionPlanID *string `gorm:"size:36"`
	Date          string  `gorm:"size:10;not null"`
	SessionType   string  `gorm:"size:16;not null"`
	ReadinessJSON *string `gorm:"type:json"`
	Notes         *string `gorm:"type:text"`
	CreatedAt     time.Time

	Sets []SessionLogSet `gorm:"foreignKey:SessionLogID"`
}

// SessionLogSet is one performed set within a log. LoadUsed is nil for
// bodyweight work; RPE is nil when the athlete didn't rate the set.
type SessionLogSet struct {
	ID           string   `gorm:"primaryKey;size:36"`
	SessionLogID string   `gorm:"size:36;not null;index"`
	ExerciseID   string   `gorm:"size:64;not null"`
	SetNumber    int      `gorm:"not null"` // 1-based, unique per exercise within a log
	RepsDone     int      `gorm:"not null"`
	LoadUsed     *float64 // kg
	RPE          *float64 // 0-10
}
