package models

import "time"

// WeeklyPlan assigns a training-split label to each day of one week.
// The unique (user_id, week_start_date) index enforces first-write-wins:
// duplicate creation requests are silent no-ops.
type WeeklyPlan struct {
	ID            string    `gorm:"primaryKey;size:36"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_user_week,priority:1"`
	WeekStartDate string    `gorm:"size:10;not null;uniqueIndex:idx_user_week,priority:2"` // YYYY-MM-DD, always a Monday
	Timezone      string    `gorm:"size:64;default:UTC"`
	Strategy      string    `gorm:"size:16"` // ULF_2C, FULL_3, UL_4, CUSTOM
	CreatedAt     time.Time

	Days []WeeklyPlanDay `gorm:"foreignKey:WeeklyPlanID"`
}

// WeeklyPlanDay is one of the seven entries of a WeeklyPlan.
type WeeklyPlanDay struct {
	WeeklyPlanID  string  `gorm:"primaryKey;size:36"`
	Date          string  `gorm:"primaryKey;size:10"` // YYYY-MM-DD
	Label         string  `gorm:"size:16;not null"`   // UPPER, LOWER, FULL, CARDIO, MOBILITY, REST
	SessionPlanID *string `gorm:"size:36"`
	Notes         *string `gorm:"size:255"`
}

// SessionPlan stores one generated session as an opaque document.
// PlanJSON holds the full planner.PlanDocument so repeat requests for the
// same (user, date, session_type) return byte-identical content.
type SessionPlan struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_user_date_type,priority:1"`
	Date        string    `gorm:"size:10;not null;uniqueIndex:idx_user_date_type,priority:2"`
	SessionType string    `gorm:"size:16;not null;uniqueIndex:idx_user_date_type,priority:3"`
	Timezone    string    `gorm:"size:64;default:UTC"`
	Phase       string    `gorm:"size:16;not null"`
	PlanJSON    string    `gorm:"type:json;not null"`
	CreatedAt   time.Time
}
