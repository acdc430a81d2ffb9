package models

import "time"

// UserExerciseStats is the engine's per-(user, exercise) progression state.
// Phase and StagnationCount are written only by the progression engine;
// rep range and target RPE start at the exercise defaults and may drift.
// NextLoad is nil only during CALIBRATION, before the first log comes in.
type UserExerciseStats struct {
	UserID          string   `gorm:"primaryKey;size:36"`
	ExerciseID      string   `gorm:"primaryKey;size:64"`
	Phase           string   `gorm:"size:16;not null;default:CALIBRATION"` // CALIBRATION, TRAINING, DELOAD
	NextLoad        *float64 // kg
	RepMin          int      `gorm:"not null"`
	RepMax          int      `gorm:"not null"`
	TargetRPE       float64  `gorm:"not null"`
	StagnationCount int      `gorm:"not null;default:0"`
	UpdatedAt       time.Time

	Exercise Exercise `gorm:"foreignKey:ExerciseID"`
}
