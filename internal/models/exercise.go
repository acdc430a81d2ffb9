package models

// Exercise is one catalog entry: immutable defaults the progression engine
// seeds per-user stats from. Seeded at db init from JSON, never written by
// the engine; the json tags match the seed-file format.
type Exercise struct {
	ID               string  `gorm:"primaryKey;size:64" json:"id"`
	Name             string  `gorm:"size:128;not null" json:"name"`
	Pattern          string  `gorm:"size:32" json:"pattern"`     // SQUAT, HINGE, PUSH_H, PULL_V, CARDIO, ...
	Equipment        string  `gorm:"size:32" json:"equipment"`   // BARBELL, DUMBBELL, MACHINE, BODYWEIGHT, ...
	DefaultRepMin    int     `gorm:"not null" json:"default_rep_min"`
	DefaultRepMax    int     `gorm:"not null" json:"default_rep_max"`
	DefaultTargetRPE float64 `gorm:"not null" json:"default_target_rpe"`
	StepUpPct        float64 `json:"step_up_pct"`   // fractional load increase on a progress transition
	RoundingStep     float64 `json:"rounding_step"` // smallest load increment; 0 = no rounding
}
