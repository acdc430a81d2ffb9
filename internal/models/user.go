package models

import "time"

// User is an athlete the planner prescribes for. Rows are created on first
// contact (weekly-plan creation or log submission); there is no signup flow.
type User struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Timezone  string    `gorm:"size:64;default:UTC"`
	CreatedAt time.Time
}
