package planner

import (
	"log"
	"time"
)

// RolloverWeek creates the current week's plan for every user who had one
// the previous week, carrying each user's strategy and timezone forward.
// First-write-wins creation makes repeated runs harmless, so the cron can
// fire more than once per week. Returns how many plans were newly created.
func (p *Planner) RolloverWeek(ref time.Time) (int, error) {
	weekStart := WeekStart(ref)
	prevStart := weekStart.AddDate(0, 0, -7).Format(DateFormat)

	prev, err := p.store.ListWeeklyPlansForWeek(prevStart)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, old := range prev {
		existing, err := p.store.GetWeeklyPlan(old.UserID, weekStart.Format(DateFormat))
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if _, err := p.CreateWeeklyPlan(old.UserID, weekStart, old.Timezone, old.Strategy); err != nil {
			return created, err
		}
		created++
		log.Printf("planner: rolled weekly plan forward for user %s (%s)", old.UserID, old.Strategy)
	}
	return created, nil
}
