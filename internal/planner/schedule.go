package planner

import (
	"time"

	"github.com/google/uuid"
	"github.com/liftwright/liftwright/internal/models"
)

// DateFormat is the wire and storage format for all planner dates.
const DateFormat = "2006-01-02"

// Training-split strategies and day labels.
const (
	StrategyULF2C  = "ULF_2C"
	StrategyFull3  = "FULL_3"
	StrategyUL4    = "UL_4"
	StrategyCustom = "CUSTOM"

	LabelRest = "REST"
)

// weekLabels maps each strategy to its Monday-first 7-day label sequence.
// Unknown strategies fall back to ULF_2C.
var weekLabels = map[string][7]string{
	StrategyFull3:  {"FULL", "REST", "FULL", "REST", "FULL", "REST", "REST"},
	StrategyUL4:    {"UPPER", "LOWER", "REST", "UPPER", "LOWER", "REST", "REST"},
	StrategyCustom: {"REST", "REST", "REST", "REST", "REST", "REST", "REST"},
	StrategyULF2C:  {"UPPER", "CARDIO", "LOWER", "REST", "FULL", "CARDIO", "REST"},
}

// WeekStart returns the Monday of the week containing ref.
func WeekStart(ref time.Time) time.Time {
	offset := (int(ref.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return ref.AddDate(0, 0, -offset)
}

// WeekLabelSequence returns the 7 day labels for a strategy, Monday first.
func WeekLabelSequence(strategy string) [7]string {
	if labels, ok := weekLabels[strategy]; ok {
		return labels
	}
	return weekLabels[StrategyULF2C]
}

// CreateWeeklyPlan builds and stores a weekly plan anchored to the Monday
// of the week containing ref. Creation is first-write-wins: if the user
// already has a plan for that week the existing plan is returned untouched.
func (p *Planner) CreateWeeklyPlan(userID string, ref time.Time, timezone, strategy string) (*models.WeeklyPlan, error) {
	if timezone == "" {
		timezone = p.timezone
	}
	if strategy == "" {
		strategy = p.strategy
	}

	if err := p.store.EnsureUser(userID, timezone); err != nil {
		return nil, err
	}

	weekStart := WeekStart(ref)
	plan := &models.WeeklyPlan{
		ID:            uuid.NewString(),
		UserID:        userID,
		WeekStartDate: weekStart.Format(DateFormat),
		Timezone:      timezone,
		Strategy:      strategy,
	}

	labels := WeekLabelSequence(strategy)
	days := make([]models.WeeklyPlanDay, len(labels))
	for i, label := range labels {
		days[i] = models.WeeklyPlanDay{
			Date:  weekStart.AddDate(0, 0, i).Format(DateFormat),
			Label: label,
		}
	}

	created, err := p.store.PutWeeklyPlan(plan, days)
	if err != nil {
		return nil, err
	}
	if !created {
		// Duplicate request; hand back the winner.
		return p.store.GetWeeklyPlan(userID, plan.WeekStartDate)
	}
	return p.store.GetWeeklyPlan(userID, plan.WeekStartDate)
}
