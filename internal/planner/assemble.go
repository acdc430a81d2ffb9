// Package planner assembles session and weekly plans and feeds logged
// sessions back through the progression engine. It owns all the decision
// logic between the HTTP layer and storage.
package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liftwright/liftwright/internal/catalog"
	"github.com/liftwright/liftwright/internal/db"
	"github.com/liftwright/liftwright/internal/models"
	"github.com/liftwright/liftwright/internal/progression"
)

// SessionTypeCardio gets a synthetic exercise instead of slot resolution.
const SessionTypeCardio = "CARDIO"

// calibrationSetCap limits how many sets a calibration session probes with.
const calibrationSetCap = 2

const calibrationNote = "Pick a load you can do at ~RPE 6-7"

// Planner holds the collaborators the core needs. Construct one at startup
// and share it; it keeps no per-request state.
type Planner struct {
	store     *db.Store
	templates *catalog.Library
	timezone  string
	strategy  string
	now       func() time.Time
}

// Options tunes planner defaults.
type Options struct {
	Timezone        string // default timezone for new users and plans
	DefaultStrategy string // strategy when a weekly-plan request omits one
	Now             func() time.Time
}

// New creates a Planner over a store and template library.
func New(store *db.Store, templates *catalog.Library, opts Options) *Planner {
	if opts.Timezone == "" {
		opts.Timezone = "UTC"
	}
	if opts.DefaultStrategy == "" {
		opts.DefaultStrategy = StrategyULF2C
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Planner{
		store:     store,
		templates: templates,
		timezone:  opts.Timezone,
		strategy:  opts.DefaultStrategy,
		now:       opts.Now,
	}
}

// cardioExercise is the synthetic exercise substituted into every CARDIO
// slot. It never touches the catalog or the stats table.
func cardioExercise() models.Exercise {
	return models.Exercise{
		ID:               "cardio_generic",
		Name:             "Cardio Session",
		Pattern:          "CARDIO",
		Equipment:        "CARDIO",
		DefaultRepMin:    1,
		DefaultRepMax:    1,
		DefaultTargetRPE: 6.0,
		StepUpPct:        0.0,
		RoundingStep:     0.0,
	}
}

// SessionPlanForDate resolves the day's label from the user's weekly plan
// and returns the session plan for it, building and persisting one on
// first request. Returns ErrNoPlannedDay when no weekly plan covers the
// date and ErrRestDay when the label is REST.
func (p *Planner) SessionPlanForDate(userID string, date time.Time) (*models.SessionPlan, error) {
	dateStr := date.Format(DateFormat)

	day, err := p.store.GetWeeklyPlanDay(userID, dateStr)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPlannedDay, dateStr)
	}
	if day.Label == LabelRest {
		return nil, fmt.Errorf("%w: %s", ErrRestDay, dateStr)
	}

	// Idempotent creation: an existing plan is returned verbatim with no
	// further writes, not even stats re-seeding.
	existing, err := p.store.GetSessionPlan(userID, dateStr, day.Label)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	plan, err := p.buildSessionPlan(userID, dateStr, day.Label, day.Timezone)
	if err != nil {
		return nil, err
	}
	if err := p.store.PutSessionPlan(plan); err != nil {
		if errors.Is(err, db.ErrSessionPlanExists) {
			// Lost a concurrent build race; the winner's plan is canonical.
			return p.store.GetSessionPlan(userID, dateStr, day.Label)
		}
		return nil, err
	}
	return plan, nil
}

// buildSessionPlan assembles a plan document from the template, the
// catalog, and the user's current stats, seeding stats for exercises seen
// for the first time.
func (p *Planner) buildSessionPlan(userID, date, sessionType, timezone string) (*models.SessionPlan, error) {
	tpl, ok := p.templates.Get(sessionType)
	if !ok {
		return nil, fmt.Errorf("planner: no template for session type %q", sessionType)
	}

	exercises, err := p.store.ListExercises()
	if err != nil {
		return nil, err
	}
	statsMap, err := p.store.ListStats(userID)
	if err != nil {
		return nil, err
	}

	items := make([]SessionItem, 0, len(tpl.Exercises))
	for i, slot := range tpl.Exercises {
		exercise, err := p.resolveSlot(sessionType, slot, exercises)
		if err != nil {
			return nil, err
		}

		stats, seen := statsMap[exercise.ID]
		if !seen {
			stats = seedStats(userID, exercise)
			if sessionType != SessionTypeCardio {
				if err := p.store.PutStats(stats); err != nil {
					return nil, err
				}
			}
			statsMap[exercise.ID] = stats
		}

		items = append(items, SessionItem{
			Order:         i + 1,
			ExerciseID:    exercise.ID,
			Name:          exercise.Name,
			Category:      slot.Category,
			Equipment:     exercise.Equipment,
			Substitutions: substitutions(slot),
			Prescription:  prescribe(slot, stats, exercise),
		})
	}

	doc := PlanDocument{
		ID:          uuid.NewString(),
		UserID:      userID,
		Date:        date,
		Timezone:    timezone,
		SessionType: sessionType,
		Phase:       planPhase(sessionType, items, statsMap),
		Warmup:      warmup(tpl),
		Items:       items,
		CreatedAt:   p.now().UTC().Format(time.RFC3339),
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("planner: marshal plan %s: %w", doc.ID, err)
	}

	return &models.SessionPlan{
		ID:          doc.ID,
		UserID:      userID,
		Date:        date,
		SessionType: sessionType,
		Timezone:    timezone,
		Phase:       doc.Phase,
		PlanJSON:    string(raw),
	}, nil
}

// resolveSlot picks the concrete exercise for a slot: the synthetic cardio
// exercise for CARDIO sessions, otherwise the preferred id then each
// substitution in listed order.
func (p *Planner) resolveSlot(sessionType string, slot catalog.Slot, exercises map[string]models.Exercise) (models.Exercise, error) {
	if sessionType == SessionTypeCardio {
		return cardioExercise(), nil
	}
	if ex, ok := exercises[slot.PreferredExerciseID]; ok {
		return ex, nil
	}
	for _, sub := range slot.Substitutions {
		if ex, ok := exercises[sub]; ok {
			return ex, nil
		}
	}
	return models.Exercise{}, fmt.Errorf("%w: %s", ErrExerciseUnresolvable, slot.PreferredExerciseID)
}

// seedStats creates first-contact stats from the exercise defaults.
func seedStats(userID string, ex models.Exercise) models.UserExerciseStats {
	return models.UserExerciseStats{
		UserID:          userID,
		ExerciseID:      ex.ID,
		Phase:           progression.PhaseCalibration,
		NextLoad:        nil,
		RepMin:          ex.DefaultRepMin,
		RepMax:          ex.DefaultRepMax,
		TargetRPE:       ex.DefaultTargetRPE,
		StagnationCount: 0,
	}
}

// prescribe emits the set list for one slot. Calibration sessions probe
// with at most two sets, no load suggestion, and a self-select note.
func prescribe(slot catalog.Slot, stats models.UserExerciseStats, ex models.Exercise) Prescription {
	setCount := slot.Sets
	calibrating := stats.Phase == progression.PhaseCalibration
	if calibrating && setCount > calibrationSetCap {
		setCount = calibrationSetCap
	}

	var suggestion *LoadSuggestion
	if !calibrating && stats.NextLoad != nil {
		suggestion = &LoadSuggestion{
			Kind:         "KG",
			Value:        *stats.NextLoad,
			Unit:         "kg",
			RoundingStep: ex.RoundingStep,
		}
	}

	sets := make([]PrescriptionSet, setCount)
	for i := range sets {
		sets[i] = PrescriptionSet{
			SetNumber:      i + 1,
			TargetRepsMin:  stats.RepMin,
			TargetRepsMax:  stats.RepMax,
			TargetRPE:      stats.TargetRPE,
			RestSeconds:    slot.RestSeconds,
			LoadSuggestion: suggestion,
		}
		if calibrating {
			note := calibrationNote
			sets[i].Notes = &note
		}
	}
	return Prescription{Sets: sets}
}

// planPhase derives the single session-level phase badge: CARDIO sessions
// are always TRAINING; otherwise DELOAD beats CALIBRATION beats TRAINING.
func planPhase(sessionType string, items []SessionItem, statsMap map[string]models.UserExerciseStats) string {
	if sessionType == SessionTypeCardio {
		return progression.PhaseTraining
	}
	phase := progression.PhaseTraining
	for _, item := range items {
		stats, ok := statsMap[item.ExerciseID]
		if !ok {
			stats = models.UserExerciseStats{Phase: progression.PhaseCalibration}
		}
		switch stats.Phase {
		case progression.PhaseDeload:
			return progression.PhaseDeload
		case progression.PhaseCalibration:
			phase = progression.PhaseCalibration
		}
	}
	return phase
}

// warmup normalizes a template's warmup list for the plan document.
func warmup(tpl catalog.Template) []catalog.WarmupItem {
	if tpl.Warmup == nil {
		return []catalog.WarmupItem{}
	}
	return tpl.Warmup
}

// substitutions normalizes a slot's substitution list for the document.
func substitutions(slot catalog.Slot) []string {
	if slot.Substitutions == nil {
		return []string{}
	}
	return slot.Substitutions
}
