package planner

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/liftwright/liftwright/internal/models"
	"github.com/liftwright/liftwright/internal/progression"
)

// LoggedSet is one performed set as reported by the client.
type LoggedSet struct {
	ExerciseID string
	SetNumber  int
	RepsDone   int
	LoadUsed   *float64
	RPE        *float64
}

// LogSubmission is a full session report.
type LogSubmission struct {
	UserID        string
	Date          time.Time
	SessionType   string
	SessionPlanID *string
	ReadinessJSON *string
	Notes         *string
	Sets          []LoggedSet
}

// IngestLog persists the session log, then runs every exercise's sets
// through the progression engine and upserts the resulting stats. Returns
// the new log id.
func (p *Planner) IngestLog(sub LogSubmission) (string, error) {
	if err := p.store.EnsureUser(sub.UserID, p.timezone); err != nil {
		return "", err
	}

	sessionLog := &models.SessionLog{
		ID:            uuid.NewString(),
		UserID:        sub.UserID,
		SessionPlanID: sub.SessionPlanID,
		Date:          sub.Date.Format(DateFormat),
		SessionType:   sub.SessionType,
		ReadinessJSON: sub.ReadinessJSON,
		Notes:         sub.Notes,
	}
	sets := make([]models.SessionLogSet, len(sub.Sets))
	for i, s := range sub.Sets {
		sets[i] = models.SessionLogSet{
			ID:         uuid.NewString(),
			ExerciseID: s.ExerciseID,
			SetNumber:  s.SetNumber,
			RepsDone:   s.RepsDone,
			LoadUsed:   s.LoadUsed,
			RPE:        s.RPE,
		}
	}

	if err := p.store.PutSessionLog(sessionLog, sets); err != nil {
		return "", err
	}

	for _, group := range groupByExercise(sets) {
		if err := p.updateStats(sub.UserID, group); err != nil {
			return "", err
		}
	}
	return sessionLog.ID, nil
}

// exerciseGroup is all of one exercise's sets within a single log.
type exerciseGroup struct {
	exerciseID string
	sets       []models.SessionLogSet
}

// groupByExercise splits a log's sets per exercise, preserving first-seen
// order so stats updates are deterministic.
func groupByExercise(sets []models.SessionLogSet) []exerciseGroup {
	index := make(map[string]int)
	var groups []exerciseGroup
	for _, s := range sets {
		i, ok := index[s.ExerciseID]
		if !ok {
			i = len(groups)
			index[s.ExerciseID] = i
			groups = append(groups, exerciseGroup{exerciseID: s.ExerciseID})
		}
		groups[i].sets = append(groups[i].sets, s)
	}
	return groups
}

// updateStats advances one exercise's stats from its logged sets. An
// exercise id with no catalog entry is skipped: orphaned log data must not
// fail the whole submission.
func (p *Planner) updateStats(userID string, group exerciseGroup) error {
	exercise, err := p.store.GetExercise(group.exerciseID)
	if err != nil {
		return err
	}
	if exercise == nil {
		log.Printf("planner: skipping stats update for unknown exercise %q (user %s)", group.exerciseID, userID)
		return nil
	}

	stats, err := p.store.GetStats(userID, group.exerciseID)
	if err != nil {
		return err
	}
	if stats == nil {
		// Logged without ever being planned; seed and advance in one go.
		seeded := seedStats(userID, *exercise)
		stats = &seeded
	}

	updated := progression.Advance(*stats, *exercise, group.sets)
	return p.store.PutStats(updated)
}
