package db

import (
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/liftwright/liftwright/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionPlanExists reports a losing insert on the session plan's
// (user_id, date, session_type) unique key. The caller re-reads the
// winner.
var ErrSessionPlanExists = errors.New("db: session plan already exists for this user, date, and session type")

// Store wraps a gorm handle with the accessors the planner needs. Absent
// rows come back as nil pointers, not errors; only real storage failures
// are returned.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on an open gorm handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// EnsureUser upserts a user row, refreshing the timezone.
func (s *Store) EnsureUser(id, timezone string) error {
	user := models.User{ID: id, Timezone: timezone}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timezone"}),
	}).Create(&user)
	if result.Error != nil {
		return fmt.Errorf("db: ensure user %s: %w", id, result.Error)
	}
	return nil
}

// GetExercise fetches one catalog entry, nil if absent.
func (s *Store) GetExercise(id string) (*models.Exercise, error) {
	var ex models.Exercise
	if err := s.db.Where("id = ?", id).First(&ex).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: get exercise %s: %w", id, err)
	}
	return &ex, nil
}

// ListExercises returns the whole catalog keyed by exercise id.
func (s *Store) ListExercises() (map[string]models.Exercise, error) {
	var exercises []models.Exercise
	if err := s.db.Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("db: list exercises: %w", err)
	}
	out := make(map[string]models.Exercise, len(exercises))
	for _, ex := range exercises {
		out[ex.ID] = ex
	}
	return out, nil
}

// GetStats fetches one user's stats for one exercise, nil if absent.
func (s *Store) GetStats(userID, exerciseID string) (*models.UserExerciseStats, error) {
	var stats models.UserExerciseStats
	err := s.db.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: get stats %s/%s: %w", userID, exerciseID, err)
	}
	return &stats, nil
}

// ListStats returns all of a user's per-exercise stats keyed by exercise id.
func (s *Store) ListStats(userID string) (map[string]models.UserExerciseStats, error) {
	var rows []models.UserExerciseStats
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("db: list stats for %s: %w", userID, err)
	}
	out := make(map[string]models.UserExerciseStats, len(rows))
	for _, row := range rows {
		out[row.ExerciseID] = row
	}
	return out, nil
}

// PutStats upserts stats on the (user_id, exercise_id) key, last writer
// wins. Concurrent log submissions for the same exercise may race; that is
// accepted.
func (s *Store) PutStats(stats models.UserExerciseStats) error {
	result := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"phase", "next_load", "rep_min", "rep_max", "target_rpe", "stagnation_count", "updated_at",
		}),
	}).Create(&stats)
	if result.Error != nil {
		return fmt.Errorf("db: put stats %s/%s: %w", stats.UserID, stats.ExerciseID, result.Error)
	}
	return nil
}

// GetSessionPlan fetches a stored plan by its natural key, nil if absent.
func (s *Store) GetSessionPlan(userID, date, sessionType string) (*models.SessionPlan, error) {
	var plan models.SessionPlan
	err := s.db.Where("user_id = ? AND date = ? AND session_type = ?", userID, date, sessionType).
		First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: get session plan %s/%s/%s: %w", userID, date, sessionType, err)
	}
	return &plan, nil
}

// PutSessionPlan inserts a plan. The unique (user_id, date, session_type)
// index rejects overwrites; a losing insert comes back as
// ErrSessionPlanExists.
func (s *Store) PutSessionPlan(plan *models.SessionPlan) error {
	if err := s.db.Create(plan).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSessionPlanExists
		}
		return fmt.Errorf("db: put session plan %s: %w", plan.ID, err)
	}
	return nil
}

// isDuplicateKey matches unique-constraint violations across drivers:
// gorm's translated error plus MySQL error 1062 for connections opened
// without error translation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// PlannedDay is the weekly-plan-day lookup result for one (user, date).
type PlannedDay struct {
	WeeklyPlanID string
	Timezone     string
	Strategy     string
	Label        string
}

// GetWeeklyPlanDay resolves the day label for a user and date via the
// weekly plan join, nil if the date is not covered by any weekly plan.
func (s *Store) GetWeeklyPlanDay(userID, date string) (*PlannedDay, error) {
	var day PlannedDay
	err := s.db.Model(&models.WeeklyPlanDay{}).
		Select("weekly_plans.id as weekly_plan_id, weekly_plans.timezone, weekly_plans.strategy, weekly_plan_days.label").
		Joins("JOIN weekly_plans ON weekly_plans.id = weekly_plan_days.weekly_plan_id").
		Where("weekly_plans.user_id = ? AND weekly_plan_days.date = ?", userID, date).
		First(&day).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: get weekly plan day %s/%s: %w", userID, date, err)
	}
	return &day, nil
}

// GetWeeklyPlan fetches a weekly plan with its days by (user, week start),
// nil if absent. Days come back date-ordered.
func (s *Store) GetWeeklyPlan(userID, weekStart string) (*models.WeeklyPlan, error) {
	var plan models.WeeklyPlan
	err := s.db.Preload("Days", func(db *gorm.DB) *gorm.DB {
		return db.Order("date ASC")
	}).Where("user_id = ? AND week_start_date = ?", userID, weekStart).First(&plan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("db: get weekly plan %s/%s: %w", userID, weekStart, err)
	}
	return &plan, nil
}

// PutWeeklyPlan inserts a weekly plan and its day rows, first write wins.
// When a plan already exists for the (user, week start) key the call is a
// no-op and created is false; no day rows are written for the losing id.
func (s *Store) PutWeeklyPlan(plan *models.WeeklyPlan, days []models.WeeklyPlanDay) (created bool, err error) {
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start_date"}},
		DoNothing: true,
	}).Create(plan)
	if result.Error != nil {
		return false, fmt.Errorf("db: put weekly plan %s: %w", plan.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	for i := range days {
		days[i].WeeklyPlanID = plan.ID
		result := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "weekly_plan_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&days[i])
		if result.Error != nil {
			return false, fmt.Errorf("db: put weekly plan day %s/%s: %w", plan.ID, days[i].Date, result.Error)
		}
	}
	return true, nil
}

// ListWeeklyPlansForWeek returns every user's plan for one week start date.
// The rollover job uses this to carry strategies into the next week.
func (s *Store) ListWeeklyPlansForWeek(weekStart string) ([]models.WeeklyPlan, error) {
	var plans []models.WeeklyPlan
	if err := s.db.Where("week_start_date = ?", weekStart).Order("user_id ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("db: list weekly plans for %s: %w", weekStart, err)
	}
	return plans, nil
}

// PutSessionLog appends a log and its sets. Logs are never updated.
func (s *Store) PutSessionLog(sessionLog *models.SessionLog, sets []models.SessionLogSet) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sessionLog).Error; err != nil {
			return fmt.Errorf("db: put session log %s: %w", sessionLog.ID, err)
		}
		for i := range sets {
			sets[i].SessionLogID = sessionLog.ID
			if err := tx.Create(&sets[i]).Error; err != nil {
				return fmt.Errorf("db: put session log set %s/%d: %w", sets[i].ExerciseID, sets[i].SetNumber, err)
			}
		}
		return nil
	})
}
