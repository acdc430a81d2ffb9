package db

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/liftwright/liftwright/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed seed/exercises.json
var defaultExerciseSeed []byte

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Exercise{},
		&models.UserExerciseStats{},
		&models.WeeklyPlan{},
		&models.WeeklyPlanDay{},
		&models.SessionPlan{},
		&models.SessionLog{},
		&models.SessionLogSet{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedExercises inserts the exercise catalog, skipping ids that already
// exist. An empty seedPath falls back to the embedded default catalog.
// Returns the number of entries in the seed file.
func SeedExercises(db *gorm.DB, seedPath string) (int, error) {
	data := defaultExerciseSeed
	if seedPath != "" {
		var err error
		data, err = os.ReadFile(seedPath)
		if err != nil {
			return 0, fmt.Errorf("db: read exercise seed %s: %w", seedPath, err)
		}
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(data, &exercises); err != nil {
		return 0, fmt.Errorf("db: parse exercise seed: %w", err)
	}

	for _, ex := range exercises {
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&ex)
		if result.Error != nil {
			return 0, fmt.Errorf("db: seed exercise %q: %w", ex.ID, result.Error)
		}
	}
	return len(exercises), nil
}
