package planner

import (
	"testing"
	"time"

	"github.com/liftwright/liftwright/internal/catalog"
	"github.com/liftwright/liftwright/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testClock is the fixed "now" all planner tests run at: a Wednesday.
var testClock = time.Date(2025, 6, 4, 10, 0, 0, 0, time.UTC)

// testDB creates an in-memory SQLite database with all tables migrated and
// the embedded exercise catalog seeded.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if _, err := db.SeedExercises(gdb, ""); err != nil {
		t.Fatalf("seed test db: %v", err)
	}
	return gdb
}

// testPlanner wires a Planner over a fresh test database and the builtin
// template library, with a fixed clock.
func testPlanner(t *testing.T) (*Planner, *db.Store) {
	t.Helper()
	store := db.NewStore(testDB(t))
	lib, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("builtin templates: %v", err)
	}
	p := New(store, lib, Options{
		Timezone: "UTC",
		Now:      func() time.Time { return testClock },
	})
	return p, store
}

func fp(v float64) *float64 { return &v }
