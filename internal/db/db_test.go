package db

import (
	"errors"
	"strings"
	"testing"

	"github.com/liftwright/liftwright/internal/config"
	"github.com/liftwright/liftwright/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(gdb)
}

func fp(v float64) *float64 { return &v }

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DatabaseConfig
		want string
	}{
		{
			name: "default local",
			cfg:  config.DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root", Database: "liftwright"},
			want: "root@tcp(127.0.0.1:3306)/liftwright?parseTime=true",
		},
		{
			name: "custom host and port",
			cfg:  config.DatabaseConfig{Host: "10.0.0.5", Port: 3307, User: "lw", Database: "liftwright_prod"},
			want: "lw@tcp(10.0.0.5:3307)/liftwright_prod?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(tt.cfg)
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnect_Error(t *testing.T) {
	// Port 1 is unlikely to have a MySQL server; expect connection error.
	cfg := config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "root", Database: "nonexistent"}
	_, err := Connect(cfg)
	if err == nil {
		t.Fatal("expected error connecting to invalid port")
	}
	if !strings.Contains(err.Error(), "db: connect to") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db: connect to")
	}
}

func TestConnectAdmin_Error(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "127.0.0.1", Port: 1, User: "root"}
	_, err := ConnectAdmin(cfg)
	if err == nil {
		t.Fatal("expected error connecting to invalid port")
	}
	if !strings.Contains(err.Error(), "db: admin connect to") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "db: admin connect to")
	}
}

func TestAllModels_Count(t *testing.T) {
	if got := len(AllModels()); got != 8 {
		t.Errorf("AllModels() returned %d models, want 8", got)
	}
}

func TestSeedExercises_Idempotent(t *testing.T) {
	store := testStore(t)

	first, err := SeedExercises(store.DB(), "")
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if first == 0 {
		t.Fatal("embedded seed is empty")
	}

	second, err := SeedExercises(store.DB(), "")
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if second != first {
		t.Errorf("second seed counted %d entries, want %d", second, first)
	}

	var count int64
	if err := store.DB().Model(&models.Exercise{}).Count(&count).Error; err != nil {
		t.Fatalf("count exercises: %v", err)
	}
	if int(count) != first {
		t.Errorf("catalog has %d rows after double seed, want %d", count, first)
	}
}

func TestSeedExercises_MissingPath(t *testing.T) {
	store := testStore(t)
	_, err := SeedExercises(store.DB(), "/nonexistent/exercises.json")
	if err == nil {
		t.Fatal("expected error for missing seed file")
	}
}

func TestEnsureUser_RefreshesTimezone(t *testing.T) {
	store := testStore(t)

	if err := store.EnsureUser("alice", "UTC"); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := store.EnsureUser("alice", "Europe/Berlin"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	var user models.User
	if err := store.DB().First(&user, "id = ?", "alice").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Timezone != "Europe/Berlin" {
		t.Errorf("timezone = %q, want Europe/Berlin", user.Timezone)
	}

	var count int64
	store.DB().Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user rows = %d, want 1", count)
	}
}

func TestGetExercise_AbsentIsNil(t *testing.T) {
	store := testStore(t)
	ex, err := store.GetExercise("no_such_exercise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex != nil {
		t.Errorf("got %+v, want nil for absent exercise", ex)
	}
}

func TestPutStats_UpsertsOnCompositeKey(t *testing.T) {
	store := testStore(t)

	stats := models.UserExerciseStats{
		UserID:     "alice",
		ExerciseID: "bench_press",
		Phase:      "CALIBRATION",
		RepMin:     5,
		RepMax:     8,
		TargetRPE:  8.0,
	}
	if err := store.PutStats(stats); err != nil {
		t.Fatalf("first put: %v", err)
	}

	stats.Phase = "TRAINING"
	stats.NextLoad = fp(80.0)
	stats.StagnationCount = 2
	if err := store.PutStats(stats); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := store.GetStats("alice", "bench_press")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if got == nil {
		t.Fatal("stats not found after upsert")
	}
	if got.Phase != "TRAINING" || got.NextLoad == nil || *got.NextLoad != 80.0 || got.StagnationCount != 2 {
		t.Errorf("stats = %+v, want TRAINING/80.0/stagnation 2", got)
	}

	var count int64
	store.DB().Model(&models.UserExerciseStats{}).Count(&count)
	if count != 1 {
		t.Errorf("stats rows = %d, want 1", count)
	}
}

func TestGetStats_ScopedToUser(t *testing.T) {
	store := testStore(t)

	if err := store.PutStats(models.UserExerciseStats{
		UserID: "alice", ExerciseID: "bench_press", Phase: "TRAINING", RepMin: 5, RepMax: 8, TargetRPE: 8.0,
	}); err != nil {
		t.Fatalf("put stats: %v", err)
	}

	got, err := store.GetStats("bob", "bench_press")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("bob sees alice's stats: %+v", got)
	}
}

func TestPutSessionPlan_RejectsDuplicateKey(t *testing.T) {
	store := testStore(t)

	plan := models.SessionPlan{
		ID: "p1", UserID: "alice", Date: "2025-06-02", SessionType: "upper",
		Timezone: "UTC", Phase: "TRAINING", PlanJSON: `{"id":"p1"}`,
	}
	if err := store.PutSessionPlan(&plan); err != nil {
		t.Fatalf("first put: %v", err)
	}

	dupe := models.SessionPlan{
		ID: "p2", UserID: "alice", Date: "2025-06-02", SessionType: "upper",
		Timezone: "UTC", Phase: "TRAINING", PlanJSON: `{"id":"p2"}`,
	}
	err := store.PutSessionPlan(&dupe)
	if !errors.Is(err, ErrSessionPlanExists) {
		t.Fatalf("err = %v, want ErrSessionPlanExists for duplicate (user, date, type)", err)
	}

	got, err := store.GetSessionPlan("alice", "2025-06-02", "upper")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if got == nil || got.ID != "p1" {
		t.Errorf("stored plan = %+v, want original p1", got)
	}
}

func weekDays(planID string, labels [7]string) []models.WeeklyPlanDay {
	dates := [7]string{
		"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05",
		"2025-06-06", "2025-06-07", "2025-06-08",
	}
	days := make([]models.WeeklyPlanDay, 7)
	for i := range days {
		days[i] = models.WeeklyPlanDay{WeeklyPlanID: planID, Date: dates[i], Label: labels[i]}
	}
	return days
}

func TestPutWeeklyPlan_FirstWriteWins(t *testing.T) {
	store := testStore(t)
	labels := [7]string{"UPPER", "LOWER", "REST", "FULL", "REST", "CARDIO", "REST"}

	first := models.WeeklyPlan{
		ID: "w1", UserID: "alice", WeekStartDate: "2025-06-02", Timezone: "UTC", Strategy: "ULF_2C",
	}
	created, err := store.PutWeeklyPlan(&first, weekDays("w1", labels))
	if err != nil {
		t.Fatalf("first put: %v", err)
	}
	if !created {
		t.Fatal("first put reported created=false")
	}

	second := models.WeeklyPlan{
		ID: "w2", UserID: "alice", WeekStartDate: "2025-06-02", Timezone: "UTC", Strategy: "UL_4",
	}
	created, err = store.PutWeeklyPlan(&second, weekDays("w2", labels))
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if created {
		t.Error("second put for same (user, week) reported created=true")
	}

	// The losing plan must leave no day rows behind.
	var dayCount int64
	store.DB().Model(&models.WeeklyPlanDay{}).Count(&dayCount)
	if dayCount != 7 {
		t.Errorf("day rows = %d, want 7", dayCount)
	}

	got, err := store.GetWeeklyPlan("alice", "2025-06-02")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if got == nil || got.ID != "w1" || got.Strategy != "ULF_2C" {
		t.Errorf("stored plan = %+v, want w1/ULF_2C", got)
	}
	if len(got.Days) != 7 {
		t.Fatalf("preloaded %d days, want 7", len(got.Days))
	}
	if got.Days[0].Date != "2025-06-02" || got.Days[6].Date != "2025-06-08" {
		t.Errorf("days not date-ordered: first %s last %s", got.Days[0].Date, got.Days[6].Date)
	}
}

func TestGetWeeklyPlanDay_JoinsPlanFields(t *testing.T) {
	store := testStore(t)
	labels := [7]string{"UPPER", "LOWER", "REST", "FULL", "REST", "CARDIO", "REST"}

	plan := models.WeeklyPlan{
		ID: "w1", UserID: "alice", WeekStartDate: "2025-06-02", Timezone: "Europe/Berlin", Strategy: "ULF_2C",
	}
	if _, err := store.PutWeeklyPlan(&plan, weekDays("w1", labels)); err != nil {
		t.Fatalf("put plan: %v", err)
	}

	day, err := store.GetWeeklyPlanDay("alice", "2025-06-05")
	if err != nil {
		t.Fatalf("get day: %v", err)
	}
	if day == nil {
		t.Fatal("planned day not found")
	}
	if day.Label != "FULL" || day.Strategy != "ULF_2C" || day.Timezone != "Europe/Berlin" || day.WeeklyPlanID != "w1" {
		t.Errorf("day = %+v, want FULL/ULF_2C/Europe/Berlin/w1", day)
	}

	// Dates outside any plan and other users resolve to nil.
	if day, _ := store.GetWeeklyPlanDay("alice", "2025-06-09"); day != nil {
		t.Errorf("uncovered date resolved to %+v", day)
	}
	if day, _ := store.GetWeeklyPlanDay("bob", "2025-06-05"); day != nil {
		t.Errorf("other user resolved to %+v", day)
	}
}

func TestListWeeklyPlansForWeek(t *testing.T) {
	store := testStore(t)
	labels := [7]string{"UPPER", "LOWER", "REST", "FULL", "REST", "CARDIO", "REST"}

	for i, user := range []string{"carol", "alice", "bob"} {
		plan := models.WeeklyPlan{
			ID: "w" + user, UserID: user, WeekStartDate: "2025-06-02", Strategy: "ULF_2C",
		}
		if _, err := store.PutWeeklyPlan(&plan, weekDays(plan.ID, labels)); err != nil {
			t.Fatalf("put plan %d: %v", i, err)
		}
	}
	other := models.WeeklyPlan{ID: "wother", UserID: "alice", WeekStartDate: "2025-06-09", Strategy: "ULF_2C"}
	if _, err := store.PutWeeklyPlan(&other, nil); err != nil {
		t.Fatalf("put other week: %v", err)
	}

	plans, err := store.ListWeeklyPlansForWeek("2025-06-02")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(plans) != 3 {
		t.Fatalf("got %d plans, want 3", len(plans))
	}
	for i, want := range []string{"alice", "bob", "carol"} {
		if plans[i].UserID != want {
			t.Errorf("plans[%d].UserID = %q, want %q", i, plans[i].UserID, want)
		}
	}
}

func TestPutSessionLog_WritesLogAndSets(t *testing.T) {
	store := testStore(t)

	readiness := `{"sleep":4}`
	log := models.SessionLog{
		ID: "l1", UserID: "alice", Date: "2025-06-02", SessionType: "upper",
		ReadinessJSON: &readiness,
	}
	sets := []models.SessionLogSet{
		{ID: "s1", ExerciseID: "bench_press", SetNumber: 1, RepsDone: 8, LoadUsed: fp(60.0), RPE: fp(7.5)},
		{ID: "s2", ExerciseID: "bench_press", SetNumber: 2, RepsDone: 6, LoadUsed: fp(60.0)},
	}
	if err := store.PutSessionLog(&log, sets); err != nil {
		t.Fatalf("put log: %v", err)
	}

	var got models.SessionLog
	err := store.DB().Preload("Sets").First(&got, "id = ?", "l1").Error
	if err != nil {
		t.Fatalf("load log: %v", err)
	}
	if len(got.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(got.Sets))
	}
	for _, set := range got.Sets {
		if set.SessionLogID != "l1" {
			t.Errorf("set %s has SessionLogID %q, want l1", set.ID, set.SessionLogID)
		}
	}
	if got.ReadinessJSON == nil || *got.ReadinessJSON != readiness {
		t.Errorf("readiness = %v, want %q", got.ReadinessJSON, readiness)
	}
}
