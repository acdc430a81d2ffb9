package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/liftwright/liftwright/internal/config"
	"github.com/robfig/cron/v3"
)

func TestRolloverSchedule_Parses(t *testing.T) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(rolloverSchedule); err != nil {
		t.Fatalf("rollover schedule %q does not parse: %v", rolloverSchedule, err)
	}
}

func TestLoadTemplates_Builtin(t *testing.T) {
	lib, err := loadTemplates(config.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := lib.Get("upper"); !ok {
		t.Error("builtin library missing upper template")
	}
}

func TestLoadTemplates_Override(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.yaml")
	yaml := `
full:
  exercises:
    - exercise: back_squat
      sets: 5
      rest_seconds: 120
      category: COMPOUND
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write templates: %v", err)
	}

	cfg := config.Default()
	cfg.Seed.TemplatesPath = path
	lib, err := loadTemplates(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tpl, ok := lib.Get("full")
	if !ok {
		t.Fatal("override library missing full template")
	}
	if tpl.Exercises[0].Sets != 5 {
		t.Errorf("sets = %d, want 5 from override", tpl.Exercises[0].Sets)
	}
}
