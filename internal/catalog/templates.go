// Package catalog provides the session template library: the ordered
// exercise slots and warmup work for each session type. Templates are
// static data; the planner resolves them against the exercise catalog and
// per-user stats at plan time.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtinTemplates []byte

// Slot is a template's placeholder for one exercise within a session.
type Slot struct {
	PreferredExerciseID string   `yaml:"exercise" json:"preferred_exercise_id"`
	Substitutions       []string `yaml:"substitutions" json:"substitutions"`
	Sets                int      `yaml:"sets" json:"sets"`
	RestSeconds         int      `yaml:"rest_seconds" json:"rest_seconds"`
	Category            string   `yaml:"category" json:"category"` // COMPOUND, ACCESSORY, CORE, CONDITIONING
}

// WarmupItem is one warmup entry carried verbatim into session plans.
type WarmupItem struct {
	Kind            string `yaml:"kind" json:"kind"` // GENERAL or SPECIFIC
	Text            string `yaml:"text" json:"text"`
	DurationSeconds *int   `yaml:"duration_seconds" json:"duration_seconds,omitempty"`
}

// Template is the full slot list and warmup for one session type.
type Template struct {
	Warmup    []WarmupItem `yaml:"warmup"`
	Exercises []Slot       `yaml:"exercises"`
}

// Library holds templates keyed by lowercased session type.
type Library struct {
	templates map[string]Template
}

// Builtin returns the embedded default template library.
func Builtin() (*Library, error) {
	lib, err := parse(builtinTemplates)
	if err != nil {
		return nil, fmt.Errorf("catalog: embedded templates: %w", err)
	}
	return lib, nil
}

// Load reads a template library from a YAML file, replacing the builtins.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read templates %s: %w", path, err)
	}
	lib, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse templates %s: %w", path, err)
	}
	return lib, nil
}

func parse(data []byte) (*Library, error) {
	var raw map[string]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	templates := make(map[string]Template, len(raw))
	for key, tpl := range raw {
		if len(tpl.Exercises) == 0 {
			return nil, fmt.Errorf("template %q has no exercise slots", key)
		}
		for i, slot := range tpl.Exercises {
			if slot.PreferredExerciseID == "" {
				return nil, fmt.Errorf("template %q slot %d has no exercise", key, i)
			}
			if slot.Sets <= 0 {
				return nil, fmt.Errorf("template %q slot %d has no set count", key, i)
			}
		}
		templates[strings.ToLower(key)] = tpl
	}
	return &Library{templates: templates}, nil
}

// Get returns the template for a session type, matching case-insensitively.
func (l *Library) Get(sessionType string) (Template, bool) {
	tpl, ok := l.templates[strings.ToLower(sessionType)]
	return tpl, ok
}

// SessionTypes lists the session types the library can plan.
func (l *Library) SessionTypes() []string {
	types := make([]string, 0, len(l.templates))
	for key := range l.templates {
		types = append(types, strings.ToUpper(key))
	}
	return types
}
