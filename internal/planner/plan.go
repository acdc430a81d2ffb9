package planner

import (
	"github.com/liftwright/liftwright/internal/catalog"
)

// PlanDocument is the full session plan as served to clients. It is
// marshaled once at build time into SessionPlan.PlanJSON and returned
// verbatim on every subsequent request, so repeat reads are byte-identical.
type PlanDocument struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	Date        string               `json:"date"`
	Timezone    string               `json:"timezone"`
	SessionType string               `json:"session_type"`
	Phase       string               `json:"phase"`
	Warmup      []catalog.WarmupItem `json:"warmup"`
	Items       []SessionItem        `json:"items"`
	CreatedAt   string               `json:"created_at"`
}

// SessionItem is one exercise within a session plan.
type SessionItem struct {
	Order         int          `json:"order"` // 1-based, template slot order
	ExerciseID    string       `json:"exercise_id"`
	Name          string       `json:"name"`
	Category      string       `json:"category"`
	Equipment     string       `json:"equipment,omitempty"`
	Substitutions []string     `json:"substitutions"`
	Prescription  Prescription `json:"prescription"`
}

// Prescription is the ordered set list for one exercise.
type Prescription struct {
	Sets []PrescriptionSet `json:"sets"`
}

// PrescriptionSet is one prescribed set.
type PrescriptionSet struct {
	SetNumber      int             `json:"set_number"` // 1-based
	TargetRepsMin  int             `json:"target_reps_min"`
	TargetRepsMax  int             `json:"target_reps_max"`
	TargetRPE      float64         `json:"target_rpe"`
	RestSeconds    int             `json:"rest_seconds"`
	LoadSuggestion *LoadSuggestion `json:"load_suggestion"`
	Notes          *string         `json:"notes"`
}

// LoadSuggestion carries the engine's suggested load for a set. Absent
// during CALIBRATION, when the athlete self-selects.
type LoadSuggestion struct {
	Kind         string  `json:"kind"` // KG
	Value        float64 `json:"value"`
	Unit         string  `json:"unit"`
	RoundingStep float64 `json:"rounding_step"`
}
