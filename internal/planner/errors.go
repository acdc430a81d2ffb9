package planner

import "errors"

// Caller-visible failures. Everything else the planner hits is either a
// storage error (propagated wrapped) or a documented silent fallback.
var (
	// ErrExerciseUnresolvable means a template slot's preferred exercise
	// and every substitution are missing from the catalog. The whole plan
	// build aborts; no plan is persisted.
	ErrExerciseUnresolvable = errors.New("planner: no catalog entry for slot exercise or any substitution")

	// ErrNoPlannedDay means the requested date is not covered by any
	// weekly plan for the user.
	ErrNoPlannedDay = errors.New("planner: no weekly plan covers this date")

	// ErrRestDay means the requested date resolved to a REST label; rest
	// days have no session plan.
	ErrRestDay = errors.New("planner: rest day has no session plan")
)
