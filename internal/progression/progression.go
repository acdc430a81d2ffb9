// Package progression implements the per-(user, exercise) phase state
// machine and load-adjustment rules. Everything here is a pure function of
// the current stats, the logged sets, and the exercise defaults; persistence
// belongs to the caller.
package progression

import (
	"math"
	"sort"

	"github.com/liftwright/liftwright/internal/models"
)

// Phase values for UserExerciseStats.Phase.
const (
	PhaseCalibration = "CALIBRATION"
	PhaseTraining    = "TRAINING"
	PhaseDeload      = "DELOAD"
)

// Tuning constants for the adjustment rules.
const (
	// DeloadThreshold is the stagnation count at which a plateau or
	// overreach update flips the phase to DELOAD.
	DeloadThreshold = 6

	trainingMaxPct  = 0.90 // training max as a fraction of e1RM
	startingLoadPct = 0.70 // first suggested load as a fraction of training max
	regressionPct   = 0.90 // load multiplier when rep minimums are missed
	deloadCutPct    = 0.90 // load multiplier applied on entering or leaving DELOAD
	overreachMargin = 1.0  // avg RPE this far above target counts as overreaching
	progressMargin  = 0.5  // avg RPE must be within this of target to progress
)

// RoundToStep snaps value to the nearest multiple of step, half-to-even,
// then trims to 2 decimal places. A step of zero or less means the
// equipment has no fixed increment; the raw value is just trimmed.
func RoundToStep(value, step float64) float64 {
	if step <= 0 {
		return round2(value)
	}
	return round2(math.RoundToEven(value/step) * step)
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// EstimateE1RM computes the Epley one-rep-max estimate for one set.
func EstimateE1RM(load float64, reps int) float64 {
	return load * (1 + float64(reps)/30)
}

// StartingLoad derives the first TRAINING-phase load suggestion from the
// best calibration set: 70% of a training max taken at 90% of e1RM.
func StartingLoad(bestLoad float64, bestReps int) float64 {
	return startingLoadPct * (trainingMaxPct * EstimateE1RM(bestLoad, bestReps))
}

// Advance runs one progression update: given the stats as they stood before
// the session and the sets logged for this exercise, it returns the new
// stats. The input is never mutated.
func Advance(stats models.UserExerciseStats, ex models.Exercise, sets []models.SessionLogSet) models.UserExerciseStats {
	switch stats.Phase {
	case PhaseDeload:
		// A deload session's log closes out the deload; set contents are
		// not examined.
		out := stats
		if out.NextLoad != nil {
			out.NextLoad = roundedPtr(*out.NextLoad*deloadCutPct, ex.RoundingStep)
		}
		out.Phase = PhaseTraining
		out.StagnationCount = 0
		return out

	case PhaseCalibration:
		out := stats
		if best := bestLoadedSet(sets); best != nil {
			out.NextLoad = roundedPtr(StartingLoad(*best.LoadUsed, best.RepsDone), ex.RoundingStep)
		}
		out.Phase = PhaseTraining
		out.StagnationCount = 0
		return out

	default:
		out := advanceTraining(stats, ex, sets)
		if out.Phase == PhaseDeload && out.NextLoad != nil {
			// Entering DELOAD carries an immediate load cut on top of the
			// phase flag.
			out.NextLoad = roundedPtr(*out.NextLoad*deloadCutPct, ex.RoundingStep)
		}
		return out
	}
}

// advanceTraining applies the TRAINING-phase rules in priority order:
// regression, overreach, progress, plateau.
func advanceTraining(stats models.UserExerciseStats, ex models.Exercise, sets []models.SessionLogSet) models.UserExerciseStats {
	candidate := candidateLoad(stats, sets)

	allAtOrAboveMin := true
	allAtMax := true
	for _, s := range sets {
		if s.RepsDone < stats.RepMin {
			allAtOrAboveMin = false
		}
		if s.RepsDone < stats.RepMax {
			allAtMax = false
		}
	}

	avgRPE := averageRPE(sets)

	out := stats
	out.Phase = PhaseTraining

	if !allAtOrAboveMin {
		// Regression: missed reps cut the load but do not count toward
		// deload.
		out.NextLoad = roundedPtr(candidate*regressionPct, ex.RoundingStep)
		out.StagnationCount = 0
		return out
	}

	if avgRPE != nil && *avgRPE >= stats.TargetRPE+overreachMargin {
		// Overreach: effort is too high to add load; hold and count it.
		return holdCandidate(out, candidate, ex.RoundingStep)
	}

	if allAtMax && (avgRPE == nil || *avgRPE <= stats.TargetRPE+progressMargin) {
		out.NextLoad = roundedPtr(candidate*(1+ex.StepUpPct), ex.RoundingStep)
		out.StagnationCount = 0
		return out
	}

	// Plateau. Deliberately the same effect as overreach: they are distinct
	// coaching signals and may diverge later, so the branches stay separate.
	return holdCandidate(out, candidate, ex.RoundingStep)
}

// holdCandidate keeps the load where it is, counts the stagnant session,
// and flips to DELOAD once the count reaches the threshold.
func holdCandidate(out models.UserExerciseStats, candidate, step float64) models.UserExerciseStats {
	out.NextLoad = roundedPtr(candidate, step)
	out.StagnationCount++
	if out.StagnationCount >= DeloadThreshold {
		out.Phase = PhaseDeload
	}
	return out
}

// candidateLoad is the median of the logged loads, falling back to the
// previous suggestion (or zero) when no set carried a load.
func candidateLoad(stats models.UserExerciseStats, sets []models.SessionLogSet) float64 {
	var loads []float64
	for _, s := range sets {
		if s.LoadUsed != nil {
			loads = append(loads, *s.LoadUsed)
		}
	}
	if len(loads) == 0 {
		if stats.NextLoad != nil {
			return *stats.NextLoad
		}
		return 0.0
	}
	return median(loads)
}

// bestLoadedSet returns the set with the highest load, first occurrence
// winning ties. Sets without a load are ignored; nil if none qualify.
func bestLoadedSet(sets []models.SessionLogSet) *models.SessionLogSet {
	var best *models.SessionLogSet
	for i := range sets {
		s := &sets[i]
		if s.LoadUsed == nil {
			continue
		}
		if best == nil || *s.LoadUsed > *best.LoadUsed {
			best = s
		}
	}
	return best
}

// averageRPE is the mean over sets that report an RPE, nil if none do.
func averageRPE(sets []models.SessionLogSet) *float64 {
	var sum float64
	var n int
	for _, s := range sets {
		if s.RPE != nil {
			sum += *s.RPE
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func roundedPtr(value, step float64) *float64 {
	v := RoundToStep(value, step)
	return &v
}
