package model

// State is a symbolic status attached to one instance of a workflow run
// or step run. Which values are legal depends on the level: a sensor
// watching whole workflow runs uses the run vocabulary, one watching
// individual steps uses the step vocabulary.
type State string

const (
	// StateSuccess marks a completed, successful run.
	StateSuccess State = "success"
	// StateRunning marks a run that is actively executing.
	StateRunning State = "running"
	// StateFailed marks a terminally failed run.
	StateFailed State = "failed"
	// StateQueued marks a run waiting for a slot.
	StateQueued State = "queued"
	// StateSkipped marks a step the engine skipped.
	StateSkipped State = "skipped"
	// StateUpstreamFailed marks a step blocked by an upstream failure.
	StateUpstreamFailed State = "upstream_failed"
	// StateUpForRetry marks a step awaiting a retry attempt.
	StateUpForRetry State = "up_for_retry"
	// StateUpForReschedule marks a step awaiting rescheduling.
	StateUpForReschedule State = "up_for_reschedule"
	// StateScheduled marks a step handed to the executor but not started.
	StateScheduled State = "scheduled"
)

// RunStates is the permitted vocabulary for workflow-run-level sensors.
var RunStates = []State{
	StateSuccess,
	StateRunning,
	StateFailed,
	StateQueued,
}

// StepStates is the permitted vocabulary for step-level sensors.
var StepStates = []State{
	StateSuccess,
	StateRunning,
	StateFailed,
	StateQueued,
	StateSkipped,
	StateUpstreamFailed,
	StateUpForRetry,
	StateUpForReschedule,
	StateScheduled,
}

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// ValidRunState reports whether s belongs to the run-level vocabulary.
func ValidRunState(s State) bool {
	return containsState(RunStates, s)
}

// ValidStepState reports whether s belongs to the step-level vocabulary.
func ValidStepState(s State) bool {
	return containsState(StepStates, s)
}

func containsState(vocab []State, s State) bool {
	for _, v := range vocab {
		if v == s {
			return true
		}
	}
	return false
}

// Strings converts a state slice to plain strings for query building.
func Strings(states []State) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
