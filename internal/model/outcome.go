package model

import "time"

// Outcome classifies the result of a single poke cycle. It is derived per
// call and never persisted.
type Outcome string

const (
	// OutcomePending means the dependency has not reached an acceptable
	// terminal state yet; the host retries later.
	OutcomePending Outcome = "pending"
	// OutcomeSatisfied means every target reached an allowed state.
	OutcomeSatisfied Outcome = "satisfied"
	// OutcomeFailed means the poke hit a fatal condition.
	OutcomeFailed Outcome = "failed"
)

// Icon returns the Unicode icon for the outcome.
func (o Outcome) Icon() string {
	switch o {
	case OutcomeSatisfied:
		return "🟢"
	case OutcomeFailed:
		return "🔴"
	default:
		return "🟡"
	}
}

// IconFallback returns ASCII fallback when Unicode is not supported.
func (o Outcome) IconFallback() string {
	switch o {
	case OutcomeSatisfied:
		return "[OK]"
	case OutcomeFailed:
		return "[XX]"
	default:
		return "[...]"
	}
}

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// PokeResult captures one poke cycle for reporting and the dashboard.
type PokeResult struct {
	SensorID  string
	Outcome   Outcome
	Targets   []time.Time
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}
