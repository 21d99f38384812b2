package sensor

import (
	"fmt"
	"sync"
	"time"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// TargetDateFunc maps the current logical date, plus whatever run-context
// values the host supplies, to the target dates a sensor should query.
// The adapter in NewTargetDateFunc normalizes every supported shape to
// this one.
type TargetDateFunc func(logical time.Time, rc RunContext) []time.Time

// NewTargetDateFunc adapts a user-supplied function into a TargetDateFunc.
// The binding plan is built once here, not on every poke: each supported
// shape gets its own closure, and a function that wants no context simply
// never receives it. Unsupported shapes are a construction-time error.
func NewTargetDateFunc(fn any) (TargetDateFunc, error) {
	switch f := fn.(type) {
	case TargetDateFunc:
		return f, nil
	case func(time.Time, RunContext) []time.Time:
		return f, nil
	case func(time.Time, RunContext) time.Time:
		return func(logical time.Time, rc RunContext) []time.Time {
			return []time.Time{f(logical, rc)}
		}, nil
	case func(time.Time) []time.Time:
		return func(logical time.Time, _ RunContext) []time.Time {
			return f(logical)
		}, nil
	case func(time.Time) time.Time:
		return func(logical time.Time, _ RunContext) []time.Time {
			return []time.Time{f(logical)}
		}, nil
	default:
		return nil, wderrors.NewConfigurationError("execution_date_fn",
			fmt.Sprintf("unsupported target date function shape %T", fn), nil)
	}
}

// Named target date functions. Config files refer to these by name since
// functions cannot be expressed in YAML; hosts register them at startup.
var (
	dateFnMu sync.RWMutex
	dateFns  = map[string]TargetDateFunc{}
)

// RegisterTargetDateFunc registers fn under name for lookup from config.
// fn may be any shape NewTargetDateFunc accepts.
func RegisterTargetDateFunc(name string, fn any) error {
	adapted, err := NewTargetDateFunc(fn)
	if err != nil {
		return err
	}

	dateFnMu.Lock()
	defer dateFnMu.Unlock()

	if _, exists := dateFns[name]; exists {
		return wderrors.NewConfigurationError("execution_date_fn",
			fmt.Sprintf("target date function %q is already registered", name), nil)
	}
	dateFns[name] = adapted
	return nil
}

// LookupTargetDateFunc returns the function registered under name.
func LookupTargetDateFunc(name string) (TargetDateFunc, bool) {
	dateFnMu.RLock()
	defer dateFnMu.RUnlock()

	fn, ok := dateFns[name]
	return fn, ok
}

// targetDateResolver turns a poke's logical date into the ordered target
// set. Resolution happens fresh on every poke because the mapping
// function may depend on mutable context.
type targetDateResolver struct {
	delta time.Duration
	fn    TargetDateFunc
}

// Resolve computes the target dates for one poke cycle. With neither a
// delta nor a function configured, the logical date itself is the single
// target.
func (r targetDateResolver) Resolve(logical time.Time, rc RunContext) []time.Time {
	switch {
	case r.delta != 0:
		return []time.Time{logical.Add(-r.delta)}
	case r.fn != nil:
		return r.fn(logical, rc)
	default:
		return []time.Time{logical}
	}
}
