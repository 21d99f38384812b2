// Package sensor implements the external-dependency poll evaluator: the
// logic that decides, on each poke, whether a set of runs of another
// workflow (or steps within it) have reached a terminal state acceptable
// to the caller.
package sensor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/watchdag/watchdag/internal/config"
	"github.com/watchdag/watchdag/internal/logger"
	"github.com/watchdag/watchdag/internal/model"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// Sensor is the generic poll-until-done contract. The runner (or any
// other host loop) re-invokes Poke on its own cadence until it returns
// true or an error.
type Sensor interface {
	ID() string
	Poke(ctx context.Context, rc RunContext) (bool, error)
}

// StateCounter is the narrow read-only query surface the evaluator
// consumes. Given step ids it returns the raw row count divided by the
// number of steps, so results compare directly against len(targets) in
// both modes. An empty target set must return 0 without querying.
type StateCounter interface {
	Count(ctx context.Context, workflowID string, stepIDs []string, states []model.State, targets []time.Time) (float64, error)
}

// ExternalSensor waits for runs of a different workflow, or steps in a
// different workflow, to complete for specific target dates.
//
// The configuration is immutable after New. The only mutable state is
// the existence latch, which flips false to true at most once and never
// resets; the host guarantees at most one in-flight Poke per instance,
// so no locking is needed.
type ExternalSensor struct {
	cfg      config.Sensor
	stepIDs  []string
	allowed  []model.State
	failed   []model.State
	resolver targetDateResolver
	counter  StateCounter
	registry WorkflowRegistry
	log      *logger.Logger

	existenceVerified bool
}

// Option customizes sensor construction.
type Option func(*ExternalSensor) error

// WithTargetDateFunc sets a target date function directly, for sensors
// constructed in code rather than from a named function in config.
func WithTargetDateFunc(fn any) Option {
	return func(s *ExternalSensor) error {
		adapted, err := NewTargetDateFunc(fn)
		if err != nil {
			return err
		}
		if s.resolver.fn != nil {
			return wderrors.NewConfigurationError(s.cfg.ID,
				"a target date function is already configured", nil)
		}
		s.resolver.fn = adapted
		return nil
	}
}

// New validates cfg and constructs the evaluator. Every configuration
// rule is enforced here; a sensor that constructs cleanly can only fail
// at poke time for not-found or dependency-failed reasons.
func New(cfg config.Sensor, counter StateCounter, reg WorkflowRegistry, log *logger.Logger, opts ...Option) (*ExternalSensor, error) {
	if err := config.ValidateSensor(cfg); err != nil {
		return nil, err
	}
	if counter == nil {
		return nil, wderrors.NewConfigurationError(cfg.ID, "a state counter is required", nil)
	}
	if cfg.CheckExistence && reg == nil {
		return nil, wderrors.NewConfigurationError(cfg.ID,
			"check_existence requires a workflow registry", nil)
	}

	s := &ExternalSensor{
		cfg:      cfg,
		stepIDs:  cfg.StepIDs(),
		allowed:  cfg.EffectiveAllowedStates(),
		failed:   append([]model.State(nil), cfg.FailedStates...),
		resolver: targetDateResolver{delta: cfg.ExecutionDelta.Std()},
		counter:  counter,
		registry: reg,
		log:      log.WithComponent("sensor").WithSensor(cfg.ID),
	}

	if cfg.ExecutionDateFn != "" {
		fn, ok := LookupTargetDateFunc(cfg.ExecutionDateFn)
		if !ok {
			return nil, wderrors.NewConfigurationError(cfg.ID,
				fmt.Sprintf("target date function %q is not registered", cfg.ExecutionDateFn), nil)
		}
		s.resolver.fn = fn
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.resolver.delta != 0 && s.resolver.fn != nil {
		return nil, wderrors.NewConfigurationError(cfg.ID,
			"only one of execution_delta or a target date function may be configured, not both", nil)
	}

	return s, nil
}

// ID returns the sensor id.
func (s *ExternalSensor) ID() string {
	return s.cfg.ID
}

// ExistenceVerified reports whether the one-time existence check has
// already passed.
func (s *ExternalSensor) ExistenceVerified() bool {
	return s.existenceVerified
}

// Poke performs one synchronous evaluation. It returns (true, nil) when
// every target reached an allowed state, (false, nil) when the
// dependency is still pending, and a fatal error when the referent does
// not exist or every target landed in a failed state. Poke is side-effect
// free apart from read-only queries and logging, so the host may call it
// on any cadence.
func (s *ExternalSensor) Poke(ctx context.Context, rc RunContext) (bool, error) {
	logical, err := rc.LogicalDate()
	if err != nil {
		return false, err
	}

	targets := s.resolver.Resolve(logical, rc)
	if len(targets) == 0 {
		// With zero targets countAllowed == len(targets) holds vacuously,
		// which would report success for a dependency never checked.
		return false, wderrors.NewConfigurationError(s.cfg.ID,
			"target date resolution produced an empty target set", nil)
	}

	s.log.WithFields(map[string]any{
		"workflow": s.cfg.ExternalWorkflowID,
		"steps":    s.stepIDs,
		"targets":  formatTargets(targets),
	}).Info("poking external dependency")

	if s.cfg.CheckExistence && !s.existenceVerified {
		if err := verifyExistence(s.registry, s.cfg.ExternalWorkflowID, s.stepIDs); err != nil {
			return false, err
		}
		s.existenceVerified = true
		s.log.Debug("existence check passed; skipping on subsequent pokes")
	}

	countAllowed, err := s.counter.Count(ctx, s.cfg.ExternalWorkflowID, s.stepIDs, s.allowed, targets)
	if err != nil {
		return false, err
	}

	countFailed := -1.0
	if len(s.failed) > 0 {
		countFailed, err = s.counter.Count(ctx, s.cfg.ExternalWorkflowID, s.stepIDs, s.failed, targets)
		if err != nil {
			return false, err
		}
	}

	if countFailed == float64(len(targets)) {
		return false, wderrors.NewDependencyFailedError(s.cfg.ExternalWorkflowID, s.stepIDs)
	}

	return countAllowed == float64(len(targets)), nil
}

func formatTargets(targets []time.Time) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = t.UTC().Format(time.RFC3339)
	}
	return strings.Join(parts, ",")
}
