// Package runner drives a sensor to completion. It owns the cadence and
// timeout policy the evaluator itself deliberately does not have: the
// evaluator stays a pure per-call verdict, the runner decides when to
// call it again.
package runner

import (
	"context"
	"time"

	"github.com/watchdag/watchdag/internal/logger"
	"github.com/watchdag/watchdag/internal/model"
	"github.com/watchdag/watchdag/internal/sensor"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// Default cadence and timeout applied when a sensor declares none.
const (
	DefaultPokeInterval = 60 * time.Second
	DefaultTimeout      = 7 * 24 * time.Hour
)

// Options configures one runner.
type Options struct {
	PokeInterval time.Duration
	Timeout      time.Duration

	// OnResult, when set, receives every poke cycle's outcome. The
	// dashboard subscribes through it.
	OnResult func(model.PokeResult)
}

// Runner re-invokes a sensor until it reports satisfied, fails fatally,
// or times out. At most one poke is in flight at a time.
type Runner struct {
	sensor sensor.Sensor
	opts   Options
	log    *logger.Logger
}

// New constructs a Runner, applying defaults for unset options.
func New(s sensor.Sensor, opts Options, log *logger.Logger) *Runner {
	if opts.PokeInterval <= 0 {
		opts.PokeInterval = DefaultPokeInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &Runner{
		sensor: s,
		opts:   opts,
		log:    log.WithComponent("runner").WithSensor(s.ID()),
	}
}

// Run polls the sensor until a terminal verdict. It returns nil when the
// dependency is satisfied, the sensor's own error on fatal conditions, a
// TimeoutError when the deadline passes while still pending, and the
// context error on cancellation.
func (r *Runner) Run(ctx context.Context, rc sensor.RunContext) error {
	deadline := time.Now().Add(r.opts.Timeout)

	ticker := time.NewTicker(r.opts.PokeInterval)
	defer ticker.Stop()

	for cycle := 1; ; cycle++ {
		started := time.Now()
		done, err := r.sensor.Poke(ctx, rc)
		r.report(done, err, started)

		switch {
		case err != nil:
			r.log.Error(err, "sensor failed")
			return err
		case done:
			r.log.WithFields(map[string]any{"cycles": cycle}).Info("dependency satisfied")
			return nil
		}

		if time.Now().After(deadline) {
			err := wderrors.NewTimeoutError(r.sensor.ID(), r.opts.Timeout)
			r.log.Error(err, "giving up")
			return err
		}

		r.log.WithFields(map[string]any{
			"cycle":       cycle,
			"retry_after": r.opts.PokeInterval.String(),
		}).Debug("dependency pending")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Runner) report(done bool, err error, started time.Time) {
	if r.opts.OnResult == nil {
		return
	}

	outcome := model.OutcomePending
	if done {
		outcome = model.OutcomeSatisfied
	}
	if err != nil {
		outcome = model.OutcomeFailed
	}

	r.opts.OnResult(model.PokeResult{
		SensorID:  r.sensor.ID(),
		Outcome:   outcome,
		Error:     err,
		Duration:  time.Since(started),
		Timestamp: started,
	})
}
