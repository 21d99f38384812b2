package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchdag/watchdag/internal/logger"
	"github.com/watchdag/watchdag/internal/model"
	"github.com/watchdag/watchdag/internal/sensor"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// scriptedSensor returns its scripted verdicts in order, repeating the
// last one once the script is exhausted.
type scriptedSensor struct {
	id      string
	script  []verdict
	pokes   int
}

type verdict struct {
	done bool
	err  error
}

func (s *scriptedSensor) ID() string { return s.id }

func (s *scriptedSensor) Poke(context.Context, sensor.RunContext) (bool, error) {
	idx := s.pokes
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.pokes++
	v := s.script[idx]
	return v.done, v.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Options{Level: "error"})
	require.NoError(t, err)
	return log
}

var rc = sensor.NewRunContext(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))

func TestRunSatisfiedAfterRetries(t *testing.T) {
	t.Parallel()

	s := &scriptedSensor{id: "wait_upstream", script: []verdict{
		{done: false}, {done: false}, {done: true},
	}}

	r := New(s, Options{PokeInterval: time.Millisecond, Timeout: time.Second}, testLogger(t))
	require.NoError(t, r.Run(context.Background(), rc))
	assert.Equal(t, 3, s.pokes)
}

func TestRunStopsOnFatalError(t *testing.T) {
	t.Parallel()

	fatal := wderrors.NewDependencyFailedError("daily_load", nil)
	s := &scriptedSensor{id: "wait_upstream", script: []verdict{{err: fatal}}}

	r := New(s, Options{PokeInterval: time.Millisecond, Timeout: time.Second}, testLogger(t))
	err := r.Run(context.Background(), rc)

	var failed *wderrors.DependencyFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 1, s.pokes)
}

func TestRunTimesOutWhilePending(t *testing.T) {
	t.Parallel()

	s := &scriptedSensor{id: "wait_upstream", script: []verdict{{done: false}}}

	r := New(s, Options{PokeInterval: time.Millisecond, Timeout: 10 * time.Millisecond}, testLogger(t))
	err := r.Run(context.Background(), rc)

	var timeout *wderrors.TimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, "wait_upstream", timeout.SensorID)
}

func TestRunHonorsCancellation(t *testing.T) {
	t.Parallel()

	s := &scriptedSensor{id: "wait_upstream", script: []verdict{{done: false}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(s, Options{PokeInterval: time.Minute, Timeout: time.Hour}, testLogger(t))
	err := r.Run(ctx, rc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunReportsEachCycle(t *testing.T) {
	t.Parallel()

	s := &scriptedSensor{id: "wait_upstream", script: []verdict{
		{done: false}, {done: true},
	}}

	var results []model.PokeResult
	r := New(s, Options{
		PokeInterval: time.Millisecond,
		Timeout:      time.Second,
		OnResult:     func(res model.PokeResult) { results = append(results, res) },
	}, testLogger(t))

	require.NoError(t, r.Run(context.Background(), rc))
	require.Len(t, results, 2)
	assert.Equal(t, model.OutcomePending, results[0].Outcome)
	assert.Equal(t, model.OutcomeSatisfied, results[1].Outcome)
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	s := &scriptedSensor{id: "wait_upstream", script: []verdict{{done: true}}}
	r := New(s, Options{}, testLogger(t))
	assert.Equal(t, DefaultPokeInterval, r.opts.PokeInterval)
	assert.Equal(t, DefaultTimeout, r.opts.Timeout)
}
