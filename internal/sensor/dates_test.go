package sensor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logical = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

func TestResolveWithDelta(t *testing.T) {
	t.Parallel()

	r := targetDateResolver{delta: 24 * time.Hour}
	targets := r.Resolve(logical, NewRunContext(logical))

	require.Len(t, targets, 1)
	assert.Equal(t, logical.Add(-24*time.Hour), targets[0])
}

func TestResolveDefaultIsLogicalDate(t *testing.T) {
	t.Parallel()

	r := targetDateResolver{}
	targets := r.Resolve(logical, NewRunContext(logical))

	require.Len(t, targets, 1)
	assert.Equal(t, logical, targets[0])
}

func TestResolveWithSingleDateFunc(t *testing.T) {
	t.Parallel()

	fn, err := NewTargetDateFunc(func(l time.Time) time.Time {
		return l.Add(-48 * time.Hour)
	})
	require.NoError(t, err)

	r := targetDateResolver{fn: fn}
	targets := r.Resolve(logical, NewRunContext(logical))

	require.Len(t, targets, 1)
	assert.Equal(t, logical.Add(-48*time.Hour), targets[0])
}

func TestResolveWithMultiDateFunc(t *testing.T) {
	t.Parallel()

	fn, err := NewTargetDateFunc(func(l time.Time) []time.Time {
		return []time.Time{l.Add(-24 * time.Hour), l.Add(-48 * time.Hour)}
	})
	require.NoError(t, err)

	r := targetDateResolver{fn: fn}
	targets := r.Resolve(logical, NewRunContext(logical))

	require.Len(t, targets, 2)
}

func TestTargetDateFuncReceivesContext(t *testing.T) {
	t.Parallel()

	fn, err := NewTargetDateFunc(func(l time.Time, rc RunContext) time.Time {
		if rc["backfill"] == true {
			return l.Add(-72 * time.Hour)
		}
		return l
	})
	require.NoError(t, err)

	rc := NewRunContext(logical)
	rc["backfill"] = true

	r := targetDateResolver{fn: fn}
	targets := r.Resolve(logical, rc)

	require.Len(t, targets, 1)
	assert.Equal(t, logical.Add(-72*time.Hour), targets[0])
}

func TestNewTargetDateFuncRejectsUnsupportedShape(t *testing.T) {
	t.Parallel()

	_, err := NewTargetDateFunc(func(s string) string { return s })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported target date function shape")

	_, err = NewTargetDateFunc(42)
	require.Error(t, err)
}

func TestRegisterAndLookupTargetDateFunc(t *testing.T) {
	require.NoError(t, RegisterTargetDateFunc("two_days_back", func(l time.Time) time.Time {
		return l.Add(-48 * time.Hour)
	}))

	fn, ok := LookupTargetDateFunc("two_days_back")
	require.True(t, ok)
	targets := fn(logical, NewRunContext(logical))
	require.Len(t, targets, 1)
	assert.Equal(t, logical.Add(-48*time.Hour), targets[0])

	// Re-registration under the same name is rejected.
	err := RegisterTargetDateFunc("two_days_back", func(l time.Time) time.Time { return l })
	require.Error(t, err)

	_, ok = LookupTargetDateFunc("never_registered")
	assert.False(t, ok)
}
