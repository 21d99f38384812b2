package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunVocabularyIsSubsetOfStepVocabulary(t *testing.T) {
	t.Parallel()

	for _, s := range RunStates {
		assert.True(t, ValidStepState(s), "run state %q missing from step vocabulary", s)
	}
}

func TestValidRunState(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidRunState(StateSuccess))
	assert.True(t, ValidRunState(StateFailed))
	assert.False(t, ValidRunState(StateUpForRetry))
	assert.False(t, ValidRunState(State("bogus")))
}

func TestValidStepState(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidStepState(StateUpstreamFailed))
	assert.True(t, ValidStepState(StateSkipped))
	assert.False(t, ValidStepState(State("done")))
}

func TestStrings(t *testing.T) {
	t.Parallel()

	got := Strings([]State{StateSuccess, StateFailed})
	assert.Equal(t, []string{"success", "failed"}, got)
}

func TestOutcomeIcons(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[OK]", OutcomeSatisfied.IconFallback())
	assert.Equal(t, "[XX]", OutcomeFailed.IconFallback())
	assert.Equal(t, "[...]", OutcomePending.IconFallback())
	assert.NotEmpty(t, OutcomePending.Icon())
}
