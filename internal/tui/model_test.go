package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchdag/watchdag/internal/model"
)

func TestNewModelTracksAllSensors(t *testing.T) {
	t.Parallel()

	m := NewModel("upstream-waits", []string{"wait_a", "wait_b"}, true)

	status, ok := m.Status("wait_a")
	require.True(t, ok)
	assert.Equal(t, model.OutcomePending, status.Outcome)
	assert.False(t, m.IsFinished())
}

func TestUpdateResultMsg(t *testing.T) {
	t.Parallel()

	m := NewModel("upstream-waits", []string{"wait_a"}, true)

	updated, _ := m.Update(ResultMsg{Result: model.PokeResult{
		SensorID:  "wait_a",
		Outcome:   model.OutcomePending,
		Timestamp: time.Now(),
	}})
	m = updated.(Model)

	status, _ := m.Status("wait_a")
	assert.Equal(t, 1, status.Cycles)
	assert.False(t, status.Done)
}

func TestUpdateDoneMsgFinishesWhenAllRunnersComplete(t *testing.T) {
	t.Parallel()

	m := NewModel("upstream-waits", []string{"wait_a", "wait_b"}, true)

	updated, cmd := m.Update(DoneMsg{SensorID: "wait_a"})
	m = updated.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.IsFinished())

	updated, cmd = m.Update(DoneMsg{SensorID: "wait_b", Err: errors.New("boom")})
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.IsFinished())

	status, _ := m.Status("wait_b")
	assert.Equal(t, model.OutcomeFailed, status.Outcome)
}

func TestUpdateQuitKeyCancels(t *testing.T) {
	t.Parallel()

	m := NewModel("upstream-waits", []string{"wait_a"}, true)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	assert.True(t, m.IsCancelled())
}

func TestViewRendersSensorLines(t *testing.T) {
	t.Parallel()

	m := NewModel("upstream-waits", []string{"wait_a"}, false)

	updated, _ := m.Update(ResultMsg{Result: model.PokeResult{
		SensorID: "wait_a",
		Outcome:  model.OutcomePending,
	}})
	m = updated.(Model)

	view := m.View()
	assert.True(t, strings.Contains(view, "wait_a"))
	assert.True(t, strings.Contains(view, "pending"))
}
