package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchdag/watchdag/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ResultMsg:
		id := msg.Result.SensorID
		status, ok := m.statuses[id]
		if !ok {
			return m, nil
		}
		status.Outcome = msg.Result.Outcome
		status.Cycles++
		status.LastError = msg.Result.Error
		status.LastChecked = msg.Result.Timestamp
		m.statuses[id] = status
		return m, nil

	case DoneMsg:
		status, ok := m.statuses[msg.SensorID]
		if !ok {
			return m, nil
		}
		status.Done = true
		if msg.Err != nil {
			status.Outcome = model.OutcomeFailed
			status.LastError = msg.Err
		} else {
			status.Outcome = model.OutcomeSatisfied
		}
		m.statuses[msg.SensorID] = status

		m.running--
		if m.running <= 0 {
			m.finished = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	}

	return m, nil
}
