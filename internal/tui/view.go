package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/watchdag/watchdag/internal/model"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("watchdag • %s", m.title)))
	sections = append(sections, sectionStyle.Render("Sensors"))

	var lines []string
	for _, id := range m.order {
		lines = append(lines, m.renderSensor(m.statuses[id]))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	sections = append(sections, footerStyle.Render(m.footer()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSensor(status SensorStatus) string {
	line := fmt.Sprintf(" %s %s", m.icon(status), status.ID)

	if status.Cycles > 0 {
		line = fmt.Sprintf("%s — %s (cycle %d)", line, status.Outcome, status.Cycles)
	} else {
		line = fmt.Sprintf("%s — waiting for first poke", line)
	}

	if !status.LastChecked.IsZero() {
		line = fmt.Sprintf("%s, last checked %s", line, status.LastChecked.Format(time.Kitchen))
	}

	if status.LastError != nil {
		line = fmt.Sprintf("%s\n   %s", line, failureStyle.Render(status.LastError.Error()))
	}

	return line
}

func (m Model) icon(status SensorStatus) string {
	if !status.Done && status.Outcome == model.OutcomePending {
		return m.spin.View()
	}

	switch status.Outcome {
	case model.OutcomeSatisfied:
		if m.unicode {
			return satisfiedStyle.Render("✓")
		}
		return satisfiedStyle.Render("[OK]")
	case model.OutcomeFailed:
		if m.unicode {
			return failureStyle.Render("✗")
		}
		return failureStyle.Render("[XX]")
	default:
		if m.unicode {
			return pendingStyle.Render("…")
		}
		return pendingStyle.Render("[...]")
	}
}

func (m Model) footer() string {
	if m.finished {
		if m.cancelled {
			return "cancelled"
		}
		return "all sensors finished"
	}
	return fmt.Sprintf("%d sensor(s) polling • press q to quit", m.running)
}
