// Package tui renders the live dashboard for sensors being driven by
// poll runners. Runners publish their poke results into the program via
// ResultMsg/DoneMsg; the model only displays, it never polls.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/watchdag/watchdag/internal/model"
)

// ResultMsg carries one poke cycle's outcome for a sensor.
type ResultMsg struct {
	Result model.PokeResult
}

// DoneMsg reports that a sensor's runner has finished, successfully or not.
type DoneMsg struct {
	SensorID string
	Err      error
}

// SensorStatus is the dashboard's view of one sensor.
type SensorStatus struct {
	ID          string
	Outcome     model.Outcome
	Cycles      int
	LastError   error
	LastChecked time.Time
	Done        bool
}

// Model contains the Bubbletea state for the sensor dashboard.
type Model struct {
	title    string
	order    []string
	statuses map[string]SensorStatus
	spin     spinner.Model
	unicode  bool

	running   int
	cancelled bool
	finished  bool
}

// NewModel constructs a dashboard model for the given sensor ids.
func NewModel(title string, sensorIDs []string, unicode bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = runningStyle

	m := Model{
		title:    title,
		order:    append([]string(nil), sensorIDs...),
		statuses: make(map[string]SensorStatus, len(sensorIDs)),
		spin:     sp,
		unicode:  unicode,
		running:  len(sensorIDs),
	}

	for _, id := range sensorIDs {
		m.statuses[id] = SensorStatus{ID: id, Outcome: model.OutcomePending}
	}

	return m
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// IsFinished reports whether every runner has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

// IsCancelled reports whether the user aborted the dashboard.
func (m Model) IsCancelled() bool {
	return m.cancelled
}

// Status returns the tracked status for a sensor id.
func (m Model) Status(id string) (SensorStatus, bool) {
	s, ok := m.statuses[id]
	return s, ok
}
