package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/watchdag/watchdag/internal/model"
)

// File represents a full sensors configuration document.
type File struct {
	Version     string   `yaml:"version" validate:"required,semver"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Sensors     []Sensor `yaml:"sensors" validate:"required,min=1,dive"`
}

// Sensor declares one external-dependency sensor. The declaration is
// immutable once parsed; the evaluator owns all mutable poll state.
type Sensor struct {
	ID   string `yaml:"id" validate:"required,sensor_id"`
	Name string `yaml:"name,omitempty"`

	ExternalWorkflowID string   `yaml:"external_workflow_id" validate:"required"`
	ExternalStepID     string   `yaml:"external_step_id,omitempty" validate:"omitempty,step_id"`
	ExternalStepIDs    []string `yaml:"external_step_ids,omitempty" validate:"omitempty,dive,step_id"`

	AllowedStates []model.State `yaml:"allowed_states,omitempty"`
	FailedStates  []model.State `yaml:"failed_states,omitempty"`

	ExecutionDelta  Duration `yaml:"execution_delta,omitempty"`
	ExecutionDateFn string   `yaml:"execution_date_fn,omitempty"`

	CheckExistence bool `yaml:"check_existence,omitempty"`

	PokeInterval Duration `yaml:"poke_interval,omitempty"`
	Timeout      Duration `yaml:"timeout,omitempty"`
}

// SerializedFields is the set of sensor fields the host's task-definition
// serialization persists. Computed once at package init, not lazily.
var SerializedFields = []string{
	"id",
	"external_workflow_id",
	"external_step_id",
	"external_step_ids",
	"allowed_states",
	"failed_states",
	"execution_delta",
	"execution_date_fn",
	"check_existence",
	"poke_interval",
	"timeout",
}

// StepIDs normalizes the singular and plural step-id forms into one set.
// Validation guarantees at most one of the forms is present.
func (s Sensor) StepIDs() []string {
	if s.ExternalStepID != "" {
		return []string{s.ExternalStepID}
	}
	return append([]string(nil), s.ExternalStepIDs...)
}

// EffectiveAllowedStates applies the default allowed set when none is
// configured.
func (s Sensor) EffectiveAllowedStates() []model.State {
	if len(s.AllowedStates) == 0 {
		return []model.State{model.StateSuccess}
	}
	return append([]model.State(nil), s.AllowedStates...)
}

// Duration wraps time.Duration with YAML decoding from Go duration
// strings (e.g. "24h", "30s").
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML encodes the duration back to its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// SensorMap builds a lookup table for sensors by ID.
func SensorMap(sensors []Sensor) map[string]Sensor {
	out := make(map[string]Sensor, len(sensors))
	for _, s := range sensors {
		out[s.ID] = s
	}
	return out
}
