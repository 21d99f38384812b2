package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/watchdag/watchdag/internal/model"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// ValidateFile performs schema and cross-field validation on a sensors
// document. Every rule here is a construction-time rule: a document that
// passes never produces a configuration failure at poll time.
func ValidateFile(file *File) error {
	if file == nil {
		return wderrors.NewConfigurationError("config", "configuration is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(file); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(file.Sensors))
	for i, sensor := range file.Sensors {
		if _, exists := seen[sensor.ID]; exists {
			return wderrors.NewConfigurationError(
				fieldForSensor(i, "id"), fmt.Sprintf("duplicate sensor id %q", sensor.ID), nil)
		}
		seen[sensor.ID] = struct{}{}

		if err := ValidateSensor(sensor); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSensor validates a single sensor declaration independent of the
// rest of the document. It enforces the full construction-time rule set:
// mutually exclusive step-id forms, disjoint allowed/failed sets, the
// per-mode state vocabulary, and mutually exclusive target-date modes.
func ValidateSensor(sensor Sensor) error {
	v := validatorInstance()
	if err := v.Struct(sensor); err != nil {
		return convertValidationError(err)
	}

	if sensor.ExternalStepID != "" && len(sensor.ExternalStepIDs) > 0 {
		return wderrors.NewConfigurationError(sensor.ID,
			"only one of external_step_id or external_step_ids may be provided, not both", nil)
	}

	stepIDs := sensor.StepIDs()
	if err := validateStepIDSet(sensor.ID, stepIDs); err != nil {
		return err
	}

	allowed := sensor.EffectiveAllowedStates()
	if err := validateStateSets(sensor.ID, allowed, sensor.FailedStates, len(stepIDs) > 0); err != nil {
		return err
	}

	if sensor.ExecutionDelta != 0 && sensor.ExecutionDateFn != "" {
		return wderrors.NewConfigurationError(sensor.ID,
			"only one of execution_delta or execution_date_fn may be provided, not both", nil)
	}

	return nil
}

func validateStepIDSet(sensorID string, stepIDs []string) error {
	seen := make(map[string]struct{}, len(stepIDs))
	for _, stepID := range stepIDs {
		if _, dup := seen[stepID]; dup {
			return wderrors.NewConfigurationError(sensorID,
				fmt.Sprintf("duplicate step id %q in external_step_ids", stepID), nil)
		}
		seen[stepID] = struct{}{}
	}
	return nil
}

func validateStateSets(sensorID string, allowed, failed []model.State, stepLevel bool) error {
	allowedSet := make(map[model.State]struct{}, len(allowed))
	for _, s := range allowed {
		allowedSet[s] = struct{}{}
	}
	for _, s := range failed {
		if _, overlap := allowedSet[s]; overlap {
			return wderrors.NewConfigurationError(sensorID,
				fmt.Sprintf("state %q appears in both allowed_states and failed_states", s), nil)
		}
	}

	valid := model.ValidRunState
	vocabulary := "workflow-run states"
	if stepLevel {
		valid = model.ValidStepState
		vocabulary = "step states"
	}

	for _, s := range append(append([]model.State(nil), allowed...), failed...) {
		if !valid(s) {
			return wderrors.NewConfigurationError(sensorID,
				fmt.Sprintf("state %q is not a valid value; expected one of the %s", s, vocabulary), nil)
		}
	}

	return nil
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return wderrors.NewConfigurationError(first.Namespace(),
			fmt.Sprintf("failed %q validation", first.Tag()), err)
	}

	return wderrors.NewConfigurationError("", err.Error(), err)
}

func fieldForSensor(index int, field string) string {
	return fmt.Sprintf("sensors[%d].%s", index, field)
}
