package sensor

import (
	"os"

	"github.com/watchdag/watchdag/internal/registry"
	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// WorkflowRegistry is the registry surface the existence check consumes.
type WorkflowRegistry interface {
	Get(id string) (registry.Workflow, error)
}

// verifyExistence checks, once per sensor lifetime, that the referenced
// workflow is registered, its definition source is still on disk, and
// every watched step is declared by the current definition. The
// definition is re-parsed here rather than trusted from registration
// time, so a step removed since registration is caught.
func verifyExistence(reg WorkflowRegistry, workflowID string, stepIDs []string) error {
	workflow, err := reg.Get(workflowID)
	if err != nil {
		return err
	}

	if _, err := os.Stat(workflow.Path); err != nil {
		if os.IsNotExist(err) {
			return wderrors.NewSourceNotFoundError(workflowID, workflow.Path)
		}
		return err
	}

	if len(stepIDs) == 0 {
		return nil
	}

	def, err := registry.LoadDefinition(workflow.Path)
	if err != nil {
		return err
	}

	for _, stepID := range stepIDs {
		if !def.HasStep(stepID) {
			return wderrors.NewStepNotFoundError(workflowID, stepID)
		}
	}

	return nil
}
