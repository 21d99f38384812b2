package sensor

import (
	"fmt"
	"time"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// DefaultRecursionDepth bounds transitive downstream invalidation.
const DefaultRecursionDepth = 10

// DefaultMarkerExecutionDate is the late-bound placeholder the host
// substitutes with the actual logical date before invalidation runs.
const DefaultMarkerExecutionDate = "{{ logical_date }}"

// Marker declares that a unit of work in a different workflow depends on
// this one and should be invalidated recursively when this one is. The
// declaration is immutable and data-only; the traversal belongs to the
// host's invalidation subsystem.
type Marker struct {
	ExternalWorkflowID string
	ExternalStepID     string
	ExecutionDate      string
	RecursionDepth     int
}

// MarkerSerializedFields is the set of marker fields the host persists.
// Computed once at package init, not lazily.
var MarkerSerializedFields = []string{
	"external_workflow_id",
	"external_step_id",
	"execution_date",
	"recursion_depth",
}

// NewMarker validates and constructs a Marker. executionDate accepts a
// string (possibly a late-bound placeholder), a time value (normalized to
// RFC 3339), or nil for the default placeholder. A recursionDepth of 0
// means unset and selects DefaultRecursionDepth; there is no way to ask
// for zero levels, and negative depths are rejected.
func NewMarker(workflowID, stepID string, executionDate any, recursionDepth int) (*Marker, error) {
	if workflowID == "" {
		return nil, wderrors.NewConfigurationError("external_workflow_id", "must not be empty", nil)
	}
	if stepID == "" {
		return nil, wderrors.NewConfigurationError("external_step_id", "must not be empty", nil)
	}

	var date string
	switch v := executionDate.(type) {
	case nil:
		date = DefaultMarkerExecutionDate
	case string:
		date = v
	case time.Time:
		date = v.UTC().Format(time.RFC3339)
	default:
		return nil, wderrors.NewConfigurationError("execution_date",
			fmt.Sprintf("expected string or time value, got %T", executionDate), nil)
	}

	if recursionDepth == 0 {
		recursionDepth = DefaultRecursionDepth
	}
	if recursionDepth < 0 {
		return nil, wderrors.NewConfigurationError("recursion_depth",
			"must be a positive integer", nil)
	}

	return &Marker{
		ExternalWorkflowID: workflowID,
		ExternalStepID:     stepID,
		ExecutionDate:      date,
		RecursionDepth:     recursionDepth,
	}, nil
}
