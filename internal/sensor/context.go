package sensor

import (
	"time"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// LogicalDateKey is the well-known run-context key holding the current
// logical date of the calling unit of work.
const LogicalDateKey = "logical_date"

// RunContext carries host-supplied values for one poke cycle. It must
// contain at least the current logical date under LogicalDateKey; target
// date functions may read any other entries the host provides.
type RunContext map[string]any

// NewRunContext builds a minimal run context around a logical date.
func NewRunContext(logical time.Time) RunContext {
	return RunContext{LogicalDateKey: logical}
}

// LogicalDate extracts the current logical date from the context.
func (rc RunContext) LogicalDate() (time.Time, error) {
	raw, ok := rc[LogicalDateKey]
	if !ok {
		return time.Time{}, wderrors.NewConfigurationError(LogicalDateKey,
			"run context is missing the logical date", nil)
	}

	logical, ok := raw.(time.Time)
	if !ok {
		return time.Time{}, wderrors.NewConfigurationError(LogicalDateKey,
			"logical date must be a time value", nil)
	}

	return logical, nil
}
