package errors

import (
	"fmt"
	"strings"
	"time"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigurationError captures sensor construction failures. These surface
// before a sensor is ever scheduled; a config holding a ConfigurationError
// never reaches its first poke.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, message string, err error) error {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Referent kinds reported by NotFoundError.
const (
	KindWorkflow       = "workflow"
	KindWorkflowSource = "workflow-source"
	KindStep           = "step"
)

// NotFoundError is raised by the existence check when the external
// workflow, its definition source, or a named step cannot be found.
// It is fatal: the poll loop does not retry it.
type NotFoundError struct {
	Kind       string
	WorkflowID string
	StepID     string
	Path       string
}

// NewWorkflowNotFoundError constructs a NotFoundError for an unregistered workflow.
func NewWorkflowNotFoundError(workflowID string) error {
	return &NotFoundError{Kind: KindWorkflow, WorkflowID: workflowID}
}

// NewSourceNotFoundError constructs a NotFoundError for a definition
// source that is registered but no longer present on disk.
func NewSourceNotFoundError(workflowID, path string) error {
	return &NotFoundError{Kind: KindWorkflowSource, WorkflowID: workflowID, Path: path}
}

// NewStepNotFoundError constructs a NotFoundError for a step absent from
// the current workflow definition.
func NewStepNotFoundError(workflowID, stepID string) error {
	return &NotFoundError{Kind: KindStep, WorkflowID: workflowID, StepID: stepID}
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindStep:
		return fmt.Sprintf("step %q does not exist in workflow %q", e.StepID, e.WorkflowID)
	case KindWorkflowSource:
		return fmt.Sprintf("workflow %q was deleted: definition source %s is missing", e.WorkflowID, e.Path)
	default:
		return fmt.Sprintf("workflow %q does not exist", e.WorkflowID)
	}
}

// DependencyFailedError is raised when every resolved target landed in a
// configured failed state. It is a hard stop for the poll loop.
type DependencyFailedError struct {
	WorkflowID string
	StepIDs    []string
}

// NewDependencyFailedError constructs a DependencyFailedError.
func NewDependencyFailedError(workflowID string, stepIDs []string) error {
	return &DependencyFailedError{WorkflowID: workflowID, StepIDs: stepIDs}
}

func (e *DependencyFailedError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.StepIDs) > 0 {
		return fmt.Sprintf("some of the external steps [%s] in workflow %q failed",
			strings.Join(e.StepIDs, ", "), e.WorkflowID)
	}
	return fmt.Sprintf("the external workflow %q failed", e.WorkflowID)
}

// TimeoutError is returned by the poll runner when a sensor did not reach
// a terminal verdict within its configured timeout.
type TimeoutError struct {
	SensorID string
	Timeout  time.Duration
}

// NewTimeoutError constructs a TimeoutError.
func NewTimeoutError(sensorID string, timeout time.Duration) error {
	return &TimeoutError{SensorID: sensorID, Timeout: timeout}
}

func (e *TimeoutError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("sensor %q timed out after %s", e.SensorID, e.Timeout)
}
