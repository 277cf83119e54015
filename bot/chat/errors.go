package chat

import (
	"errors"
	"fmt"
)

// ErrWorkflowNotFound is returned when a conversation references a workflow
// that is not registered.
var ErrWorkflowNotFound = errors.New("workflow not found")

// ProtocolError means a resume arrived without a matching persisted position.
// The conversation must be restarted.
type ProtocolError struct {
	ConversationID string
	Reason         string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: conversation %s: %s", e.ConversationID, e.Reason)
}

// StepExecutionError means a step faulted. The turn was aborted and the
// conversation stays resumable at the same step.
type StepExecutionError struct {
	ConversationID string
	Step           StepID
	Position       int
	Err            error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %s (#%d) failed for conversation %s: %v", e.Step, e.Position, e.ConversationID, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// CatalogMiscoverageError means an option offered at one level has no
// catalog entry at the next. It is a configuration defect.
type CatalogMiscoverageError struct {
	Level string
	Key   string
}

func (e *CatalogMiscoverageError) Error() string {
	return fmt.Sprintf("catalog has no %s entry for %q", e.Level, e.Key)
}

// IsProtocolError reports whether err is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// IsCatalogMiscoverage reports whether err is or wraps a CatalogMiscoverageError.
func IsCatalogMiscoverage(err error) bool {
	var ce *CatalogMiscoverageError
	return errors.As(err, &ce)
}
