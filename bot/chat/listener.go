package chat

import "time"

// TurnKind classifies how a turn ended.
type TurnKind string

const (
	TurnSuspend  TurnKind = "suspend"
	TurnRetry    TurnKind = "retry"
	TurnComplete TurnKind = "complete"
	TurnError    TurnKind = "error"
)

// TurnEvent is reported to listeners after every turn.
type TurnEvent struct {
	ConversationID string        `json:"conversation_id"`
	WorkflowID     WorkflowID    `json:"workflow_id"`
	Step           StepID        `json:"step"`
	Kind           TurnKind      `json:"kind"`
	Error          string        `json:"error,omitempty"`
	Duration       time.Duration `json:"duration"`
}

// Turn is the result of Start or Resume.
type Turn struct {
	ConversationID string         `json:"conversation_id"`
	WorkflowID     WorkflowID     `json:"workflow_id"`
	Position       int            `json:"position"`
	Prompt         *PromptRequest `json:"prompt,omitempty"`
	Retry          bool           `json:"retry"`
	Completed      bool           `json:"completed"`
	// Content holds every side effect of the turn in delivery order,
	// including the surfaced prompt.
	Content []Content `json:"content"`
	// Values are the final selections of a completed waterfall.
	Values []Value `json:"values,omitempty"`
}

// Outcome returns the dialog outcome the turn ended with.
func (t *Turn) Outcome() DialogOutcome {
	if t.Completed {
		return Complete()
	}
	if t.Prompt == nil {
		return DialogOutcome{}
	}
	return Suspend(*t.Prompt)
}
