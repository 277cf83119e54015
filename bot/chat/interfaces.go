package chat

import (
	"context"
)

// StepID is a unique identifier for a step within a workflow.
type StepID string

// WorkflowID is a unique identifier for a workflow.
type WorkflowID string

// ValidatorID names a validator registered on the engine. Prompts carry the
// name rather than the validator so they can be persisted between turns.
type ValidatorID string

// Step defines a single waterfall step.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() StepID

	// Run executes the step against a private copy of the conversation state.
	// Values written to sc.State and content queued on sc are committed only
	// when Run returns without error.
	Run(ctx context.Context, sc *StepContext) (DialogOutcome, error)
}

// Workflow defines an ordered waterfall of steps.
type Workflow interface {
	// ID returns the unique identifier for this workflow.
	ID() WorkflowID

	// Steps returns the steps in execution order.
	Steps() []Step
}

// ValidatorProvider is implemented by workflows whose prompts reference
// validators. They are registered together with the workflow.
type ValidatorProvider interface {
	Validators() map[ValidatorID]Validator
}

// ChatStateStorage handles persistence of conversation states.
// Load returns nil, nil when nothing is stored for the conversation.
// List returns the ids of conversations that currently have a state.
type ChatStateStorage interface {
	Save(ctx context.Context, state *ChatState) error
	Load(ctx context.Context, conversationID string) (*ChatState, error)
	Delete(ctx context.Context, conversationID string) error
	List(ctx context.Context) ([]string, error)
}

// DialogStack receives the pop signal when a waterfall completes.
type DialogStack interface {
	Pop(ctx context.Context, conversationID string, workflowID WorkflowID, values []Value) error
}

// TurnListener observes finished turns.
type TurnListener interface {
	OnTurn(event TurnEvent)
}
