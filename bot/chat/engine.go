package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

const defaultMaxTransitions = 20

// ChatEngine is the platform-agnostic waterfall controller. It keeps no
// per-conversation state in memory: every turn loads the state from
// storage, runs steps against a copy and commits the copy on success.
type ChatEngine struct {
	workflows      map[WorkflowID]Workflow
	validators     map[ValidatorID]Validator
	storage        ChatStateStorage
	stack          DialogStack
	listeners      []TurnListener
	maxTransitions int
	log            *slog.Logger
}

// NewChatEngine creates a new chat engine.
func NewChatEngine(storage ChatStateStorage, log *slog.Logger) *ChatEngine {
	return &ChatEngine{
		workflows:      make(map[WorkflowID]Workflow),
		validators:     make(map[ValidatorID]Validator),
		storage:        storage,
		maxTransitions: defaultMaxTransitions,
		log:            log,
	}
}

// SetDialogStack sets the receiver of completion signals.
func (e *ChatEngine) SetDialogStack(stack DialogStack) {
	e.stack = stack
}

// AddTurnListener registers an observer of finished turns.
func (e *ChatEngine) AddTurnListener(l TurnListener) {
	e.listeners = append(e.listeners, l)
}

// SetMaxTransitions bounds how many steps may chain within one turn.
func (e *ChatEngine) SetMaxTransitions(n int) {
	if n > 0 {
		e.maxTransitions = n
	}
}

// RegisterWorkflow adds a workflow to the engine, together with its
// validators when it provides any. Registration is not safe for use
// concurrently with turns.
func (e *ChatEngine) RegisterWorkflow(w Workflow) {
	e.workflows[w.ID()] = w
	if vp, ok := w.(ValidatorProvider); ok {
		for id, v := range vp.Validators() {
			e.RegisterValidator(id, v)
		}
	}
	e.log.Info("chat engine: registered workflow",
		slog.String("workflow_id", string(w.ID())),
		slog.Int("steps", len(w.Steps())),
	)
}

// RegisterValidator makes a validator available to prompts by name.
func (e *ChatEngine) RegisterValidator(id ValidatorID, v Validator) {
	e.validators[id] = v
}

// Start begins the workflow for a conversation, replacing any state it had,
// and runs the first step.
func (e *ChatEngine) Start(ctx context.Context, m Messenger, workflowID WorkflowID, conversationID string) (*Turn, error) {
	started := time.Now()

	w, ok := e.workflows[workflowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowNotFound, workflowID)
	}
	if len(w.Steps()) == 0 {
		return nil, fmt.Errorf("workflow %s has no steps", workflowID)
	}

	e.log.Info("chat engine: starting workflow",
		slog.String("conversation_id", conversationID),
		slog.String("workflow_id", string(workflowID)),
	)

	state := NewChatState(conversationID, workflowID)
	turn, err := e.run(ctx, m, w, state, 0, NoInput(), nil)
	e.report(w, conversationID, 0, turn, err, started)
	return turn, err
}

// Resume validates a reply against the outstanding prompt and feeds it to
// the step following the one that issued the prompt. A reply rejected by
// the prompt's validator re-issues the same prompt and changes nothing.
func (e *ChatEngine) Resume(ctx context.Context, m Messenger, conversationID string, input RawInput) (*Turn, error) {
	started := time.Now()

	state, err := e.storage.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if state == nil {
		return nil, e.protocolError(conversationID, "no persisted position")
	}
	if state.Pending == nil {
		return nil, e.protocolError(conversationID, "no outstanding prompt")
	}

	w, ok := e.workflows[state.WorkflowID]
	if !ok {
		return nil, e.protocolError(conversationID, fmt.Sprintf("unknown workflow %s", state.WorkflowID))
	}
	if state.Position < 0 || state.Position >= len(w.Steps()) {
		return nil, e.protocolError(conversationID, fmt.Sprintf("position %d out of range", state.Position))
	}

	validation, err := e.validate(ctx, *state.Pending, input)
	if err != nil {
		err = &StepExecutionError{
			ConversationID: conversationID,
			Step:           w.Steps()[state.Position].ID(),
			Position:       state.Position,
			Err:            err,
		}
		e.report(w, conversationID, state.Position, nil, err, started)
		return nil, err
	}

	if !validation.Accepted {
		turn, err := e.retry(ctx, m, state, validation.Notices)
		e.report(w, conversationID, state.Position, turn, err, started)
		return turn, err
	}

	// The accepted answer belongs to the step after the one that prompted.
	// A prompt issued by the last step ends the waterfall.
	next := state.Position + 1
	var turn *Turn
	if next >= len(w.Steps()) {
		turn, err = e.complete(ctx, m, state.Clone(), state.Position, slices.Clone(validation.Notices))
		next = state.Position
	} else {
		result := resultOf(*state.Pending, validation)
		turn, err = e.run(ctx, m, w, state, next, result, validation.Notices)
	}
	e.report(w, conversationID, next, turn, err, started)
	return turn, err
}

// GetState retrieves the persisted state of a conversation.
func (e *ChatEngine) GetState(ctx context.Context, conversationID string) (*ChatState, error) {
	return e.storage.Load(ctx, conversationID)
}

// HasActiveWorkflow checks if a conversation is waiting on a prompt.
func (e *ChatEngine) HasActiveWorkflow(ctx context.Context, conversationID string) (bool, error) {
	state, err := e.storage.Load(ctx, conversationID)
	if err != nil {
		return false, err
	}
	return state != nil && state.Pending != nil, nil
}

// ListConversations returns the conversations that have a persisted state.
func (e *ChatEngine) ListConversations(ctx context.Context) ([]string, error) {
	return e.storage.List(ctx)
}

// ClearState removes the state of a conversation.
func (e *ChatEngine) ClearState(ctx context.Context, conversationID string) error {
	return e.storage.Delete(ctx, conversationID)
}

// run executes steps from position until one suspends or completes.
// Nothing is persisted or delivered unless that point is reached.
func (e *ChatEngine) run(ctx context.Context, m Messenger, w Workflow, committed *ChatState, position int, result StepResult, notices []Content) (*Turn, error) {
	steps := w.Steps()
	state := committed.Clone()
	effects := slices.Clone(notices)

	for transitions := 0; ; transitions++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		step := steps[position]
		fail := func(err error) (*Turn, error) {
			return nil, &StepExecutionError{
				ConversationID: state.ConversationID,
				Step:           step.ID(),
				Position:       position,
				Err:            err,
			}
		}

		if transitions > e.maxTransitions {
			return fail(fmt.Errorf("more than %d chained steps", e.maxTransitions))
		}

		sc := newStepContext(state, position, result)
		outcome, err := e.invoke(ctx, step, sc)
		if err != nil {
			if IsCatalogMiscoverage(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return fail(err)
		}
		effects = append(effects, sc.Effects()...)

		switch outcome.Kind {
		case OutcomeContinue:
			if outcome.Next < 0 || outcome.Next >= len(steps) {
				return fail(fmt.Errorf("continue to step %d out of range", outcome.Next))
			}
			e.log.Debug("chat engine: transitioning",
				slog.String("conversation_id", state.ConversationID),
				slog.String("step_id", string(steps[outcome.Next].ID())),
			)
			position = outcome.Next
			result = NoInput()
		case OutcomeSuspend:
			if outcome.Prompt == nil {
				return fail(errors.New("suspend without prompt"))
			}
			return e.suspend(ctx, m, state, position, *outcome.Prompt, effects)
		case OutcomeComplete:
			return e.complete(ctx, m, state, position, effects)
		default:
			return fail(fmt.Errorf("unknown outcome %q", outcome.Kind))
		}
	}
}

func (e *ChatEngine) invoke(ctx context.Context, step Step, sc *StepContext) (outcome DialogOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return step.Run(ctx, sc)
}

func (e *ChatEngine) suspend(ctx context.Context, m Messenger, state *ChatState, position int, prompt PromptRequest, effects []Content) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state.Position = position
	state.Pending = &prompt
	state.UpdatedAt = time.Now()
	if err := e.storage.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("saving state: %w", err)
	}

	effects = append(effects, PromptContent(prompt))
	e.flush(m, state.ConversationID, effects)

	return &Turn{
		ConversationID: state.ConversationID,
		WorkflowID:     state.WorkflowID,
		Position:       position,
		Prompt:         &prompt,
		Content:        effects,
	}, nil
}

func (e *ChatEngine) complete(ctx context.Context, m Messenger, state *ChatState, position int, effects []Content) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := e.storage.Delete(ctx, state.ConversationID); err != nil {
		return nil, fmt.Errorf("clearing state: %w", err)
	}
	e.flush(m, state.ConversationID, effects)

	e.log.Info("chat engine: workflow completed",
		slog.String("conversation_id", state.ConversationID),
		slog.String("workflow_id", string(state.WorkflowID)),
	)

	if e.stack != nil {
		if err := e.stack.Pop(ctx, state.ConversationID, state.WorkflowID, state.Values); err != nil {
			e.log.Error("chat engine: dialog stack pop",
				slog.String("conversation_id", state.ConversationID),
				slog.String("error", err.Error()),
			)
		}
	}

	return &Turn{
		ConversationID: state.ConversationID,
		WorkflowID:     state.WorkflowID,
		Position:       position,
		Completed:      true,
		Content:        effects,
		Values:         state.Values,
	}, nil
}

func (e *ChatEngine) retry(ctx context.Context, m Messenger, state *ChatState, notices []Content) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prompt := *state.Clone().Pending
	effects := append(slices.Clone(notices), PromptContent(prompt))
	e.flush(m, state.ConversationID, effects)

	return &Turn{
		ConversationID: state.ConversationID,
		WorkflowID:     state.WorkflowID,
		Position:       state.Position,
		Prompt:         &prompt,
		Retry:          true,
		Content:        effects,
	}, nil
}

// validate runs the prompt's validator. Prompts with options and no named
// validator use choice recognition; bare prompts accept any reply.
func (e *ChatEngine) validate(ctx context.Context, prompt PromptRequest, input RawInput) (Validation, error) {
	switch {
	case prompt.Validator != "":
		v, ok := e.validators[prompt.Validator]
		if !ok {
			return Validation{}, fmt.Errorf("validator not registered: %s", prompt.Validator)
		}
		return v.Validate(ctx, input), nil
	case len(prompt.Options) > 0:
		return ChoiceValidator{Options: prompt.Options}.Validate(ctx, input), nil
	}
	if input.HasText() {
		return Validation{Accepted: true, Value: input.Text}, nil
	}
	return Validation{Accepted: true}, nil
}

func resultOf(prompt PromptRequest, v Validation) StepResult {
	if o, ok := v.Value.(Option); ok && prompt.Validator == "" {
		return Selected(o.Label)
	}
	if v.Value == nil {
		return NoInput()
	}
	return ValidatedInput(v.Value)
}

func (e *ChatEngine) flush(m Messenger, conversationID string, effects []Content) {
	if m == nil {
		return
	}
	for _, c := range effects {
		if err := deliver(m, conversationID, c); err != nil {
			e.log.Warn("chat engine: delivery failed",
				slog.String("conversation_id", conversationID),
				slog.String("kind", string(c.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (e *ChatEngine) protocolError(conversationID, reason string) error {
	e.log.Warn("chat engine: protocol error",
		slog.String("conversation_id", conversationID),
		slog.String("reason", reason),
	)
	err := &ProtocolError{ConversationID: conversationID, Reason: reason}
	e.notify(TurnEvent{ConversationID: conversationID, Kind: TurnError, Error: err.Error()})
	return err
}

func (e *ChatEngine) report(w Workflow, conversationID string, position int, turn *Turn, err error, started time.Time) {
	event := TurnEvent{
		ConversationID: conversationID,
		WorkflowID:     w.ID(),
		Duration:       time.Since(started),
	}

	if turn != nil {
		position = turn.Position
	}
	var se *StepExecutionError
	if errors.As(err, &se) {
		position = se.Position
	}
	if steps := w.Steps(); position >= 0 && position < len(steps) {
		event.Step = steps[position].ID()
	}

	switch {
	case err != nil:
		event.Kind = TurnError
		event.Error = err.Error()
		e.log.Error("chat engine: step error",
			slog.String("conversation_id", conversationID),
			slog.String("step_id", string(event.Step)),
			slog.String("error", err.Error()),
		)
	case turn.Completed:
		event.Kind = TurnComplete
	case turn.Retry:
		event.Kind = TurnRetry
		e.log.Debug("chat engine: reply rejected",
			slog.String("conversation_id", conversationID),
			slog.String("step_id", string(event.Step)),
		)
	default:
		event.Kind = TurnSuspend
	}

	e.notify(event)
}

func (e *ChatEngine) notify(event TurnEvent) {
	for _, l := range e.listeners {
		l.OnTurn(event)
	}
}
