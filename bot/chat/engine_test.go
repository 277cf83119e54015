package chat_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"ShopBot/bot/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	sent []chat.Content
	fail bool
}

func (r *recorder) add(c chat.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, c)
	if r.fail {
		return errors.New("delivery failed")
	}
	return nil
}

func (r *recorder) SendText(_, text string) error { return r.add(chat.TextContent(text)) }
func (r *recorder) SendGallery(_, title string, items []chat.MediaRef) error {
	return r.add(chat.GalleryContent(title, items))
}
func (r *recorder) SendCard(_ string, card chat.Card) error { return r.add(chat.CardContent(card)) }
func (r *recorder) SendPrompt(_ string, p chat.PromptRequest) error {
	return r.add(chat.PromptContent(p))
}

type funcStep struct {
	id  chat.StepID
	run func(ctx context.Context, sc *chat.StepContext) (chat.DialogOutcome, error)
}

func (s funcStep) ID() chat.StepID { return s.id }
func (s funcStep) Run(ctx context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	return s.run(ctx, sc)
}

type testWorkflow struct {
	steps      []chat.Step
	validators map[chat.ValidatorID]chat.Validator
}

func (w *testWorkflow) ID() chat.WorkflowID { return "test" }
func (w *testWorkflow) Steps() []chat.Step  { return w.steps }
func (w *testWorkflow) Validators() map[chat.ValidatorID]chat.Validator {
	return w.validators
}

type stack struct {
	popped []chat.WorkflowID
	values []chat.Value
}

func (s *stack) Pop(_ context.Context, _ string, w chat.WorkflowID, values []chat.Value) error {
	s.popped = append(s.popped, w)
	s.values = values
	return nil
}

type listener struct {
	events []chat.TurnEvent
}

func (l *listener) OnTurn(e chat.TurnEvent) { l.events = append(l.events, e) }

func newEngine(t *testing.T, w chat.Workflow) (*chat.ChatEngine, *chat.MemoryChatStateStorage) {
	t.Helper()
	storage := chat.NewMemoryChatStateStorage()
	engine := chat.NewChatEngine(storage, slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine.RegisterWorkflow(w)
	return engine, storage
}

// colorWorkflow: pick a color, then a number in (0,10), then done.
func colorWorkflow() *testWorkflow {
	return &testWorkflow{
		validators: map[chat.ValidatorID]chat.Validator{
			"digit": chat.RangeValidator{Lower: 0, Upper: 10},
		},
		steps: []chat.Step{
			funcStep{id: "color", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
				return sc.Prompt("Pick a color", chat.OptionsFromLabels("Red", "Blue")), nil
			}},
			funcStep{id: "number", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
				label, _ := sc.Result.Choice()
				sc.State.Set("color", label)
				sc.SendText("You picked " + label)
				return sc.PromptWith("Pick a digit", "digit"), nil
			}},
			funcStep{id: "done", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
				sc.State.Set("digit", sc.Result.Value)
				sc.SendText("Done")
				return sc.End(), nil
			}},
		},
	}
}

func TestEngine_StartSuspendsOnFirstPrompt(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	m := &recorder{}
	ctx := context.Background()

	turn, err := engine.Start(ctx, m, "test", "c1")
	require.NoError(t, err)

	require.NotNil(t, turn.Prompt)
	assert.Equal(t, []string{"Red", "Blue"}, turn.Prompt.Options.Labels())
	assert.Equal(t, chat.OutcomeSuspend, turn.Outcome().Kind)
	assert.Equal(t, 0, turn.Position)

	state, err := storage.Load(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, 0, state.Position)
	assert.Empty(t, state.Values)
	assert.Equal(t, turn.Prompt, state.Pending)

	require.Len(t, m.sent, 1)
	assert.Equal(t, chat.ContentPrompt, m.sent[0].Kind)
}

func TestEngine_UnknownWorkflow(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())

	_, err := engine.Start(context.Background(), nil, "missing", "c1")
	assert.ErrorIs(t, err, chat.ErrWorkflowNotFound)
}

func TestEngine_FullRun(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	st := &stack{}
	engine.SetDialogStack(st)
	m := &recorder{}
	ctx := context.Background()

	_, err := engine.Start(ctx, m, "test", "c1")
	require.NoError(t, err)

	turn, err := engine.Resume(ctx, m, "c1", chat.SelectedLabel("Blue"))
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Position)
	require.Len(t, turn.Content, 2)
	assert.Equal(t, "You picked Blue", turn.Content[0].Text)
	assert.Equal(t, chat.ContentPrompt, turn.Content[1].Kind)

	turn, err = engine.Resume(ctx, m, "c1", chat.FreeformText("7"))
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	assert.Equal(t, chat.OutcomeComplete, turn.Outcome().Kind)
	assert.Equal(t, []chat.Value{{Key: "color", Value: "Blue"}, {Key: "digit", Value: 7}}, turn.Values)

	state, err := storage.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, state, "state is cleared on completion")

	assert.Equal(t, []chat.WorkflowID{"test"}, st.popped)
	assert.Equal(t, turn.Values, st.values)
}

func TestEngine_ResumeRunsFollowingStep(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)
	_, err = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Red"))
	require.NoError(t, err)

	state, err := storage.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Position)
	assert.Equal(t, "Red", state.GetString("color"))
	assert.Equal(t, chat.ValidatorID("digit"), state.Pending.Validator)
}

func TestEngine_PromptFromLastStepEndsWaterfall(t *testing.T) {
	w := &testWorkflow{steps: []chat.Step{
		funcStep{id: "only", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
			sc.State.Set("asked", true)
			return sc.Prompt("Ready?", chat.OptionsFromLabels("Yes")), nil
		}},
	}}
	engine, storage := newEngine(t, w)
	st := &stack{}
	engine.SetDialogStack(st)
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)

	turn, err := engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Yes"))
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	assert.Equal(t, 0, turn.Position)
	assert.Equal(t, []chat.WorkflowID{"test"}, st.popped)

	state, err := storage.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestEngine_ChoiceByNumberAndCase(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)
	turn, err := engine.Resume(ctx, nil, "c1", chat.FreeformText("2"))
	require.NoError(t, err)
	assert.Equal(t, "You picked Blue", turn.Content[0].Text)

	_, err = engine.Start(ctx, nil, "test", "c2")
	require.NoError(t, err)
	turn, err = engine.Resume(ctx, nil, "c2", chat.FreeformText("  red "))
	require.NoError(t, err)
	assert.Equal(t, "You picked Red", turn.Content[0].Text)
}

func TestEngine_RejectedInputIsIdempotent(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)
	_, err = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Red"))
	require.NoError(t, err)

	before, err := storage.Load(ctx, "c1")
	require.NoError(t, err)

	first, err := engine.Resume(ctx, nil, "c1", chat.FreeformText("42"))
	require.NoError(t, err)
	second, err := engine.Resume(ctx, nil, "c1", chat.FreeformText("42"))
	require.NoError(t, err)

	assert.True(t, first.Retry)
	assert.True(t, second.Retry)
	assert.Equal(t, first.Prompt, second.Prompt)
	assert.Equal(t, before.Pending, first.Prompt)

	after, err := storage.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestEngine_UnmatchedChoiceRetries(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())
	m := &recorder{}
	ctx := context.Background()

	_, err := engine.Start(ctx, m, "test", "c1")
	require.NoError(t, err)

	turn, err := engine.Resume(ctx, m, "c1", chat.SelectedLabel("Green"))
	require.NoError(t, err)
	assert.True(t, turn.Retry)
	assert.Equal(t, []string{"Red", "Blue"}, turn.Prompt.Options.Labels())
	require.Len(t, m.sent, 2)
	assert.Equal(t, m.sent[0], m.sent[1], "the same prompt is re-issued")
}

func TestEngine_ResumeWithoutStateIsProtocolError(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())

	_, err := engine.Resume(context.Background(), nil, "nobody", chat.SelectedLabel("Red"))
	require.Error(t, err)
	assert.True(t, chat.IsProtocolError(err))
}

func TestEngine_StepErrorLeavesStateUntouched(t *testing.T) {
	w := colorWorkflow()
	w.steps[1] = funcStep{id: "number", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
		sc.State.Set("color", "mutated")
		sc.SendText("should not be delivered")
		return chat.DialogOutcome{}, errors.New("boom")
	}}
	engine, storage := newEngine(t, w)
	m := &recorder{}
	ctx := context.Background()

	_, err := engine.Start(ctx, m, "test", "c1")
	require.NoError(t, err)
	before, _ := storage.Load(ctx, "c1")

	_, err = engine.Resume(ctx, m, "c1", chat.SelectedLabel("Red"))
	var se *chat.StepExecutionError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, chat.StepID("number"), se.Step)
	assert.Equal(t, 1, se.Position)

	after, _ := storage.Load(ctx, "c1")
	assert.Equal(t, before, after)
	assert.Len(t, m.sent, 1, "only the first prompt was delivered")
}

func TestEngine_StepPanicIsStepExecutionError(t *testing.T) {
	w := colorWorkflow()
	w.steps[1] = funcStep{id: "number", run: func(_ context.Context, _ *chat.StepContext) (chat.DialogOutcome, error) {
		panic("unexpected")
	}}
	engine, _ := newEngine(t, w)
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)

	_, err = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Red"))
	var se *chat.StepExecutionError
	assert.ErrorAs(t, err, &se)
}

func TestEngine_CatalogMiscoverageIsSurfaced(t *testing.T) {
	w := colorWorkflow()
	w.steps[1] = funcStep{id: "number", run: func(_ context.Context, _ *chat.StepContext) (chat.DialogOutcome, error) {
		return chat.DialogOutcome{}, &chat.CatalogMiscoverageError{Level: "item", Key: "Red"}
	}}
	engine, storage := newEngine(t, w)
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)

	_, err = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Red"))
	assert.True(t, chat.IsCatalogMiscoverage(err))

	state, _ := storage.Load(ctx, "c1")
	assert.Equal(t, 0, state.Position, "position is not advanced")
}

func TestEngine_CancelledTurnEmitsNothing(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	m := &recorder{}

	_, err := engine.Start(context.Background(), m, "test", "c1")
	require.NoError(t, err)
	before, _ := storage.Load(context.Background(), "c1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.Resume(ctx, m, "c1", chat.SelectedLabel("Red"))
	assert.ErrorIs(t, err, context.Canceled)

	after, _ := storage.Load(context.Background(), "c1")
	assert.Equal(t, before, after)
	assert.Len(t, m.sent, 1)
}

func TestEngine_ContinueChainsWithinTurn(t *testing.T) {
	w := &testWorkflow{steps: []chat.Step{
		funcStep{id: "ask", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
			return sc.Prompt("Go?", chat.OptionsFromLabels("Yes")), nil
		}},
		funcStep{id: "transform", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
			sc.State.Set("answer", sc.Result.Label)
			return sc.Next(), nil
		}},
		funcStep{id: "end", run: func(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
			assert.Equal(t, chat.ResultNoInput, sc.Result.Kind)
			sc.SendText("answer was " + sc.State.GetString("answer"))
			return sc.End(), nil
		}},
	}}
	engine, _ := newEngine(t, w)
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)

	turn, err := engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Yes"))
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	assert.Equal(t, "answer was Yes", turn.Content[0].Text)
}

func TestEngine_EndlessChainIsBounded(t *testing.T) {
	w := &testWorkflow{steps: []chat.Step{
		funcStep{id: "loop", run: func(_ context.Context, _ *chat.StepContext) (chat.DialogOutcome, error) {
			return chat.Continue(0), nil
		}},
	}}
	engine, _ := newEngine(t, w)
	engine.SetMaxTransitions(5)

	_, err := engine.Start(context.Background(), nil, "test", "c1")
	var se *chat.StepExecutionError
	assert.ErrorAs(t, err, &se)
}

func TestEngine_DeliveryFailureDoesNotAbortTurn(t *testing.T) {
	engine, storage := newEngine(t, colorWorkflow())
	m := &recorder{fail: true}
	ctx := context.Background()

	turn, err := engine.Start(ctx, m, "test", "c1")
	require.NoError(t, err)
	assert.NotNil(t, turn.Prompt)

	state, _ := storage.Load(ctx, "c1")
	assert.NotNil(t, state)
}

func TestEngine_ReportsTurnsToListeners(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())
	l := &listener{}
	engine.AddTurnListener(l)
	ctx := context.Background()

	_, _ = engine.Start(ctx, nil, "test", "c1")
	_, _ = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Purple"))
	_, _ = engine.Resume(ctx, nil, "c1", chat.SelectedLabel("Red"))
	_, _ = engine.Resume(ctx, nil, "c1", chat.FreeformText("3"))
	_, _ = engine.Resume(ctx, nil, "c1", chat.FreeformText("3"))

	require.Len(t, l.events, 5)
	kinds := make([]chat.TurnKind, len(l.events))
	for i, e := range l.events {
		kinds[i] = e.Kind
	}
	assert.Equal(t, []chat.TurnKind{
		chat.TurnSuspend, chat.TurnRetry, chat.TurnSuspend, chat.TurnComplete, chat.TurnError,
	}, kinds)
	assert.Equal(t, chat.StepID("color"), l.events[0].Step)
	assert.Equal(t, chat.StepID("number"), l.events[2].Step)
	assert.Equal(t, chat.StepID("done"), l.events[3].Step)
}

func TestEngine_HasActiveWorkflowAndClear(t *testing.T) {
	engine, _ := newEngine(t, colorWorkflow())
	ctx := context.Background()

	active, err := engine.HasActiveWorkflow(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, active)

	_, err = engine.Start(ctx, nil, "test", "c1")
	require.NoError(t, err)
	active, _ = engine.HasActiveWorkflow(ctx, "c1")
	assert.True(t, active)

	require.NoError(t, engine.ClearState(ctx, "c1"))
	active, _ = engine.HasActiveWorkflow(ctx, "c1")
	assert.False(t, active)
}
