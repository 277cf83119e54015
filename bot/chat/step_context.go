package chat

// StepContext is what a step sees during one invocation: a private copy of
// the conversation state, the accepted answer to the previous prompt and a
// queue for presentation side effects.
type StepContext struct {
	ConversationID string
	Position       int
	State          *ChatState
	Result         StepResult

	effects []Content
}

func newStepContext(state *ChatState, position int, result StepResult) *StepContext {
	return &StepContext{
		ConversationID: state.ConversationID,
		Position:       position,
		State:          state,
		Result:         result,
	}
}

// SendText queues a text message.
func (sc *StepContext) SendText(text string) {
	sc.effects = append(sc.effects, TextContent(text))
}

// SendGallery queues a labeled carousel.
func (sc *StepContext) SendGallery(title string, items []MediaRef) {
	sc.effects = append(sc.effects, GalleryContent(title, items))
}

// SendCard queues a detail card.
func (sc *StepContext) SendCard(card Card) {
	sc.effects = append(sc.effects, CardContent(card))
}

// Prompt suspends the waterfall on a choice between options.
func (sc *StepContext) Prompt(text string, options OptionSet) DialogOutcome {
	return Suspend(PromptRequest{Text: text, Options: options})
}

// PromptWith suspends the waterfall on a prompt guarded by a validator.
func (sc *StepContext) PromptWith(text string, validator ValidatorID) DialogOutcome {
	return Suspend(PromptRequest{Text: text, Validator: validator})
}

// Next runs the following step within the same turn.
func (sc *StepContext) Next() DialogOutcome {
	return Continue(sc.Position + 1)
}

// End terminates the waterfall.
func (sc *StepContext) End() DialogOutcome {
	return Complete()
}

// Effects returns the queued side effects.
func (sc *StepContext) Effects() []Content {
	return sc.effects
}
