package chat

// Option is a single selectable entry of a prompt.
type Option struct {
	Label   string    `json:"label" yaml:"label" bson:"label" validate:"required"`
	Display *MediaRef `json:"display,omitempty" yaml:"display,omitempty" bson:"display,omitempty"`
}

// OptionSet is an ordered list of options.
type OptionSet []Option

// OptionsFromLabels builds an OptionSet without display payloads.
func OptionsFromLabels(labels ...string) OptionSet {
	set := make(OptionSet, len(labels))
	for i, l := range labels {
		set[i] = Option{Label: l}
	}
	return set
}

// Labels returns the option labels in order.
func (s OptionSet) Labels() []string {
	labels := make([]string, len(s))
	for i, o := range s {
		labels[i] = o.Label
	}
	return labels
}

// Find returns the option with exactly the given label.
func (s OptionSet) Find(label string) (Option, bool) {
	for _, o := range s {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Gallery returns the display payloads of the options that have one.
func (s OptionSet) Gallery() []MediaRef {
	var items []MediaRef
	for _, o := range s {
		if o.Display != nil {
			items = append(items, *o.Display)
		}
	}
	return items
}

// PromptRequest is the suspension point of a conversation: the question
// and the options that will be used to interpret the answer.
type PromptRequest struct {
	Text      string      `json:"text" bson:"text"`
	Options   OptionSet   `json:"options,omitempty" bson:"options,omitempty"`
	Validator ValidatorID `json:"validator,omitempty" bson:"validator,omitempty"`
}

// ResultKind tags a StepResult.
type ResultKind string

const (
	ResultNoInput   ResultKind = "none"
	ResultSelected  ResultKind = "selected"
	ResultValidated ResultKind = "validated"
)

// StepResult is the accepted answer to the previous prompt, fed into the
// next step.
type StepResult struct {
	Kind  ResultKind
	Label string
	Value any
}

// NoInput is the result passed to the first step and to chained steps.
func NoInput() StepResult {
	return StepResult{Kind: ResultNoInput}
}

// Selected is the result of a choice prompt.
func Selected(label string) StepResult {
	return StepResult{Kind: ResultSelected, Label: label}
}

// ValidatedInput is the result of a prompt guarded by a validator.
func ValidatedInput(value any) StepResult {
	return StepResult{Kind: ResultValidated, Value: value}
}

// Choice returns the selected label, if the result is a selection.
func (r StepResult) Choice() (string, bool) {
	if r.Kind != ResultSelected {
		return "", false
	}
	return r.Label, true
}

// OutcomeKind tags a DialogOutcome.
type OutcomeKind string

const (
	OutcomeSuspend  OutcomeKind = "suspend"
	OutcomeContinue OutcomeKind = "continue"
	OutcomeComplete OutcomeKind = "complete"
)

// DialogOutcome is what a step asks the engine to do next.
type DialogOutcome struct {
	Kind   OutcomeKind
	Prompt *PromptRequest
	Next   int
}

// Suspend ends the turn and waits for an answer to the prompt.
func Suspend(prompt PromptRequest) DialogOutcome {
	return DialogOutcome{Kind: OutcomeSuspend, Prompt: &prompt}
}

// Continue runs the step at index next within the same turn.
func Continue(next int) DialogOutcome {
	return DialogOutcome{Kind: OutcomeContinue, Next: next}
}

// Complete terminates the waterfall.
func Complete() DialogOutcome {
	return DialogOutcome{Kind: OutcomeComplete}
}
