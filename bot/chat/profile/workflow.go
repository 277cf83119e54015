// Package profile is the user profile waterfall: name, age and an optional
// picture, followed by a summary.
package profile

import (
	"context"
	"strings"

	"ShopBot/bot/chat"
)

const (
	WorkflowID chat.WorkflowID = "profile"
)

// Step IDs
const (
	StepName    chat.StepID = "name"
	StepAge     chat.StepID = "age"
	StepPicture chat.StepID = "picture"
	StepSave    chat.StepID = "save"
	StepSummary chat.StepID = "summary"
)

// Validator IDs
const (
	ValidatorName    chat.ValidatorID = "profile.name"
	ValidatorAge     chat.ValidatorID = "profile.age"
	ValidatorPicture chat.ValidatorID = "profile.picture"
)

// State keys
const (
	KeyName    = "name"
	KeyAge     = "age"
	KeyPicture = "picture"
)

const noPictureNotice = "No attachments received. Proceeding without a profile picture..."

// ProfileWorkflow collects a small user profile.
type ProfileWorkflow struct {
	steps []chat.Step
}

func NewProfileWorkflow() *ProfileWorkflow {
	return &ProfileWorkflow{
		steps: []chat.Step{
			&NameStep{},
			&AgeStep{},
			&PictureStep{},
			&SaveStep{},
			&SummaryStep{},
		},
	}
}

func (w *ProfileWorkflow) ID() chat.WorkflowID { return WorkflowID }
func (w *ProfileWorkflow) Steps() []chat.Step  { return w.steps }

// Validators implements chat.ValidatorProvider.
func (w *ProfileWorkflow) Validators() map[chat.ValidatorID]chat.Validator {
	return map[chat.ValidatorID]chat.Validator{
		ValidatorName: chat.ValidatorFunc(func(_ context.Context, in chat.RawInput) chat.Validation {
			name := strings.TrimSpace(in.Text)
			if !in.HasText() || name == "" {
				return chat.Validation{}
			}
			return chat.Validation{Accepted: true, Value: name}
		}),
		ValidatorAge: chat.RangeValidator{Lower: 0, Upper: 150},
		ValidatorPicture: chat.AttachmentValidator{
			Allowed: []string{"image/jpeg", "image/png"},
			Notice:  noPictureNotice,
		},
	}
}
