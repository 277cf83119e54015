package profile

import (
	"context"
	"fmt"

	"ShopBot/bot/chat"
	"ShopBot/entity"
)

// NameStep asks for the user's name.
type NameStep struct{}

func (s *NameStep) ID() chat.StepID { return StepName }

func (s *NameStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	return sc.PromptWith("Please enter your name.", ValidatorName), nil
}

// AgeStep records the name and asks for the age.
type AgeStep struct{}

func (s *AgeStep) ID() chat.StepID { return StepAge }

func (s *AgeStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	name, ok := sc.Result.Value.(string)
	if !ok {
		return chat.DialogOutcome{}, fmt.Errorf("unexpected name result %T", sc.Result.Value)
	}
	sc.State.Set(KeyName, name)
	return sc.PromptWith("Please enter your age.", ValidatorAge), nil
}

// PictureStep records the age and asks for a profile picture.
type PictureStep struct{}

func (s *PictureStep) ID() chat.StepID { return StepPicture }

func (s *PictureStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	age, ok := sc.Result.Value.(int)
	if !ok {
		return chat.DialogOutcome{}, fmt.Errorf("unexpected age result %T", sc.Result.Value)
	}
	sc.State.Set(KeyAge, age)
	return sc.PromptWith("Please attach a profile picture (or send any message to skip).", ValidatorPicture), nil
}

// SaveStep records the picture, if any, and moves straight on.
type SaveStep struct{}

func (s *SaveStep) ID() chat.StepID { return StepSave }

func (s *SaveStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	picture := ""
	if images, ok := sc.Result.Value.([]entity.Attachment); ok && len(images) > 0 {
		picture = images[0].URL
		if picture == "" {
			picture = images[0].Name
		}
	}
	sc.State.Set(KeyPicture, picture)
	return sc.Next(), nil
}

// SummaryStep shows what was collected and ends the waterfall.
type SummaryStep struct{}

func (s *SummaryStep) ID() chat.StepID { return StepSummary }

func (s *SummaryStep) Run(_ context.Context, sc *chat.StepContext) (chat.DialogOutcome, error) {
	msg := fmt.Sprintf("Thanks %s, you are %d.", sc.State.GetString(KeyName), sc.State.GetInt(KeyAge))
	if picture := sc.State.GetString(KeyPicture); picture != "" {
		msg += " Your profile picture is saved."
	}
	sc.SendText(msg)
	return sc.End(), nil
}
