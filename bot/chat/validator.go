package chat

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"ShopBot/entity"
)

// DefaultNoAttachmentNotice is sent when an attachment prompt is answered
// without any attachment.
const DefaultNoAttachmentNotice = "No attachments received. Proceeding without input..."

// Validation is the verdict of a Validator.
type Validation struct {
	Accepted bool
	Value    any
	// Notices are informational messages sent with the verdict.
	Notices []Content
}

// Validator checks a raw reply before it becomes a step result.
type Validator interface {
	Validate(ctx context.Context, input RawInput) Validation
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, input RawInput) Validation

func (f ValidatorFunc) Validate(ctx context.Context, input RawInput) Validation {
	return f(ctx, input)
}

// RangeValidator accepts integers strictly between Lower and Upper.
type RangeValidator struct {
	Lower int
	Upper int
}

func (v RangeValidator) Validate(_ context.Context, input RawInput) Validation {
	if !input.HasText() {
		return Validation{}
	}
	n, err := strconv.Atoi(strings.TrimSpace(input.Text))
	if err != nil {
		return Validation{}
	}
	if n <= v.Lower || n >= v.Upper {
		return Validation{}
	}
	return Validation{Accepted: true, Value: n}
}

// AttachmentValidator keeps only attachments whose content type is allowed.
// A reply with no attachments at all is let through with a notice; a reply
// whose attachments are all filtered out is rejected.
type AttachmentValidator struct {
	Allowed []string
	Notice  string
}

func (v AttachmentValidator) Validate(_ context.Context, input RawInput) Validation {
	if len(input.Attachments) == 0 {
		notice := v.Notice
		if notice == "" {
			notice = DefaultNoAttachmentNotice
		}
		return Validation{
			Accepted: true,
			Value:    []entity.Attachment{},
			Notices:  []Content{TextContent(notice)},
		}
	}

	valid := make([]entity.Attachment, 0, len(input.Attachments))
	for _, a := range input.Attachments {
		if slices.Contains(v.Allowed, a.ContentType) {
			valid = append(valid, a)
		}
	}
	if len(valid) == 0 {
		return Validation{}
	}
	return Validation{Accepted: true, Value: valid}
}

// ChoiceValidator accepts replies that resolve to one of the options.
// The accepted value is the originating Option.
type ChoiceValidator struct {
	Options OptionSet
}

func (v ChoiceValidator) Validate(_ context.Context, input RawInput) Validation {
	if !input.HasText() {
		return Validation{}
	}
	o, ok := MatchOption(input.Text, v.Options)
	if !ok {
		return Validation{}
	}
	return Validation{Accepted: true, Value: o}
}
