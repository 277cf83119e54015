package chat

import "ShopBot/entity"

// InputKind tags a RawInput.
type InputKind string

const (
	InputLabel       InputKind = "label"
	InputText        InputKind = "text"
	InputAttachments InputKind = "attachments"
	InputEmpty       InputKind = "empty"
)

// RawInput is the normalized reply a host delivers on resume.
type RawInput struct {
	Kind        InputKind           `json:"kind" validate:"required,oneof=label text attachments empty"`
	Text        string              `json:"text,omitempty" validate:"required_if=Kind label"`
	Attachments []entity.Attachment `json:"attachments,omitempty" validate:"dive"`
}

// SelectedLabel is a button press or an explicit option label.
func SelectedLabel(label string) RawInput {
	return RawInput{Kind: InputLabel, Text: label}
}

// FreeformText is a typed message.
func FreeformText(text string) RawInput {
	return RawInput{Kind: InputText, Text: text}
}

// Attachments is a reply carrying files.
func Attachments(items ...entity.Attachment) RawInput {
	if items == nil {
		items = []entity.Attachment{}
	}
	return RawInput{Kind: InputAttachments, Attachments: items}
}

// Empty is a reply without content.
func Empty() RawInput {
	return RawInput{Kind: InputEmpty}
}

// HasText reports whether the input carries text a choice can match.
func (in RawInput) HasText() bool {
	return (in.Kind == InputLabel || in.Kind == InputText) && in.Text != ""
}
