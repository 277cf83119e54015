package entity

import (
	"fmt"
	"time"
)

// ProductCard is the detail view of a single catalog item.
type ProductCard struct {
	Title       string `json:"title" yaml:"title" bson:"title" validate:"required"`
	Description string `json:"description" yaml:"description" bson:"description"`
	ImageURL    string `json:"image_url" yaml:"image_url" bson:"image_url" validate:"omitempty,url"`
}

// CompletedDialog is the record kept when a waterfall finishes.
type CompletedDialog struct {
	ConversationID string            `json:"conversation_id" bson:"conversation_id"`
	WorkflowID     string            `json:"workflow_id" bson:"workflow_id"`
	Values         map[string]string `json:"values" bson:"values"`
	CompletedAt    time.Time         `json:"completed_at" bson:"completed_at"`
}

// NewCompletedDialog creates an empty record.
func NewCompletedDialog(conversationID, workflowID string) *CompletedDialog {
	return &CompletedDialog{
		ConversationID: conversationID,
		WorkflowID:     workflowID,
		Values:         make(map[string]string),
	}
}

// Put stores the printable form of v under key.
func (d *CompletedDialog) Put(key string, v any) {
	switch v := v.(type) {
	case string:
		d.Values[key] = v
	case nil:
		d.Values[key] = ""
	default:
		d.Values[key] = fmt.Sprint(v)
	}
}
