package chat

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Value is one committed selection of a conversation. Whole numbers are
// decoded back as int by both the JSON and BSON decoders, so a state read
// from a store equals the state that was saved.
type Value struct {
	Key   string `json:"key" bson:"key"`
	Value any    `json:"value" bson:"value"`
}

type rawValue struct {
	Key   string `json:"key" bson:"key"`
	Value any    `json:"value" bson:"value"`
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw rawValue
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v.Key = raw.Key
	v.Value = normalize(raw.Value)
	return nil
}

func (v *Value) UnmarshalBSON(data []byte) error {
	var raw rawValue
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.Key = raw.Key
	v.Value = normalize(raw.Value)
	return nil
}

func normalize(value any) any {
	switch n := value.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case int32:
		return int(n)
	case int64:
		return int(n)
	}
	return value
}

// ChatState is the persisted state of one conversation: the waterfall
// position, the outstanding prompt and the ordered selections made so far.
type ChatState struct {
	ConversationID string         `json:"conversation_id" bson:"conversation_id"`
	WorkflowID     WorkflowID     `json:"workflow_id" bson:"workflow_id"`
	Position       int            `json:"position" bson:"position"`
	Pending        *PromptRequest `json:"pending,omitempty" bson:"pending,omitempty"`
	Values         []Value        `json:"values" bson:"values"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

// NewChatState creates an empty state positioned at the first step.
func NewChatState(conversationID string, workflowID WorkflowID) *ChatState {
	return &ChatState{
		ConversationID: conversationID,
		WorkflowID:     workflowID,
		Values:         []Value{},
		UpdatedAt:      time.Now(),
	}
}

// Get returns the value stored under key.
func (s *ChatState) Get(key string) (any, bool) {
	for _, v := range s.Values {
		if v.Key == key {
			return v.Value, true
		}
	}
	return nil, false
}

// GetString retrieves a string value from the state.
func (s *ChatState) GetString(key string) string {
	if v, ok := s.Get(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt retrieves an integer value from the state.
func (s *ChatState) GetInt(key string) int {
	if v, ok := s.Get(key); ok {
		switch val := v.(type) {
		case int:
			return val
		case int32:
			return int(val)
		case int64:
			return int(val)
		case float64:
			return int(val)
		}
	}
	return 0
}

// Set stores a value, replacing an existing key in place so the original
// order is kept.
func (s *ChatState) Set(key string, value any) {
	for i := range s.Values {
		if s.Values[i].Key == key {
			s.Values[i].Value = value
			return
		}
	}
	s.Values = append(s.Values, Value{Key: key, Value: value})
}

// Keys returns the stored keys in insertion order.
func (s *ChatState) Keys() []string {
	keys := make([]string, len(s.Values))
	for i, v := range s.Values {
		keys[i] = v.Key
	}
	return keys
}

// Clone returns a copy that can be mutated without touching s.
func (s *ChatState) Clone() *ChatState {
	if s == nil {
		return nil
	}
	c := *s
	c.Values = make([]Value, len(s.Values))
	copy(c.Values, s.Values)
	if s.Pending != nil {
		p := *s.Pending
		p.Options = make(OptionSet, len(s.Pending.Options))
		for i, o := range s.Pending.Options {
			p.Options[i] = o
			if o.Display != nil {
				d := *o.Display
				p.Options[i].Display = &d
			}
		}
		c.Pending = &p
	}
	return &c
}
