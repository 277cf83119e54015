package chat

// Messenger is the platform UI adapter interface.
// Each platform implements this to deliver content to a conversation.
// Delivery is fire-and-forget for the engine: errors are logged, not retried.
type Messenger interface {
	SendText(conversationID, text string) error
	SendGallery(conversationID, title string, items []MediaRef) error
	SendCard(conversationID string, card Card) error
	SendPrompt(conversationID string, prompt PromptRequest) error
}

// MediaRef points at a displayable image.
type MediaRef struct {
	Name        string `json:"name" yaml:"name" bson:"name" validate:"required"`
	ContentType string `json:"content_type" yaml:"content_type" bson:"content_type"`
	URL         string `json:"url" yaml:"url" bson:"url" validate:"required,url"`
}

// Card is a single-item detail view.
type Card struct {
	Title    string `json:"title" bson:"title"`
	Text     string `json:"text" bson:"text"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// ContentKind tags a Content value.
type ContentKind string

const (
	ContentText    ContentKind = "text"
	ContentGallery ContentKind = "gallery"
	ContentCard    ContentKind = "card"
	ContentPrompt  ContentKind = "prompt"
)

// Content is one presentation side effect, in emission order.
type Content struct {
	Kind    ContentKind    `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Gallery []MediaRef     `json:"gallery,omitempty"`
	Card    *Card          `json:"card,omitempty"`
	Prompt  *PromptRequest `json:"prompt,omitempty"`
}

// TextContent builds a plain text message.
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// GalleryContent builds a labeled carousel.
func GalleryContent(title string, items []MediaRef) Content {
	return Content{Kind: ContentGallery, Text: title, Gallery: items}
}

// CardContent builds a detail card.
func CardContent(card Card) Content {
	return Content{Kind: ContentCard, Card: &card}
}

// PromptContent surfaces a prompt.
func PromptContent(prompt PromptRequest) Content {
	return Content{Kind: ContentPrompt, Prompt: &prompt}
}

// deliver hands a content value to the matching messenger method.
func deliver(m Messenger, conversationID string, c Content) error {
	switch c.Kind {
	case ContentText:
		return m.SendText(conversationID, c.Text)
	case ContentGallery:
		return m.SendGallery(conversationID, c.Text, c.Gallery)
	case ContentCard:
		if c.Card == nil {
			return nil
		}
		return m.SendCard(conversationID, *c.Card)
	case ContentPrompt:
		if c.Prompt == nil {
			return nil
		}
		return m.SendPrompt(conversationID, *c.Prompt)
	}
	return nil
}
