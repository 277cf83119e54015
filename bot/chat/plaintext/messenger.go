// Package plaintext renders dialog output for channels that carry text only.
package plaintext

import (
	"fmt"
	"strings"

	"ShopBot/bot/chat"
)

// MessageSender can send a text message to a recipient.
type MessageSender interface {
	SendMessage(conversationID, text string) error
}

// Messenger implements chat.Messenger with text messages. Prompts become
// numbered menus and images are listed by name and link.
type Messenger struct {
	sender MessageSender
}

// NewMessenger creates a new plain text Messenger.
func NewMessenger(sender MessageSender) *Messenger {
	return &Messenger{sender: sender}
}

func (m *Messenger) SendText(conversationID, text string) error {
	return m.sender.SendMessage(conversationID, text)
}

func (m *Messenger) SendGallery(conversationID, title string, media []chat.MediaRef) error {
	var b strings.Builder
	b.WriteString(title)
	for _, ref := range media {
		fmt.Fprintf(&b, "\n[%s] %s", ref.Name, ref.URL)
	}
	return m.sender.SendMessage(conversationID, b.String())
}

func (m *Messenger) SendCard(conversationID string, card chat.Card) error {
	text := card.Title
	if card.Text != "" {
		text += "\n" + card.Text
	}
	if card.ImageURL != "" {
		text += "\n" + card.ImageURL
	}
	return m.sender.SendMessage(conversationID, text)
}

func (m *Messenger) SendPrompt(conversationID string, prompt chat.PromptRequest) error {
	if len(prompt.Options) == 0 {
		return m.sender.SendMessage(conversationID, prompt.Text)
	}
	return m.sender.SendMessage(conversationID, chat.FormatNumberedMenu(prompt.Text, prompt.Options))
}
