package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"ShopBot/bot/chat"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const (
	// ConversationPrefix marks conversation ids owned by this channel.
	ConversationPrefix = "telegram:"

	maxMediaGroup  = 10
	defaultPrompt  = "Please choose an option"
	galleryCaption = "<b>%s</b>"
)

// TelegramAPI defines the Telegram bot methods needed by the messenger.
// This avoids importing the concrete bot type and prevents circular imports.
type TelegramAPI interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
	SendPhoto(chatId int64, photo tgbotapi.InputFileOrString, opts *tgbotapi.SendPhotoOpts) (*tgbotapi.Message, error)
	SendMediaGroup(chatId int64, media []tgbotapi.InputMedia, opts *tgbotapi.SendMediaGroupOpts) ([]tgbotapi.Message, error)
}

// Messenger implements chat.Messenger for Telegram using reply keyboards.
type Messenger struct {
	api TelegramAPI
}

// NewMessenger creates a new Telegram Messenger.
func NewMessenger(api TelegramAPI) *Messenger {
	return &Messenger{api: api}
}

// ConversationID returns the conversation id of a Telegram chat.
func ConversationID(chatID int64) string {
	return ConversationPrefix + strconv.FormatInt(chatID, 10)
}

// ChatID extracts the Telegram chat id from a conversation id.
func ChatID(conversationID string) (int64, error) {
	raw, ok := strings.CutPrefix(conversationID, ConversationPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram conversation: %s", conversationID)
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (m *Messenger) SendText(conversationID, text string) error {
	id, err := ChatID(conversationID)
	if err != nil {
		return err
	}
	_, err = m.api.SendMessage(id, text, nil)
	return err
}

// SendGallery sends images as media groups of up to ten. Telegram needs
// at least two items per group, so a lone image goes out as a photo.
func (m *Messenger) SendGallery(conversationID, title string, media []chat.MediaRef) error {
	id, err := ChatID(conversationID)
	if err != nil {
		return err
	}

	for start := 0; start < len(media); start += maxMediaGroup {
		chunk := media[start:min(start+maxMediaGroup, len(media))]
		heading := ""
		if start == 0 && title != "" {
			heading = fmt.Sprintf(galleryCaption, html.EscapeString(title)) + "\n"
		}

		if len(chunk) == 1 {
			_, err = m.api.SendPhoto(id, tgbotapi.InputFileByURL(chunk[0].URL), &tgbotapi.SendPhotoOpts{
				Caption:   heading + html.EscapeString(chunk[0].Name),
				ParseMode: "HTML",
			})
			if err != nil {
				return err
			}
			continue
		}

		group := make([]tgbotapi.InputMedia, 0, len(chunk))
		for i, ref := range chunk {
			caption := html.EscapeString(ref.Name)
			if i == 0 {
				caption = heading + caption
			}
			group = append(group, tgbotapi.InputMediaPhoto{
				Media:     tgbotapi.InputFileByURL(ref.URL),
				Caption:   caption,
				ParseMode: "HTML",
			})
		}
		if _, err = m.api.SendMediaGroup(id, group, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *Messenger) SendCard(conversationID string, card chat.Card) error {
	id, err := ChatID(conversationID)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("<b>%s</b>", html.EscapeString(card.Title))
	if card.Text != "" {
		caption += "\n" + html.EscapeString(card.Text)
	}
	if card.ImageURL == "" {
		_, err = m.api.SendMessage(id, caption, &tgbotapi.SendMessageOpts{ParseMode: "HTML"})
		return err
	}
	_, err = m.api.SendPhoto(id, tgbotapi.InputFileByURL(card.ImageURL), &tgbotapi.SendPhotoOpts{
		Caption:   caption,
		ParseMode: "HTML",
	})
	return err
}

// SendPrompt shows the options as a reply keyboard. A prompt without
// options hides any keyboard left from earlier prompts.
func (m *Messenger) SendPrompt(conversationID string, prompt chat.PromptRequest) error {
	id, err := ChatID(conversationID)
	if err != nil {
		return err
	}
	text := prompt.Text
	if text == "" {
		text = defaultPrompt
	}
	opts := &tgbotapi.SendMessageOpts{}
	if len(prompt.Options) > 0 {
		opts.ReplyMarkup = OptionsKeyboard(prompt.Options)
	} else {
		opts.ReplyMarkup = RemoveKeyboard()
	}
	_, err = m.api.SendMessage(id, text, opts)
	return err
}
