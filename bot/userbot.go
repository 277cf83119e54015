package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/profile"
	"ShopBot/bot/chat/shop"
	"ShopBot/bot/chat/telegram"
	"ShopBot/entity"
	"ShopBot/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

const (
	turnTimeout  = 30 * time.Second
	photoType    = "image/jpeg"
	fileRefShape = "tg://file/%s"
)

// Engine runs dialog turns for a conversation.
type Engine interface {
	Start(ctx context.Context, m chat.Messenger, workflowID chat.WorkflowID, conversationID string) (*chat.Turn, error)
	Resume(ctx context.Context, m chat.Messenger, conversationID string, input chat.RawInput) (*chat.Turn, error)
	ClearState(ctx context.Context, conversationID string) error
}

// UserBot is the Telegram host of the shop and profile dialogs.
type UserBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	engine      Engine
}

// NewUserBot creates a new user bot instance.
func NewUserBot(botName, apiKey string, log *slog.Logger) (*UserBot, error) {
	bot := &UserBot{
		log:         log.With(sl.Module("userbot")),
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api

	return bot, nil
}

// SetEngine sets the dialog engine for the bot.
func (b *UserBot) SetEngine(engine Engine) {
	b.engine = engine
}

// Start begins polling for updates and handling them.
func (b *UserBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			b.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", b.handleCommand(shop.WorkflowID)))
	dispatcher.AddHandler(handlers.NewCommand("profile", b.handleCommand(profile.WorkflowID)))
	dispatcher.AddHandler(handlers.NewCommand("cancel", b.handleCancel))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))
	dispatcher.AddHandler(handlers.NewMessage(message.Photo, b.handleMessage))
	dispatcher.AddHandler(handlers.NewMessage(message.Document, b.handleMessage))

	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("user bot started", slog.String("username", b.botUsername))

	updater.Idle()

	return nil
}

func (b *UserBot) handleCommand(workflowID chat.WorkflowID) handlers.Response {
	return func(bot *tgbotapi.Bot, ctx *ext.Context) error {
		if b.engine == nil {
			b.log.Warn("dialog engine not initialized")
			return nil
		}
		c, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		return b.start(c, telegram.NewMessenger(bot), ctx.EffectiveChat.Id, workflowID)
	}
}

func (b *UserBot) handleCancel(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.engine == nil {
		return nil
	}
	c, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	if err := b.engine.ClearState(c, telegram.ConversationID(ctx.EffectiveChat.Id)); err != nil {
		return err
	}
	_, err := bot.SendMessage(ctx.EffectiveChat.Id, "Cancelled. Send /start to browse again.", &tgbotapi.SendMessageOpts{
		ReplyMarkup: telegram.RemoveKeyboard(),
	})
	return err
}

// handleMessage feeds a reply to the waiting prompt.
func (b *UserBot) handleMessage(bot *tgbotapi.Bot, ctx *ext.Context) error {
	if b.engine == nil {
		return nil
	}
	c, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	return b.converse(c, telegram.NewMessenger(bot), ctx.EffectiveChat.Id, InputFromMessage(ctx.EffectiveMessage))
}

// converse resumes the conversation. A chat with nothing to resume
// starts over with the shop.
func (b *UserBot) converse(ctx context.Context, m chat.Messenger, chatID int64, input chat.RawInput) error {
	id := telegram.ConversationID(chatID)

	_, err := b.engine.Resume(ctx, m, id, input)
	if chat.IsProtocolError(err) {
		b.log.Debug("no dialog to resume, restarting", slog.String("conversation_id", id))
		return b.start(ctx, m, chatID, shop.WorkflowID)
	}
	if err != nil {
		b.log.Error("dialog turn",
			slog.String("conversation_id", id),
			sl.Err(err),
		)
	}
	return err
}

func (b *UserBot) start(ctx context.Context, m chat.Messenger, chatID int64, workflowID chat.WorkflowID) error {
	id := telegram.ConversationID(chatID)
	_, err := b.engine.Start(ctx, m, workflowID, id)
	if err != nil {
		b.log.Error("failed to start dialog",
			slog.String("conversation_id", id),
			slog.String("workflow_id", string(workflowID)),
			sl.Err(err),
		)
	}
	return err
}

// InputFromMessage converts a Telegram message to a dialog reply.
func InputFromMessage(msg *tgbotapi.Message) chat.RawInput {
	if msg == nil {
		return chat.Empty()
	}
	if len(msg.Photo) > 0 {
		// sizes come smallest first
		photo := msg.Photo[len(msg.Photo)-1]
		return chat.Attachments(entity.Attachment{
			Name:        photo.FileUniqueId,
			ContentType: photoType,
			URL:         fmt.Sprintf(fileRefShape, photo.FileId),
			Size:        photo.FileSize,
		})
	}
	if msg.Document != nil {
		return chat.Attachments(entity.Attachment{
			Name:        msg.Document.FileName,
			ContentType: msg.Document.MimeType,
			URL:         fmt.Sprintf(fileRefShape, msg.Document.FileId),
			Size:        msg.Document.FileSize,
		})
	}
	if msg.Text != "" {
		return chat.FreeformText(msg.Text)
	}
	return chat.Empty()
}
