package core

import (
	"context"
	"log/slog"
	"sync"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
	"ShopBot/entity"
	"ShopBot/internal/lib/sl"
)

type Repository interface {
	CheckApiKey(ctx context.Context, key string) (string, error)
	GenerateApiKey(ctx context.Context, username string) (string, error)

	SaveCompletedDialog(ctx context.Context, dialog *entity.CompletedDialog) error
	CompletedDialogs(ctx context.Context, conversationID string, limit int64) ([]entity.CompletedDialog, error)
}

// Engine is the dialog engine as seen by the API.
type Engine interface {
	Start(ctx context.Context, m chat.Messenger, workflowID chat.WorkflowID, conversationID string) (*chat.Turn, error)
	Resume(ctx context.Context, m chat.Messenger, conversationID string, input chat.RawInput) (*chat.Turn, error)
	GetState(ctx context.Context, conversationID string) (*chat.ChatState, error)
	ListConversations(ctx context.Context) ([]string, error)
	ClearState(ctx context.Context, conversationID string) error
}

type Core struct {
	repo    Repository
	engine  Engine
	catalog *catalog.Catalog
	authKey string
	keys    map[string]string
	mu      sync.RWMutex
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log:  log.With(sl.Module("core")),
		keys: make(map[string]string),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetEngine(engine Engine) {
	c.engine = engine
}

func (c *Core) SetCatalog(cat *catalog.Catalog) {
	c.catalog = cat
}
