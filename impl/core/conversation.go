package core

import (
	"context"
	"fmt"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
	"ShopBot/entity"

	"github.com/google/uuid"
)

const (
	webPrefix    = "web:"
	historyLimit = 20
)

// StartConversation begins a workflow. Conversations started without an
// id get a fresh one.
func (c *Core) StartConversation(ctx context.Context, workflowID, conversationID string) (*chat.Turn, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("engine is not set")
	}
	if conversationID == "" {
		conversationID = webPrefix + uuid.NewString()
	}
	return c.engine.Start(ctx, nil, chat.WorkflowID(workflowID), conversationID)
}

func (c *Core) ResumeConversation(ctx context.Context, conversationID string, input chat.RawInput) (*chat.Turn, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("engine is not set")
	}
	return c.engine.Resume(ctx, nil, conversationID, input)
}

// ConversationState returns nil when the conversation has no state.
func (c *Core) ConversationState(ctx context.Context, conversationID string) (*chat.ChatState, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("engine is not set")
	}
	return c.engine.GetState(ctx, conversationID)
}

// ActiveConversations lists the conversations waiting on a reply or
// otherwise holding state.
func (c *Core) ActiveConversations(ctx context.Context) ([]string, error) {
	if c.engine == nil {
		return nil, fmt.Errorf("engine is not set")
	}
	ids, err := c.engine.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (c *Core) ResetConversation(ctx context.Context, conversationID string) error {
	if c.engine == nil {
		return fmt.Errorf("engine is not set")
	}
	c.log.Info("reset conversation")
	return c.engine.ClearState(ctx, conversationID)
}

// CompletedDialogs lists the finished dialogs of a conversation. Without a
// repository there is no history and the list is empty.
func (c *Core) CompletedDialogs(ctx context.Context, conversationID string) ([]entity.CompletedDialog, error) {
	if c.repo == nil {
		return []entity.CompletedDialog{}, nil
	}
	dialogs, err := c.repo.CompletedDialogs(ctx, conversationID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get dialogs: %w", err)
	}
	return dialogs, nil
}

func (c *Core) Catalog() (*catalog.Catalog, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("catalog is not set")
	}
	return c.catalog, nil
}
