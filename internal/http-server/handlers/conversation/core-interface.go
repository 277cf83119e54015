package conversation

import (
	"context"

	"ShopBot/bot/chat"
	"ShopBot/entity"
)

type Core interface {
	StartConversation(ctx context.Context, workflowID, conversationID string) (*chat.Turn, error)
	ResumeConversation(ctx context.Context, conversationID string, input chat.RawInput) (*chat.Turn, error)
	ConversationState(ctx context.Context, conversationID string) (*chat.ChatState, error)
	ActiveConversations(ctx context.Context) ([]string, error)
	ResetConversation(ctx context.Context, conversationID string) error
	CompletedDialogs(ctx context.Context, conversationID string) ([]entity.CompletedDialog, error)
}
