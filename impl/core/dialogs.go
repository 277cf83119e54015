package core

import (
	"context"
	"log/slog"

	"ShopBot/bot/chat"
	"ShopBot/entity"
)

// Pop receives the selections of a finished waterfall and keeps them when
// a repository is configured.
func (c *Core) Pop(ctx context.Context, conversationID string, workflowID chat.WorkflowID, values []chat.Value) error {
	dialog := entity.NewCompletedDialog(conversationID, string(workflowID))
	for _, v := range values {
		dialog.Put(v.Key, v.Value)
	}

	c.log.With(
		slog.String("conversation_id", conversationID),
		slog.String("workflow_id", string(workflowID)),
		slog.Any("values", dialog.Values),
	).Info("dialog completed")

	if c.repo == nil {
		return nil
	}
	return c.repo.SaveCompletedDialog(ctx, dialog)
}
