package repository

import (
	"context"
	"fmt"
	"time"

	"ShopBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveCompletedDialog records the selections of a finished waterfall.
func (m *MongoDB) SaveCompletedDialog(ctx context.Context, dialog *entity.CompletedDialog) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogsCollection)

	if dialog.CompletedAt.IsZero() {
		dialog.CompletedAt = time.Now()
	}
	if _, err = collection.InsertOne(ctx, dialog); err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

// CompletedDialogs lists the finished dialogs of a conversation, newest first.
func (m *MongoDB) CompletedDialogs(ctx context.Context, conversationID string, limit int64) ([]entity.CompletedDialog, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(dialogsCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationID}}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	var dialogs []entity.CompletedDialog
	if err = cursor.All(ctx, &dialogs); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return dialogs, nil
}
