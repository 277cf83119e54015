package repository

import (
	"context"
	"errors"
	"time"

	"ShopBot/bot/chat"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const chatStatesCollection = "chat_states"

// SaveChatState upserts a conversation's state by conversation_id.
func (m *MongoDB) SaveChatState(ctx context.Context, state *chat.ChatState) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	state.UpdatedAt = time.Now()

	filter := bson.D{{Key: "conversation_id", Value: state.ConversationID}}
	update := bson.D{{Key: "$set", Value: state}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// LoadChatState returns nil when the conversation has no state.
func (m *MongoDB) LoadChatState(ctx context.Context, conversationID string) (*chat.ChatState, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationID}}

	var state chat.ChatState
	err = collection.FindOne(ctx, filter).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return &state, nil
}

func (m *MongoDB) DeleteChatState(ctx context.Context, conversationID string) error {
	connection, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	filter := bson.D{{Key: "conversation_id", Value: conversationID}}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}

// ListChatStates returns the ids of all stored conversations.
func (m *MongoDB) ListChatStates(ctx context.Context) ([]string, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(chatStatesCollection)

	values, err := collection.Distinct(ctx, "conversation_id", bson.D{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
