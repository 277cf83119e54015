package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ShopBot/internal/config"
	"ShopBot/internal/lib/sl"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	apiKeysCollection = "api-keys"
	dialogsCollection = "dialogs"
)

type MongoDB struct {
	clientOptions *options.ClientOptions
	database      string
	log           *slog.Logger
}

// NewMongoClient returns nil when mongo is disabled in the config.
func NewMongoClient(conf *config.Config, logger *slog.Logger) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	if conf.Mongo.Database == "" {
		return nil, fmt.Errorf("mongo database name is empty")
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
		log:           logger.With(sl.Module("mongodb")),
	}
	return client, nil
}

func (m *MongoDB) connect(ctx context.Context) (*mongo.Client, error) {
	connection, err := mongo.Connect(ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect error: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	if err := connection.Disconnect(context.Background()); err != nil {
		m.log.Debug("disconnect", sl.Err(err))
	}
}

func (m *MongoDB) findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return fmt.Errorf("mongodb find error: %w", err)
}

// CheckApiKey returns the username owning key, or an empty string.
func (m *MongoDB) CheckApiKey(ctx context.Context, key string) (string, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)
	filter := bson.D{{Key: "key", Value: key}}

	var result struct {
		Username string `bson:"username"`
		Key      string `bson:"key"`
	}
	err = collection.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		return "", m.findError(err)
	}
	return result.Username, nil
}

// GenerateApiKey returns the key of username, creating one on first use.
func (m *MongoDB) GenerateApiKey(ctx context.Context, username string) (string, error) {
	connection, err := m.connect(ctx)
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(apiKeysCollection)

	var existing struct {
		Key string `bson:"key"`
	}
	err = collection.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&existing)
	if err = m.findError(err); err != nil {
		return "", err
	}
	if existing.Key != "" {
		return existing.Key, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("uuid generation error: %w", err)
	}
	key := id.String()

	doc := bson.D{
		{Key: "username", Value: username},
		{Key: "key", Value: key},
	}
	if _, err = collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}
	return key, nil
}
