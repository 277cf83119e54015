package redis_test

import (
	"context"
	"testing"
	"time"

	"ShopBot/bot/chat"
	"ShopBot/internal/database/redis"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func sampleState() *chat.ChatState {
	state := chat.NewChatState("conv-1", "shop")
	state.Position = 2
	state.Set("category", "Men")
	state.Set("category2", "T-Shirts")
	state.Pending = &chat.PromptRequest{
		Options: chat.OptionSet{
			{Label: "U.S. Polo shirt", Display: &chat.MediaRef{Name: "U.S. Polo shirt", ContentType: "image/png", URL: "https://example.com/polo.png"}},
		},
	}
	state.UpdatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return state
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Save(ctx, sampleState()))

	got, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleState(), got)
}

func TestStoreRoundTripKeepsIntegers(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	saved := chat.NewChatState("conv-2", "profile")
	saved.Position = 2
	saved.Set("name", "Ada")
	saved.Set("age", 36)
	saved.Pending = &chat.PromptRequest{Text: "Please attach a profile picture", Validator: "profile.picture"}
	saved.UpdatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, saved))

	got, err := store.Load(ctx, "conv-2")
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	assert.Equal(t, 36, got.GetInt("age"))
}

func TestStoreLoadMissing(t *testing.T) {
	store, _ := newStore(t)

	got, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.Save(ctx, sampleState()))
	require.NoError(t, store.Delete(ctx, "conv-1"))

	got, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStorePrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, redis.WithPrefix("test:"), redis.WithTTL(time.Hour))

	require.NoError(t, store.Save(ctx, sampleState()))

	assert.True(t, mr.Exists("test:conv-1"))
	assert.Equal(t, time.Hour, mr.TTL("test:conv-1"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Load(ctx, "conv-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	a := sampleState()
	b := sampleState()
	b.ConversationID = "conv-2"
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"conv-1", "conv-2"}, ids)
}
