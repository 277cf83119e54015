package profile_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/profile"
	"ShopBot/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *chat.ChatEngine {
	t.Helper()
	engine := chat.NewChatEngine(chat.NewMemoryChatStateStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine.RegisterWorkflow(profile.NewProfileWorkflow())
	return engine
}

func TestProfileWorkflow_WithPicture(t *testing.T) {
	engine := setup(t)
	ctx := context.Background()

	turn, err := engine.Start(ctx, nil, profile.WorkflowID, "c1")
	require.NoError(t, err)
	assert.Equal(t, profile.ValidatorName, turn.Prompt.Validator)

	turn, err = engine.Resume(ctx, nil, "c1", chat.FreeformText("  "))
	require.NoError(t, err)
	assert.True(t, turn.Retry, "blank name is rejected")

	turn, err = engine.Resume(ctx, nil, "c1", chat.FreeformText("Ada"))
	require.NoError(t, err)
	assert.Equal(t, profile.ValidatorAge, turn.Prompt.Validator)

	for _, age := range []string{"-1", "150"} {
		turn, err = engine.Resume(ctx, nil, "c1", chat.FreeformText(age))
		require.NoError(t, err)
		assert.True(t, turn.Retry, age)
	}

	turn, err = engine.Resume(ctx, nil, "c1", chat.FreeformText("36"))
	require.NoError(t, err)
	assert.Equal(t, profile.ValidatorPicture, turn.Prompt.Validator)

	turn, err = engine.Resume(ctx, nil, "c1", chat.Attachments(entity.Attachment{Name: "me.gif", ContentType: "image/gif"}))
	require.NoError(t, err)
	assert.True(t, turn.Retry, "gif is not an allowed picture")

	turn, err = engine.Resume(ctx, nil, "c1", chat.Attachments(entity.Attachment{
		Name:        "me.png",
		ContentType: "image/png",
		URL:         "https://example.com/me.png",
	}))
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	require.Len(t, turn.Content, 1)
	assert.Equal(t, "Thanks Ada, you are 36. Your profile picture is saved.", turn.Content[0].Text)
	assert.Equal(t, []chat.Value{
		{Key: profile.KeyName, Value: "Ada"},
		{Key: profile.KeyAge, Value: 36},
		{Key: profile.KeyPicture, Value: "https://example.com/me.png"},
	}, turn.Values)
}

func TestProfileWorkflow_WithoutPicture(t *testing.T) {
	engine := setup(t)
	ctx := context.Background()

	_, err := engine.Start(ctx, nil, profile.WorkflowID, "c1")
	require.NoError(t, err)
	_, err = engine.Resume(ctx, nil, "c1", chat.FreeformText("Ada"))
	require.NoError(t, err)
	_, err = engine.Resume(ctx, nil, "c1", chat.FreeformText("1"))
	require.NoError(t, err)

	turn, err := engine.Resume(ctx, nil, "c1", chat.Attachments())
	require.NoError(t, err)
	assert.True(t, turn.Completed)
	require.Len(t, turn.Content, 2)
	assert.Equal(t, "No attachments received. Proceeding without a profile picture...", turn.Content[0].Text)
	assert.Equal(t, "Thanks Ada, you are 1.", turn.Content[1].Text)
}
