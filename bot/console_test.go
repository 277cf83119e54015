package bot

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/catalog"
	"ShopBot/bot/chat/profile"
	"ShopBot/bot/chat/shop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consoleEngine(t *testing.T) (*chat.ChatEngine, *slog.Logger) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.Default()
	require.NoError(t, err)

	engine := chat.NewChatEngine(chat.NewMemoryChatStateStorage(), log)
	engine.RegisterWorkflow(shop.NewShopWorkflow(cat))
	engine.RegisterWorkflow(profile.NewProfileWorkflow())
	return engine, log
}

func TestConsoleShopByNumbers(t *testing.T) {
	engine, log := consoleEngine(t)
	var out bytes.Buffer

	in := strings.NewReader("1\n1\n2\n1\n")
	require.NoError(t, NewConsole(in, &out, engine, log).Run(context.Background(), shop.WorkflowID))

	text := out.String()
	assert.Contains(t, text, "1. Men")
	assert.Contains(t, text, "Here are Men collections")
	assert.True(t, strings.HasSuffix(text, "U.S. Polo Assn Men Fit Casual T-shirt has been added to cart.\n"))

	active, err := engine.HasActiveWorkflow(context.Background(), consoleConversation)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestConsoleStopsAtEndOfInput(t *testing.T) {
	engine, log := consoleEngine(t)
	var out bytes.Buffer

	require.NoError(t, NewConsole(strings.NewReader("Men\n"), &out, engine, log).Run(context.Background(), shop.WorkflowID))

	state, err := engine.GetState(context.Background(), consoleConversation)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestConsoleEmptyLineSkipsPicture(t *testing.T) {
	engine, log := consoleEngine(t)
	var out bytes.Buffer

	in := strings.NewReader("Ada\n36\n\n")
	require.NoError(t, NewConsole(in, &out, engine, log).Run(context.Background(), profile.WorkflowID))

	assert.Contains(t, out.String(), "Thanks Ada, you are 36.")
}
