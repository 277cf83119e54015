package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ShopBot/bot/chat"
	"ShopBot/bot/chat/plaintext"
	"ShopBot/internal/lib/sl"
)

const consoleConversation = "console:local"

// Console runs a dialog over a line-oriented stream, for local testing
// without a messaging channel.
type Console struct {
	in     io.Reader
	out    io.Writer
	engine Engine
	log    *slog.Logger
}

func NewConsole(in io.Reader, out io.Writer, engine Engine, log *slog.Logger) *Console {
	return &Console{
		in:     in,
		out:    out,
		engine: engine,
		log:    log.With(sl.Module("console")),
	}
}

func (c *Console) SendMessage(_, text string) error {
	_, err := fmt.Fprintln(c.out, strings.TrimRight(text, "\n"))
	return err
}

// Run starts workflowID and feeds it one reply per line until the dialog
// completes, the input ends or ctx is done. An empty line is an empty reply.
func (c *Console) Run(ctx context.Context, workflowID chat.WorkflowID) error {
	m := plaintext.NewMessenger(c)

	turn, err := c.engine.Start(ctx, m, workflowID, consoleConversation)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(c.in)
	for !turn.Completed && scanner.Scan() {
		if err = ctx.Err(); err != nil {
			return err
		}
		input := chat.Empty()
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			input = chat.FreeformText(line)
		}
		turn, err = c.engine.Resume(ctx, m, consoleConversation, input)
		if err != nil {
			return err
		}
	}
	if err = scanner.Err(); err != nil {
		return err
	}

	if turn.Completed {
		c.log.Debug("console dialog completed", slog.Any("values", turn.Values))
	} else {
		_ = c.engine.ClearState(ctx, consoleConversation)
	}
	return nil
}
