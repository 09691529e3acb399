package notify

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Console writes notifications to a local stream instead of an external
// channel. This is the supported mode when no Telegram credentials are
// configured, not an error path.
type Console struct {
	out io.Writer
}

// NewConsole builds a console notifier writing to w; nil means stdout.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

// Name identifies the notifier in logs.
func (c *Console) Name() string { return "console" }

// Send writes one line per listing.
func (c *Console) Send(_ context.Context, msg Message) error {
	_, err := fmt.Fprintf(c.out, "[new] %s | %s | %s | %s\n",
		msg.Title, msg.Year, msg.Price, msg.URL)
	return err
}
