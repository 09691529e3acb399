// Package notify delivers one-way notifications about newly-found listings.
// Delivery is best-effort by contract: the caller logs failures and moves on.
package notify

import (
	"context"
	"fmt"
)

// Message is one listing notification. Year and Price are already formatted
// for display; "N/A" marks an unknown value.
type Message struct {
	Title string
	Year  string
	Price string
	URL   string
}

// Text renders the message body sent to the channel.
func (m Message) Text() string {
	return fmt.Sprintf("🚗 New listing found!\n\nTitle: %s\nYear: %s\nPrice: %s\nLink: %s",
		m.Title, m.Year, m.Price, m.URL)
}

// Notifier sends a formatted message to the configured recipient.
type Notifier interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
