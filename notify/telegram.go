package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTelegramAPI = "https://api.telegram.org"

// Telegram delivers messages through the Telegram Bot API sendMessage call.
type Telegram struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// TelegramOption customizes a Telegram notifier.
type TelegramOption func(*Telegram)

// WithBaseURL points the notifier at a different API host. Used by tests.
func WithBaseURL(u string) TelegramOption {
	return func(t *Telegram) { t.baseURL = u }
}

// WithHTTPClient replaces the default 10-second-timeout client.
func WithHTTPClient(c *http.Client) TelegramOption {
	return func(t *Telegram) { t.client = c }
}

// NewTelegram builds a notifier for the given bot token and chat.
func NewTelegram(token, chatID string, opts ...TelegramOption) *Telegram {
	t := &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: defaultTelegramAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name identifies the notifier in logs.
func (t *Telegram) Name() string { return "telegram" }

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts the message to the chat. A non-OK API response is an error
// carrying the API's description when one is decodable.
func (t *Telegram) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID: t.chatID,
		Text:   msg.Text(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiResp sendMessageResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiResp); err == nil && apiResp.Description != "" {
			return fmt.Errorf("telegram API error: %s (HTTP %d)", apiResp.Description, resp.StatusCode)
		}
		return fmt.Errorf("telegram API error: HTTP %d", resp.StatusCode)
	}

	return nil
}
