// Package alerts sends operator notifications over the Telegram Bot API
// for leadership rotations and relay failures, adapted from the teacher's
// global Telegram alerter into an injectable Notifier.
package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Level is an alert severity.
type Level string

const (
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelCritical Level = "CRITICAL"
)

// Alert is a single operator notification.
type Alert struct {
	Level   Level
	Title   string
	Message string
	Details map[string]string
}

// Notifier sends Alerts to a Telegram chat. A nil *Notifier is valid and
// silently drops every Notify call, so wiring it in is optional.
type Notifier struct {
	botToken string
	chatID   string
	client   *http.Client
}

// NewNotifier builds a Notifier. Returns nil if botToken or chatID is empty.
func NewNotifier(botToken, chatID string) *Notifier {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify sends an alert. No-op on a nil receiver.
func (n *Notifier) Notify(ctx context.Context, a Alert) error {
	if n == nil {
		return nil
	}

	emoji := "ℹ️"
	switch a.Level {
	case LevelWarning:
		emoji = "⚠️"
	case LevelCritical:
		emoji = "\U0001f6a8"
	}

	message := fmt.Sprintf("%s *%s*\n\n*%s*\n\n%s", emoji, a.Level, a.Title, a.Message)
	for key, value := range a.Details {
		message += fmt.Sprintf("\n• %s: `%s`", key, value)
	}

	return n.send(ctx, message)
}

func (n *Notifier) send(ctx context.Context, text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)

	payload := map[string]interface{}{
		"chat_id":    n.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("alerts: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("alerts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("alerts: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("alerts: telegram API error: %s", string(respBody))
	}
	return nil
}
