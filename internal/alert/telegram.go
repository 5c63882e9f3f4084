package alert

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pulsemon/pulsemon/internal/model"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramDispatcher sends alerts as Telegram bot messages.
type TelegramDispatcher struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
}

// NewTelegramDispatcher creates a dispatcher for the given bot token and chat.
func NewTelegramDispatcher(token, chatID string) *TelegramDispatcher {
	return &TelegramDispatcher{
		apiBase: defaultTelegramAPI,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one sendMessage request. The message text is prefixed with the
// severity tag.
func (d *TelegramDispatcher) Send(ctx context.Context, event model.AlertEvent) error {
	form := url.Values{
		"chat_id": {d.chatID},
		"text":    {fmt.Sprintf("[%s] %s", event.Severity, event.Message)},
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", d.apiBase, d.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned %s", resp.Status)
	}
	return nil
}
