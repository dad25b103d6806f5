package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"NewsNavigator/internal/config"
	"NewsNavigator/internal/ports"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageRunes = 4000

// Notifier sends run summaries to a Telegram chat via the bot API.
type Notifier struct {
	token    string
	chatID   int64
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier validates the bot token and chat identifier. The bot itself is
// created on the first Notify so that startup does not depend on Telegram.
func NewNotifier(cfg config.TelegramConfig, client *http.Client) (*Notifier, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(cfg.ChatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse telegram chat id %q: %w", cfg.ChatID, err)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Notifier{
		token:    cfg.BotToken,
		chatID:   chatID,
		endpoint: endpoint,
		client:   client,
	}, nil
}

// Notify posts the title and content as one plain-text message.
func (n *Notifier) Notify(ctx context.Context, note ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := n.botAPI()
	if err != nil {
		return err
	}

	text := strings.TrimSpace(note.Title)
	if content := strings.TrimSpace(note.Content); content != "" {
		text += "\n\n" + content
	}
	if utf8.RuneCountInString(text) > maxMessageRunes {
		text = string([]rune(text)[:maxMessageRunes])
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	// Send takes no context; the request itself is bounded by the client timeout.
	done := make(chan error, 1)
	go func() {
		_, err := bot.Send(msg)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
		return nil
	}
}

func (n *Notifier) botAPI() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.bot != nil {
		return n.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(n.token, n.endpoint, n.client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	n.bot = bot
	return bot, nil
}
