// Package telegram provides a client for sending run notifications via Telegram Bot API.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/astrotrader/internal/models"
)

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendError reports a fatal configuration failure.
func (c *Client) SendError(resolveErr error) error {
	return c.sendMarkdownV2(formatError(resolveErr))
}

// SendResolved announces a successfully resolved run.
func (c *Client) SendResolved(run *models.Run) error {
	return c.sendMarkdownV2(formatRun(run))
}

func formatError(err error) string {
	return fmt.Sprintf("⚠️ *Configuration failed*\n`%s`", escapeMarkdownV2(err.Error()))
}

// formatRun formats a run into a Telegram MarkdownV2 message.
func formatRun(run *models.Run) string {
	var b strings.Builder
	b.WriteString("🔭 *Run resolved*\n\n")
	fmt.Fprintf(&b, "Asset: *%s*\n", escapeMarkdownV2(run.Asset))
	fmt.Fprintf(&b, "Model: %s\n", escapeMarkdownV2(run.Model))
	fmt.Fprintf(&b, "Natal: %s\n", escapeMarkdownV2(run.NatalDate))
	fmt.Fprintf(&b, "Source: `%s`\n", escapeMarkdownV2(run.SourceFile))
	fmt.Fprintf(&b, "Min date: %s\n", escapeMarkdownV2(run.MinimalDate.Format("2006-01-02")))
	fmt.Fprintf(&b, "Partitions: %d\n", run.Partitions)
	fmt.Fprintf(&b, "Run: `%s`", escapeMarkdownV2(run.ID))
	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '\\', '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
