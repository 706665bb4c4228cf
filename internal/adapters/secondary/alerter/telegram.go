package alerter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/admin/astro/rashi-api/internal/adapters/secondary/telegram"
)

// maxMessageLen лимит Telegram на длину текста сообщения в символах
const maxMessageLen = 4096

var errNotInitialized = errors.New("alerter client is not initialized")

// Client отправляет алерты в чат или топик форума Telegram
type Client struct {
	tg       *telegram.Client
	chatID   int64
	threadID *int64
	log      *slog.Logger
}

// NewClient возвращает nil, если алерты не сконфигурированы
func NewClient(cfg *Config, log *slog.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}

	return &Client{
		tg:       telegram.NewClientWithBaseURL(cfg.APIURL, cfg.BotToken, log),
		chatID:   cfg.ChatID,
		threadID: cfg.MessageThreadID,
		log:      log,
	}
}

func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.tg == nil {
		return errNotInitialized
	}

	_, err := c.tg.SendMessageWithRequest(ctx, telegram.SendMessageRequest{
		ChatID:          c.chatID,
		Text:            truncate(message, maxMessageLen),
		MessageThreadID: c.threadID,
	})
	if err != nil {
		return fmt.Errorf("failed to send alert to chat %d: %w", c.chatID, err)
	}

	c.log.Debug("alert sent", "chat_id", c.chatID)
	return nil
}

// truncate обрезает текст по символам, а не байтам
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
