// Package telegram connects the dispatcher to the Telegram Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nekoweb3/alphabot/internal/bot"
	"github.com/rs/zerolog/log"
	"gopkg.in/telebot.v4"
)

// Handler turns a chat message into replies.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message) []bot.Reply
}

// Options configures the Client.
type Options struct {
	// Poll starts a long poller; leave false in webhook mode.
	Poll        bool
	PollTimeout time.Duration

	// APIURL overrides the Bot API host, used by tests.
	APIURL string
	// Offline skips the getMe handshake.
	Offline bool
}

// Client wraps a telebot.Bot.
type Client struct {
	bot     *telebot.Bot
	handler Handler
}

// New creates a client that routes text messages to handler. The handler may be set
// later with SetHandler.
func New(token string, handler Handler, opts Options) (*Client, error) {
	settings := telebot.Settings{
		Token:   token,
		URL:     opts.APIURL,
		Offline: opts.Offline,
		OnError: func(err error, c telebot.Context) {
			log.Error().Err(err).Msg("Telegram handler error")
		},
	}
	if opts.Poll {
		timeout := opts.PollTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		settings.Poller = &telebot.LongPoller{Timeout: timeout, AllowedUpdates: []string{"message"}}
	}

	b, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	c := &Client{bot: b, handler: handler}
	// Commands without a dedicated telebot handler fall through to OnText.
	b.Handle(telebot.OnText, c.onText)
	return c, nil
}

// SetHandler replaces the handler. Call it before Start.
func (c *Client) SetHandler(h Handler) {
	c.handler = h
}

// Username is the bot's own username, empty when offline.
func (c *Client) Username() string {
	if c.bot.Me == nil {
		return ""
	}
	return c.bot.Me.Username
}

// Start runs the long poller until Stop is called.
func (c *Client) Start() {
	log.Info().Str("bot", c.Username()).Msg("Starting Telegram long polling")
	c.bot.Start()
}

// Stop stops the poller.
func (c *Client) Stop() {
	c.bot.Stop()
}

func (c *Client) onText(tc telebot.Context) error {
	if c.handler == nil {
		return nil
	}
	ctx := context.Background()
	return c.Deliver(ctx, c.handler.Handle(ctx, MessageFrom(tc.Message())))
}

// MessageFrom converts a Telegram message. A nil message yields an empty Message.
func MessageFrom(m *telebot.Message) bot.Message {
	if m == nil {
		return bot.Message{}
	}
	msg := bot.Message{Text: m.Text}
	if m.Chat != nil {
		msg.ChatID = m.Chat.ID
	}
	if m.Sender != nil {
		msg.Username = m.Sender.Username
	}
	return msg
}

// Deliver sends every reply, stopping at the first failure.
func (c *Client) Deliver(ctx context.Context, replies []bot.Reply) error {
	for _, r := range replies {
		if err := c.Send(ctx, r.ChatID, r.Text); err != nil {
			return err
		}
	}
	return nil
}

// Send posts a Markdown message. Text Telegram refuses to parse is resent as plain text.
func (c *Client) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.bot.Send(telebot.ChatID(chatID), text, telebot.ModeMarkdown, telebot.NoPreview)
	if err != nil && isParseError(err) {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("Markdown rejected, resending as plain text")
		_, err = c.bot.Send(telebot.ChatID(chatID), text, telebot.NoPreview)
	}
	if err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func isParseError(err error) bool {
	var tgErr *telebot.Error
	if errors.As(err, &tgErr) && strings.Contains(tgErr.Description, "can't parse entities") {
		return true
	}
	return strings.Contains(err.Error(), "can't parse entities")
}

// SetWebhook registers url with Telegram. Telegram echoes secret in the
// X-Telegram-Bot-Api-Secret-Token header of every delivery.
func (c *Client) SetWebhook(url, secret string) error {
	wh := &telebot.Webhook{
		SecretToken:    secret,
		AllowedUpdates: []string{"message"},
		Endpoint:       &telebot.WebhookEndpoint{PublicURL: url},
	}
	if err := c.bot.SetWebhook(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	log.Info().Str("url", url).Msg("Webhook registered")
	return nil
}

// DeleteWebhook removes the webhook so long polling can be used.
func (c *Client) DeleteWebhook() error {
	if err := c.bot.RemoveWebhook(); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	log.Info().Msg("Webhook removed")
	return nil
}
