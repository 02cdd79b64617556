package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/tuskswarm/internal/config"
	"github.com/sandevgo/tuskswarm/internal/core"
	"github.com/sandevgo/tuskswarm/internal/service/ui"
	"github.com/sandevgo/tuskswarm/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Asker runs one conversation turn for a chat.
type Asker interface {
	Ask(ctx context.Context, key, question string) ([]core.Message, error)
}

// Commands answers slash commands. It reports false for anything else.
type Commands interface {
	Execute(ctx context.Context, chatKey, input string) (string, bool)
}

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	asker    Asker
	commands Commands
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	asker Asker,
	commands Commands,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.FromCtx(ctx).Error().Err(err).Msg("telegram handler failed")
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		asker:    asker,
		commands: commands,
		ownerID:  cfg.OwnerID,
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: Only allow the owner
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender() == nil || c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func chatKey(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	key := chatKey(c)
	text := strings.TrimSpace(c.Text())

	if reply, ok := b.commands.Execute(ctx, key, text); ok {
		return b.sender.sendMarkdown(ctx, c.Recipient(), reply, true)
	}

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	turn, err := b.asker.Ask(ctx, key, text)
	for _, msg := range turn {
		if msg.Role == core.RoleUser || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if sendErr := b.sender.sendMarkdown(ctx, c.Recipient(), formatAgentMessage(msg), false); sendErr != nil {
			logger.Error().Err(sendErr).Msg("failed to send telegram message")
		}
		_ = c.Notify(tele.Typing)
	}

	if err != nil {
		logger.Error().Err(err).Str("chat", key).Msg("dispatch failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	return nil
}

func formatAgentMessage(msg core.Message) string {
	return fmt.Sprintf("**%s**\n\n%s", ui.BadgeFor(msg).Title, msg.Content)
}
