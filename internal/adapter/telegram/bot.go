package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tb "gopkg.in/tucnak/telebot.v2"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
)

// Assistant is the part of the order service the bot talks to.
type Assistant interface {
	Ask(ctx context.Context, query string) string
}

// Bot forwards chat messages to the food assistant.
type Bot struct {
	bot       *tb.Bot
	assistant Assistant
	logger    logger.Logger
}

func New(token string, assistant Assistant, logger logger.Logger) (*Bot, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
	}

	b := &Bot{bot: bot, assistant: assistant, logger: logger}

	bot.Handle("/start", func(m *tb.Message) {
		b.send(m, Welcome(m.Sender.FirstName))
	})
	bot.Handle(tb.OnText, func(m *tb.Message) {
		b.send(m, b.Reply(context.Background(), m.Text))
	})

	return b, nil
}

// Welcome is the greeting for /start.
func Welcome(firstName string) string {
	name := strings.TrimSpace(firstName)
	if name == "" {
		return "Karibu! Niulize kuhusu menyu au hali ya agizo lako."
	}
	return fmt.Sprintf("Karibu, %s! Niulize kuhusu menyu au hali ya agizo lako.", name)
}

// Reply answers one chat message.
func (b *Bot) Reply(ctx context.Context, text string) string {
	return b.assistant.Ask(ctx, text)
}

func (b *Bot) send(m *tb.Message, reply string) {
	if _, err := b.bot.Send(m.Sender, reply); err != nil {
		b.logger.Error("telegram_send_failed", "Failed to send reply", "", map[string]interface{}{
			"chat_id": m.Chat.ID,
		}, err)
		return
	}
	b.logger.Debug("telegram_reply", "Reply sent", "", map[string]interface{}{
		"chat_id": m.Chat.ID,
	})
}

// Start polls until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.logger.Info("bot_started", "Telegram assistant started", "startup", nil)
	b.bot.Start()
}
