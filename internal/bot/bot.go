// Package bot runs the Telegram front end over the question answering
// pipeline.
package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/maxoun/tg-bot-msc/internal/domain"
	"github.com/maxoun/tg-bot-msc/internal/telemetry"
)

// FallbackReply is sent when answering fails for any reason. The cause
// goes to the logs, never to the chat.
const FallbackReply = "Извините, при обработке вашего запроса что-то пошло не так."

const startReply = "Здравствуйте! Задайте вопрос о поступлении на магистратуру ИТМО, и я постараюсь помочь."

// Asker answers a single free-form question.
type Asker interface {
	Ask(ctx context.Context, question string) (*domain.AnswerRecord, error)
}

// Bot polls Telegram for updates and answers text messages through the
// pipeline. Each update is handled in its own goroutine; the pipeline
// is safe for concurrent use.
type Bot struct {
	api   *tgbotapi.BotAPI
	asker Asker
}

func New(token string, asker Asker) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, asker: asker}, nil
}

// Run polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("bot: started as @%s, polling for updates", b.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		if msg.Command() == "start" || msg.Command() == "help" {
			b.reply(msg.Chat.ID, startReply)
		}
		return
	}

	log.Printf("bot: question from chat %d: %s", msg.Chat.ID, msg.Text)

	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	if _, err := b.api.Send(typing); err != nil {
		log.Printf("bot: failed to send chat action: %v", err)
	}

	record, err := b.asker.Ask(ctx, msg.Text)
	if err != nil {
		log.Printf("bot: failed to answer question: %v", err)
		telemetry.CaptureError(ctx, err)
		b.replyPlain(msg.Chat.ID, FallbackReply)
		return
	}

	b.reply(msg.Chat.ID, FormatAnswer(record.Answer, record.Sources))
}

func (b *Bot) reply(chatID int64, html string) {
	m := tgbotapi.NewMessage(chatID, html)
	m.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(m); err != nil {
		log.Printf("bot: failed to send reply: %v", err)
	}
}

func (b *Bot) replyPlain(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(m); err != nil {
		log.Printf("bot: failed to send reply: %v", err)
	}
}
