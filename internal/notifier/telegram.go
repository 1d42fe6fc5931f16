package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier broadcasts to every subscribed chat. Subscriptions are
// managed through the bot itself (/subscribe, /unsubscribe).
type TelegramNotifier struct {
	bot   *tgbotapi.BotAPI
	store *SubscriberStore
}

func NewTelegram(token string, store *SubscriberStore) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Printf("[notify] telegram authorized as @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, store: store}, nil
}

func (t *TelegramNotifier) Notify(subject, message string) error {
	chats, err := t.store.List(context.Background())
	if err != nil {
		return fmt.Errorf("list subscribers: %w", err)
	}
	text := subject + "\n" + message
	for _, chatID := range chats {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := t.bot.Send(msg); err != nil {
			log.Printf("[notify] send to %d failed: %v", chatID, err)
		}
	}
	return nil
}

// HandleCommands consumes bot updates until ctx is done, keeping the
// subscriber set current.
func (t *TelegramNotifier) HandleCommands(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			t.bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			if upd.Message == nil || !upd.Message.IsCommand() {
				continue
			}
			chatID := upd.Message.Chat.ID
			var reply string
			switch strings.ToLower(upd.Message.Command()) {
			case "subscribe":
				if err := t.store.Add(ctx, chatID); err != nil {
					reply = "Could not subscribe, try again later."
				} else {
					reply = "Subscribed. You will hear about new bookings, posts and tournaments."
				}
			case "unsubscribe":
				if err := t.store.Remove(ctx, chatID); err != nil {
					reply = "Could not unsubscribe, try again later."
				} else {
					reply = "Unsubscribed."
				}
			default:
				reply = "Commands: /subscribe, /unsubscribe"
			}
			msg := tgbotapi.NewMessage(chatID, reply)
			if _, err := t.bot.Send(msg); err != nil {
				log.Printf("[notify] reply to %d failed: %v", chatID, err)
			}
		}
	}
}
