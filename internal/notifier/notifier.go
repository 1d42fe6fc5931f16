package notifier

import (
	"fmt"
	"log"
)

// Notifier is an interface so delivery can change (Telegram/Email/Slack)
// without touching the worker.
type Notifier interface {
	Notify(subject, message string) error
}

// ConsoleNotifier logs to stdout; the default when no bot token is set.
type ConsoleNotifier struct{}

func NewConsole() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (c *ConsoleNotifier) Notify(subject, message string) error {
	log.Printf("[notify] %s :: %s\n", subject, message)
	return nil
}

// HumanSlot renders a booking's date and slot label for a message.
func HumanSlot(dateISO, slot string) string {
	return fmt.Sprintf("%s at %s", dateISO, slot)
}
