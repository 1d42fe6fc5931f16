package worker

import (
	"context"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/notifier"
)

type Config struct {
	RabbitURL   string
	Exchange    string
	Queue       string
	Bindings    []string
	Prefetch    int
	UseDLX      bool
	DLXName     string
	DLXQueue    string
	ServiceName string
}

type Consumer struct {
	cfg      Config
	notifier notifier.Notifier

	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewConsumer(cfg Config, n notifier.Notifier) *Consumer {
	return &Consumer{cfg: cfg, notifier: n}
}

func (c *Consumer) Connect() error {
	conn, err := amqp.Dial(c.cfg.RabbitURL)
	if err != nil {
		return fmt.Errorf("rabbit dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel failed: %w", err)
	}

	args := amqp.Table{}
	if c.cfg.UseDLX {
		args["x-dead-letter-exchange"] = c.cfg.DLXName
	}

	q, err := ch.QueueDeclare(c.cfg.Queue, true, false, false, false, args)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue failed: %w", err)
	}

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange %s failed: %w", c.cfg.Exchange, err)
	}
	for _, key := range c.cfg.Bindings {
		if err := ch.QueueBind(q.Name, key, c.cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind queue key=%s failed: %w", key, err)
		}
	}

	if c.cfg.UseDLX {
		if err := ch.ExchangeDeclare(c.cfg.DLXName, "topic", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare dlx failed: %w", err)
		}
		if _, err := ch.QueueDeclare(c.cfg.DLXQueue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("declare dlq failed: %w", err)
		}
		if err := ch.QueueBind(c.cfg.DLXQueue, "#", c.cfg.DLXName, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("bind dlq failed: %w", err)
		}
	}

	if c.cfg.Prefetch <= 0 {
		c.cfg.Prefetch = 8
	}
	if err := ch.Qos(c.cfg.Prefetch, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("set qos failed: %w", err)
	}

	c.conn = conn
	c.ch = ch
	return nil
}

func (c *Consumer) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.ch.ConsumeWithContext(ctx, c.cfg.Queue, c.cfg.ServiceName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume failed: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handleDelivery(d); err != nil {
				log.Printf("[notify] handle error key=%s err=%v -> Nack&requeue", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleDelivery(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKBookingCreated:
		ev, err := events.MustUnmarshal[events.BookingCreated](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("📅 Court Booked",
			fmt.Sprintf("Court %s reserved for %s.", ev.CourtID, notifier.HumanSlot(ev.Date, ev.Slot)))

	case events.RKBookingPaid:
		ev, err := events.MustUnmarshal[events.BookingSimple](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("✅ Booking Paid",
			fmt.Sprintf("Booking %s has been paid.", ev.BookingID))

	case events.RKPaymentFailed:
		ev, err := events.MustUnmarshal[events.PaymentFailed](d.Body)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Payment failed for booking %s (charge=%s).", ev.BookingID, ev.ChargeID)
		if ev.FailureCode != "" || ev.FailureMessage != "" {
			msg = fmt.Sprintf("%s Reason: %s %s", msg, ev.FailureCode, ev.FailureMessage)
		}
		return c.notifier.Notify("⚠️ Payment Failed", msg)

	case events.RKPostCreated:
		ev, err := events.MustUnmarshal[events.PostCreated](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("💬 New Post",
			fmt.Sprintf("%s: %s", ev.UserName, snippet(ev.Content)))

	case events.RKReplyCreated:
		ev, err := events.MustUnmarshal[events.ReplyCreated](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("↩️ New Reply",
			fmt.Sprintf("%s replied: %s", ev.UserName, snippet(ev.Content)))

	case events.RKTournamentCreated:
		ev, err := events.MustUnmarshal[events.TournamentChanged](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🏆 New Tournament",
			fmt.Sprintf("%s on %s, registration open.", ev.Name, ev.Date))

	case events.RKRegistration:
		ev, err := events.MustUnmarshal[events.TournamentRegistered](d.Body)
		if err != nil {
			return err
		}
		return c.notifier.Notify("🏸 Tournament Registration",
			fmt.Sprintf("%s registered (%d/%d players).", ev.UserName, ev.Registered, ev.MaxPlayers))

	default:
		// unknown key, accept and move on
		log.Printf("[notify] skip unknown key=%s", d.RoutingKey)
		return nil
	}
}

// snippet shortens message bodies for the broadcast, cutting on a rune
// boundary so multi-byte text stays valid.
func snippet(s string) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > 120 {
		return string(r[:117]) + "..."
	}
	return string(r)
}
