package consumer

import (
	"context"
	"log"

	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

// PaymentConsumer listens for payment.paid and flips the matching booking
// to PAID. Processing is idempotent per charge id, so a redelivered event
// is a no-op.
type PaymentConsumer struct {
	repo *repository.BookingRepo
	cons *mq.Consumer
	pub  *mq.Publisher
}

func NewPaymentConsumer(repo *repository.BookingRepo, cons *mq.Consumer, pub *mq.Publisher) *PaymentConsumer {
	return &PaymentConsumer{repo: repo, cons: cons, pub: pub}
}

func (pc *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := pc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for d := range msgs {
			switch d.RoutingKey {
			case events.RKPaymentPaid:
				evt, err := events.MustUnmarshal[events.PaymentPaid](d.Body)
				if err != nil {
					log.Printf("[payment-consumer] unmarshal error: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if evt.BookingID == "" || evt.ChargeID == "" {
					log.Printf("[payment-consumer] invalid event payload")
					_ = d.Ack(false)
					continue
				}
				b, err := pc.repo.MarkPaidIfNotProcessed(ctx, evt.BookingID, evt.ChargeID, events.RKPaymentPaid)
				if err != nil {
					log.Printf("[payment-consumer] mark paid error: %v", err)
					_ = d.Nack(false, true)
					continue
				}
				_ = pc.pub.PublishJSON(ctx, events.RKBookingPaid, events.BookingSimple{BookingID: b.ID})
				_ = d.Ack(false)
			default:
				// not ours
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}
