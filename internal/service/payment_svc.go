package service

import (
	"context"
	"errors"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

var ErrNotYourBooking = errors.New("booking belongs to another user")

// PaymentSvc charges court bookings through Omise. The charge carries the
// booking id in its metadata so the webhook and the paid-event consumer can
// tie the money back to the reservation.
type PaymentSvc struct {
	omc      *omise.Client
	pub      *mq.Publisher
	bookings *repository.BookingRepo
}

func NewPaymentSvc(omc *omise.Client, pub *mq.Publisher, bookings *repository.BookingRepo) *PaymentSvc {
	return &PaymentSvc{omc: omc, pub: pub, bookings: bookings}
}

func (s *PaymentSvc) publishPaid(ctx context.Context, bookingID, chargeID string, amount int64, currency string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, events.RKPaymentPaid, events.PaymentPaid{
		BookingID: bookingID, ChargeID: chargeID, Amount: amount, Currency: currency,
	})
}

func (s *PaymentSvc) publishFailed(ctx context.Context, bookingID, chargeID, code, message string) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, events.RKPaymentFailed, events.PaymentFailed{
		BookingID: bookingID, ChargeID: chargeID, FailureCode: code, FailureMessage: message,
	})
}

type ChargeInput struct {
	BookingID string
	UserID    string
	Amount    int64
	Currency  string
	CardToken string // card path
	SourceID  string // source path (e.g. promptpay)
}

// CreateCharge charges a booking with either a card token or a payment
// source. Pending charges resolve later through the webhook; only terminal
// statuses publish here.
func (s *PaymentSvc) CreateCharge(ctx context.Context, in ChargeInput) (*omise.Charge, error) {
	if in.Amount <= 0 || in.Currency == "" {
		return nil, errors.New("invalid params")
	}
	if (in.CardToken == "") == (in.SourceID == "") {
		return nil, errors.New("exactly one of card token or source id is required")
	}
	b, err := s.bookings.ByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != in.UserID {
		return nil, ErrNotYourBooking
	}

	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   in.Amount,
		Currency: in.Currency,
		Card:     in.CardToken,
		Source:   in.SourceID,
		Metadata: map[string]any{"booking_id": in.BookingID},
	}
	if err := s.omc.Do(ch, req); err != nil {
		s.publishFailed(ctx, in.BookingID, "", "create_charge_error", err.Error())
		return nil, err
	}

	switch string(ch.Status) {
	case "successful":
		s.publishPaid(ctx, in.BookingID, ch.ID, ch.Amount, ch.Currency)
	case "failed":
		var fc, fm string
		if ch.FailureCode != nil {
			fc = *ch.FailureCode
		}
		if ch.FailureMessage != nil {
			fm = *ch.FailureMessage
		}
		s.publishFailed(ctx, in.BookingID, ch.ID, fc, fm)
	}
	return ch, nil
}

// CreatePromptPaySource makes a scannable source the client turns into a
// charge once authorised.
func (s *PaymentSvc) CreatePromptPaySource(amount int64, currency string) (*omise.Source, error) {
	if amount <= 0 || currency == "" {
		return nil, errors.New("invalid params")
	}
	src := &omise.Source{}
	req := &operations.CreateSource{Type: "promptpay", Amount: amount, Currency: currency}
	if err := s.omc.Do(src, req); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *PaymentSvc) GetCharge(chargeID string) (*omise.Charge, error) {
	ch := &omise.Charge{}
	if err := s.omc.Do(ch, &operations.RetrieveCharge{ChargeID: chargeID}); err != nil {
		return nil, err
	}
	return ch, nil
}
