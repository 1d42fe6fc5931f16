package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published on the community topic exchange. Directory pages
// subscribe to the wildcard families (court.*, tournament.*) to keep their
// in-memory lists current; the notification worker binds the same keys.
const (
	RKCourtCreated = "court.created"
	RKCourtUpdated = "court.updated"
	RKCourtDeleted = "court.deleted"

	RKBookingCreated = "booking.created"
	RKBookingPaid    = "booking.paid"

	RKPostCreated  = "post.created"
	RKReplyCreated = "reply.created"

	RKTournamentCreated = "tournament.created"
	RKTournamentUpdated = "tournament.updated"
	RKTournamentDeleted = "tournament.deleted"
	RKRegistration      = "tournament.registered"

	RKPaymentPaid   = "payment.paid"
	RKPaymentFailed = "payment.failed"
)

type CourtChanged struct {
	CourtID string `json:"court_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
}

type BookingCreated struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	CourtID   string `json:"court_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Slot      string `json:"slot"`
}

type BookingSimple struct {
	BookingID string `json:"booking_id"`
}

type PostCreated struct {
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Content  string `json:"content"`
}

type ReplyCreated struct {
	ReplyID  string `json:"reply_id"`
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Content  string `json:"content"`
}

type TournamentChanged struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
}

type TournamentRegistered struct {
	TournamentID string `json:"tournament_id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	Registered   int32  `json:"registered_players"`
	MaxPlayers   int32  `json:"max_players"`
}

type PaymentPaid struct {
	BookingID string `json:"booking_id"`
	ChargeID  string `json:"charge_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type PaymentFailed struct {
	BookingID      string `json:"booking_id"`
	ChargeID       string `json:"charge_id"`
	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
