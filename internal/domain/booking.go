package domain

import "time"

type Booking struct {
	ID          string `gorm:"primaryKey"`
	CourtID     string `gorm:"index;uniqueIndex:uniq_court_date_slot"`
	UserID      string `gorm:"index"`
	BookingDate string `gorm:"uniqueIndex:uniq_court_date_slot"` // YYYY-MM-DD, date only
	Slot        string `gorm:"uniqueIndex:uniq_court_date_slot"`
	Status      string `gorm:"index"` // UNPAID|PAID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EventConsumed struct {
	ID          string `gorm:"primaryKey"` // event unique id (e.g. charge_id)
	EventKey    string `gorm:"index"`      // e.g. payment.paid
	ProcessedAt time.Time
}
