package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

// ErrSlotTaken is the storage-level conflict: some booking already holds the
// same (court, date, slot) triple.
var ErrSlotTaken = errors.New("slot_taken")

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{}, &domain.EventConsumed{})
}

// TakenSlots returns the slot labels already booked for one court on one
// date. An empty result means the whole catalog is offerable.
func (r *BookingRepo) TakenSlots(ctx context.Context, courtID, dateISO string) ([]string, error) {
	var slots []string
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("court_id = ? AND booking_date = ?", courtID, dateISO).
		Pluck("slot", &slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// CreateIfFree inserts the booking unless the (court, date, slot) triple is
// already held. The pre-check keeps the common path cheap; the unique index
// is the actual arbiter, so a concurrent winner still surfaces as
// ErrSlotTaken via the duplicated-key translation.
func (r *BookingRepo) CreateIfFree(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Booking
		err := tx.Model(&domain.Booking{}).
			Where("court_id = ? AND booking_date = ? AND slot = ?", b.CourtID, b.BookingDate, b.Slot).
			Take(&existing).Error
		if err == nil {
			return ErrSlotTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if err := tx.Create(b).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlotTaken
			}
			return err
		}
		return nil
	})
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByCourt returns every booking for a court across all dates, ordered
// for the booking-details panel.
func (r *BookingRepo) ListByCourt(ctx context.Context, courtID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("court_id = ?", courtID).
		Order("booking_date ASC").Order("slot ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var out []domain.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("booking_date ASC").Order("slot ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaidIfNotProcessed flips a booking to PAID exactly once per payment
// event. Replayed deliveries hit the events_consumed record and return the
// current row untouched.
func (r *BookingRepo) MarkPaidIfNotProcessed(ctx context.Context, bookingID, eventID, eventKey string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seen int64
		if err := tx.Model(&domain.EventConsumed{}).Where("id = ?", eventID).Count(&seen).Error; err != nil {
			return err
		}
		if err := tx.First(&b, "id = ?", bookingID).Error; err != nil {
			return err
		}
		if seen > 0 {
			return nil
		}
		if b.Status != "PAID" {
			b.Status = "PAID"
			if err := tx.Save(&b).Error; err != nil {
				return err
			}
		}
		rec := domain.EventConsumed{ID: eventID, EventKey: eventKey, ProcessedAt: time.Now().UTC()}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}
