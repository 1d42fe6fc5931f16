package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

const dateLayout = "2006-01-02"

var ErrBadDate = errors.New("date must be today or later, formatted YYYY-MM-DD")

type BookingSvc struct {
	repo   *repository.BookingRepo
	courts *repository.CourtRepo
	pub    *mq.Publisher
	now    func() time.Time
}

func NewBookingSvc(r *repository.BookingRepo, courts *repository.CourtRepo, pub *mq.Publisher) *BookingSvc {
	return &BookingSvc{repo: r, courts: courts, pub: pub, now: time.Now}
}

// CourtPage assembles the per-session view state for one court: the slot
// catalog plus the ledger for the date the page treats as today.
func (s *BookingSvc) CourtPage(ctx context.Context, courtID string) (*availability.CourtPage, error) {
	c, err := s.courts.ByID(ctx, courtID)
	if err != nil {
		return nil, err
	}
	today := s.now().Format(dateLayout)
	taken, err := s.repo.TakenSlots(ctx, courtID, today)
	if err != nil {
		return nil, err
	}
	return availability.NewCourtPage(today, availability.ParseCatalog(c.AvailableTimes), taken), nil
}

// Availability reconciles the catalog against the ledger for any date.
func (s *BookingSvc) Availability(ctx context.Context, courtID, dateISO string) (catalog, taken, available []string, err error) {
	c, err := s.courts.ByID(ctx, courtID)
	if err != nil {
		return nil, nil, nil, err
	}
	if dateISO == "" {
		dateISO = s.now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, dateISO); err != nil {
		return nil, nil, nil, ErrBadDate
	}
	taken, err = s.repo.TakenSlots(ctx, courtID, dateISO)
	if err != nil {
		return nil, nil, nil, err
	}
	catalog = availability.ParseCatalog(c.AvailableTimes)
	available = availability.Available(catalog, availability.TakenSet(taken))
	return catalog, taken, available, nil
}

// Book runs the submission guard and then the insert. The fast-path
// taken-set check only covers the current date; for any other date the
// unique constraint is the sole arbiter. A conflict from either path comes
// back as availability.ErrSlotTaken.
func (s *BookingSvc) Book(ctx context.Context, courtID, userID, slot, dateISO string) (*domain.Booking, error) {
	today := s.now().Format(dateLayout)

	var takenToday []string
	if dateISO == today {
		var err error
		takenToday, err = s.repo.TakenSlots(ctx, courtID, today)
		if err != nil {
			return nil, fmt.Errorf("load ledger: %w", err)
		}
	}
	// rejected before any insert is issued
	page := availability.NewCourtPage(today, nil, takenToday)
	if err := page.Guard(userID, slot, dateISO); err != nil {
		return nil, err
	}

	d, err := time.Parse(dateLayout, dateISO)
	if err != nil {
		return nil, ErrBadDate
	}
	if d.Format(dateLayout) < today {
		return nil, ErrBadDate
	}
	if _, err := s.courts.ByID(ctx, courtID); err != nil {
		return nil, err
	}

	b := &domain.Booking{
		CourtID:     courtID,
		UserID:      userID,
		BookingDate: dateISO,
		Slot:        slot,
		Status:      "UNPAID",
	}
	if err := s.repo.CreateIfFree(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, availability.ErrSlotTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	_ = s.pub.PublishJSON(ctx, events.RKBookingCreated, events.BookingCreated{
		BookingID: b.ID, UserID: b.UserID, CourtID: b.CourtID,
		Date: b.BookingDate, Slot: b.Slot,
	})
	return b, nil
}

func (s *BookingSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BookingSvc) ListByCourt(ctx context.Context, courtID string) ([]domain.Booking, error) {
	return s.repo.ListByCourt(ctx, courtID)
}

func (s *BookingSvc) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}
