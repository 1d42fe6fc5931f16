package service

import (
	"context"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

type CourtSvc struct {
	repo *repository.CourtRepo
	pub  *mq.Publisher
}

func NewCourtSvc(r *repository.CourtRepo, pub *mq.Publisher) *CourtSvc {
	return &CourtSvc{repo: r, pub: pub}
}

// Create stores the court with its slot catalog normalised through
// ParseCatalog (trimmed, order kept) and announces it to the directory.
func (s *CourtSvc) Create(ctx context.Context, in domain.Court) (*domain.Court, error) {
	in.AvailableTimes = availability.JoinCatalog(availability.ParseCatalog(in.AvailableTimes))
	in.Amenities = availability.JoinCatalog(availability.ParseCatalog(in.Amenities))
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKCourtCreated, events.CourtChanged{
		CourtID: in.ID, Name: in.Name, City: in.City,
	})
	return &in, nil
}

func (s *CourtSvc) Get(ctx context.Context, id string) (*domain.Court, error) {
	return s.repo.ByID(ctx, id)
}

// Catalog exposes a court's configured slot labels as an ordered sequence.
func (s *CourtSvc) Catalog(c *domain.Court) []string {
	return availability.ParseCatalog(c.AvailableTimes)
}

func (s *CourtSvc) List(ctx context.Context, page, size int32, query string) ([]domain.Court, error) {
	return s.repo.List(ctx, page, size, query)
}

func (s *CourtSvc) Update(ctx context.Context, in domain.Court, ownerID string) (*domain.Court, error) {
	in.AvailableTimes = availability.JoinCatalog(availability.ParseCatalog(in.AvailableTimes))
	in.Amenities = availability.JoinCatalog(availability.ParseCatalog(in.Amenities))
	if err := s.repo.Update(ctx, &in, ownerID); err != nil {
		return nil, err
	}
	out, err := s.repo.ByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKCourtUpdated, events.CourtChanged{
		CourtID: out.ID, Name: out.Name, City: out.City,
	})
	return out, nil
}

func (s *CourtSvc) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	_ = s.pub.PublishJSON(ctx, events.RKCourtDeleted, events.CourtChanged{CourtID: id})
	return nil
}
