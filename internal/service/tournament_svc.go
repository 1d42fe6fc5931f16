package service

import (
	"context"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

type TournamentSvc struct {
	repo  *repository.TournamentRepo
	users *repository.UserRepo
	pub   *mq.Publisher
}

func NewTournamentSvc(r *repository.TournamentRepo, users *repository.UserRepo, pub *mq.Publisher) *TournamentSvc {
	return &TournamentSvc{repo: r, users: users, pub: pub}
}

func (s *TournamentSvc) Create(ctx context.Context, in domain.Tournament) (*domain.Tournament, error) {
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKTournamentCreated, events.TournamentChanged{
		TournamentID: in.ID, Name: in.Name, Date: in.Date,
	})
	return &in, nil
}

func (s *TournamentSvc) Get(ctx context.Context, id string) (*domain.Tournament, error) {
	return s.repo.ByID(ctx, id)
}

func (s *TournamentSvc) List(ctx context.Context, page, size int32, query, category string) ([]domain.Tournament, error) {
	return s.repo.List(ctx, page, size, query, category)
}

func (s *TournamentSvc) Update(ctx context.Context, in domain.Tournament, ownerID string) (*domain.Tournament, error) {
	if err := s.repo.Update(ctx, &in, ownerID); err != nil {
		return nil, err
	}
	out, err := s.repo.ByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	_ = s.pub.PublishJSON(ctx, events.RKTournamentUpdated, events.TournamentChanged{
		TournamentID: out.ID, Name: out.Name, Date: out.Date,
	})
	return out, nil
}

func (s *TournamentSvc) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	_ = s.pub.PublishJSON(ctx, events.RKTournamentDeleted, events.TournamentChanged{TournamentID: id})
	return nil
}

// Register signs a player up. Duplicate sign-ups and full tournaments come
// back as repository sentinels for the handler to map.
func (s *TournamentSvc) Register(ctx context.Context, tournamentID, userID string) (*domain.Tournament, error) {
	if userID == "" {
		return nil, availability.ErrUnauthenticated
	}
	reg := &domain.Registration{TournamentID: tournamentID, UserID: userID}
	t, err := s.repo.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	var name string
	if u, uerr := s.users.ByID(ctx, userID); uerr == nil {
		name = u.Name
	}
	_ = s.pub.PublishJSON(ctx, events.RKRegistration, events.TournamentRegistered{
		TournamentID: t.ID, UserID: userID, UserName: name,
		Registered: t.RegisteredPlayers, MaxPlayers: t.MaxPlayers,
	})
	return t, nil
}

type RegisteredPlayer struct {
	Registration domain.Registration
	Name         string
}

// Registrations lists a tournament's sign-ups with display names resolved.
func (s *TournamentSvc) Registrations(ctx context.Context, tournamentID string) ([]RegisteredPlayer, error) {
	regs, err := s.repo.Registrations(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(regs))
	for _, r := range regs {
		ids = append(ids, r.UserID)
	}
	users, err := s.users.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	out := make([]RegisteredPlayer, 0, len(regs))
	for _, r := range regs {
		name := names[r.UserID]
		if name == "" {
			name = "Anonymous"
		}
		out = append(out, RegisteredPlayer{Registration: r, Name: name})
	}
	return out, nil
}
