package service

import (
	"context"
	"errors"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/repository"
)

type UserSvc struct{ repo *repository.UserRepo }

func NewUserSvc(r *repository.UserRepo) *UserSvc { return &UserSvc{repo: r} }

func (s *UserSvc) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.ByID(ctx, id)
}

func (s *UserSvc) Update(ctx context.Context, id, name, phone, avatar string) (*domain.User, error) {
	if id == "" {
		return nil, errors.New("missing id")
	}
	fields := map[string]any{}
	if name != "" {
		fields["name"] = name
	}
	if phone != "" {
		fields["phone"] = phone
	}
	if avatar != "" {
		fields["avatar_url"] = avatar
	}
	return s.repo.UpdateFields(ctx, id, fields)
}

// List is the player directory: paged, optionally filtered by name.
func (s *UserSvc) List(ctx context.Context, page, size int32, query string) ([]domain.User, int64, error) {
	return s.repo.List(ctx, page, size, query)
}

// NamesByID resolves display names for a set of user ids, "Anonymous" for
// any id without a profile.
func (s *UserSvc) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	users, err := s.repo.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = "Anonymous"
	}
	for _, u := range users {
		if u.Name != "" {
			names[u.ID] = u.Name
		}
	}
	return names, nil
}
