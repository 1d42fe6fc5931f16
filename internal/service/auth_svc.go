package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/auth"
)

var ErrBadCredentials = errors.New("invalid email or password")

type AuthSvc struct {
	repo       *repository.UserRepo
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthSvc(r *repository.UserRepo, accessTTL, refreshTTL time.Duration) *AuthSvc {
	return &AuthSvc{repo: r, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Register creates the account and its profile row in one step; the profile
// is the same record, there is no separate profiles table to drift from.
func (s *AuthSvc) Register(ctx context.Context, email, password, name, phone string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Name:         name,
		Phone:        phone,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	u, err := s.repo.ByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", "", ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", "", ErrBadCredentials
	}
	access, err := auth.CreateAccessToken(u.ID, u.Email, u.Name, s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.CreateAccessToken(u.ID, u.Email, u.Name, s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}
