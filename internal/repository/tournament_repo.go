package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

var (
	ErrTournamentFull    = errors.New("tournament_full")
	ErrAlreadyRegistered = errors.New("already_registered")
)

type TournamentRepo struct{ db *gorm.DB }

func NewTournamentRepo(db *gorm.DB) *TournamentRepo {
	return &TournamentRepo{db: db}
}

func (r *TournamentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Tournament{}, &domain.Registration{})
}

func (r *TournamentRepo) Create(ctx context.Context, t *domain.Tournament) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TournamentRepo) ByID(ctx context.Context, id string) (*domain.Tournament, error) {
	var t domain.Tournament
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TournamentRepo) List(ctx context.Context, page, size int32, query, category string) ([]domain.Tournament, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Tournament{})
	if query != "" {
		qb = qb.Where("name ILIKE ? OR location ILIKE ?", "%"+query+"%", "%"+query+"%")
	}
	if category != "" {
		qb = qb.Where("category = ?", category)
	}
	var out []domain.Tournament
	if err := qb.Order("date ASC").Limit(int(size)).Offset(int(page * size)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TournamentRepo) Update(ctx context.Context, t *domain.Tournament, ownerID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Tournament{}).
		Where("id = ? AND created_by = ?", t.ID, ownerID).
		Updates(t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ownershipErr(ctx, t.ID)
	}
	return nil
}

func (r *TournamentRepo) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Tournament{}, "id = ? AND created_by = ?", id, ownerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ownershipErr(ctx, id)
	}
	return nil
}

// ownershipErr tells a missing tournament apart from someone else's: a scoped
// write that touched no rows is not-found when the id does not exist at all.
func (r *TournamentRepo) ownershipErr(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Tournament{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrNotOwner
}

// Register adds a player inside one transaction. The unique (tournament,
// user) index rejects repeats; capacity is arbitrated by the guarded
// increment, whose row write lock serializes concurrent registrations and
// re-evaluates the condition against the committed counter, so the last
// place cannot be handed out twice.
func (r *TournamentRepo) Register(ctx context.Context, reg *domain.Registration) (*domain.Tournament, error) {
	var t domain.Tournament
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&t, "id = ?", reg.TournamentID).Error; err != nil {
			return err
		}
		if reg.ID == "" {
			reg.ID = uuid.NewString()
		}
		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		res := tx.Model(&domain.Tournament{}).
			Where("id = ? AND (max_players <= 0 OR registered_players < max_players)", t.ID).
			UpdateColumn("registered_players", gorm.Expr("registered_players + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTournamentFull
		}
		return tx.First(&t, "id = ?", t.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TournamentRepo) Registrations(ctx context.Context, tournamentID string) ([]domain.Registration, error) {
	var out []domain.Registration
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
