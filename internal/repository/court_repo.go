package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

// ErrNotOwner is returned when an edit or delete targets a court the caller
// did not create.
var ErrNotOwner = errors.New("not the court owner")

type CourtRepo struct{ db *gorm.DB }

func NewCourtRepo(db *gorm.DB) *CourtRepo {
	return &CourtRepo{db: db}
}

func (r *CourtRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Court{})
}

func (r *CourtRepo) Create(ctx context.Context, c *domain.Court) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CourtRepo) ByID(ctx context.Context, id string) (*domain.Court, error) {
	var c domain.Court
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourtRepo) List(ctx context.Context, page, size int32, query string) ([]domain.Court, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Court{})
	if query != "" {
		qb = qb.Where("name ILIKE ? OR location ILIKE ?", "%"+query+"%", "%"+query+"%")
	}
	var out []domain.Court
	if err := qb.Order("created_at ASC").Limit(int(size)).Offset(int(page * size)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes the mutable fields, scoped to the creator so only the owner
// can edit. Past bookings keep the slot labels they were made with.
func (r *CourtRepo) Update(ctx context.Context, c *domain.Court, ownerID string) error {
	res := r.db.WithContext(ctx).Model(&domain.Court{}).
		Where("id = ? AND created_by = ?", c.ID, ownerID).
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ownershipErr(ctx, c.ID)
	}
	return nil
}

func (r *CourtRepo) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Court{}, "id = ? AND created_by = ?", id, ownerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.ownershipErr(ctx, id)
	}
	return nil
}

// ownershipErr tells a missing court apart from someone else's: a scoped
// write that touched no rows is not-found when the id does not exist at all.
func (r *CourtRepo) ownershipErr(ctx context.Context, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Court{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrNotOwner
}
