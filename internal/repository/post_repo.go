package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db: db}
}

func (r *PostRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Post{}, &domain.Reply{})
}

func (r *PostRepo) CreatePost(ctx context.Context, p *domain.Post) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

// ListPosts returns the feed newest-first.
func (r *PostRepo) ListPosts(ctx context.Context, page, size int32) ([]domain.Post, error) {
	if size <= 0 {
		size = 50
	}
	if page < 0 {
		page = 0
	}
	var out []domain.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(int(size)).Offset(int(page * size)).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostRepo) PostByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) CreateReply(ctx context.Context, rep *domain.Reply) error {
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(rep).Error
}

// RepliesByPost returns a post's replies oldest-first, the order the
// conversation happened.
func (r *PostRepo) RepliesByPost(ctx context.Context, postID string) ([]domain.Reply, error) {
	var out []domain.Reply
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
