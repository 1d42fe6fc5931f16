package service

import (
	"context"
	"errors"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/repository"
	"github.com/you/badminton-network/pkg/mq"
)

var ErrEmptyContent = errors.New("content must not be empty")

type CommunitySvc struct {
	posts *repository.PostRepo
	users *repository.UserRepo
	pub   *mq.Publisher
}

func NewCommunitySvc(posts *repository.PostRepo, users *repository.UserRepo, pub *mq.Publisher) *CommunitySvc {
	return &CommunitySvc{posts: posts, users: users, pub: pub}
}

func (s *CommunitySvc) CreatePost(ctx context.Context, userID, content, imageURL string) (*domain.Post, error) {
	if userID == "" {
		return nil, availability.ErrUnauthenticated
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	p := &domain.Post{UserID: userID, Content: content, ImageURL: imageURL}
	if err := s.posts.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	name := s.displayName(ctx, userID)
	_ = s.pub.PublishJSON(ctx, events.RKPostCreated, events.PostCreated{
		PostID: p.ID, UserID: userID, UserName: name, Content: content,
	})
	return p, nil
}

func (s *CommunitySvc) ListPosts(ctx context.Context, page, size int32) ([]domain.Post, error) {
	return s.posts.ListPosts(ctx, page, size)
}

func (s *CommunitySvc) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.posts.PostByID(ctx, id)
}

// Reply stores the reply and announces it on the post's event key so pages
// watching that post hear about it live.
func (s *CommunitySvc) Reply(ctx context.Context, postID, userID, content string) (*domain.Reply, error) {
	if userID == "" {
		return nil, availability.ErrUnauthenticated
	}
	if content == "" {
		return nil, ErrEmptyContent
	}
	if _, err := s.posts.PostByID(ctx, postID); err != nil {
		return nil, err
	}
	rep := &domain.Reply{PostID: postID, UserID: userID, Content: content}
	if err := s.posts.CreateReply(ctx, rep); err != nil {
		return nil, err
	}
	name := s.displayName(ctx, userID)
	_ = s.pub.PublishJSON(ctx, events.RKReplyCreated, events.ReplyCreated{
		ReplyID: rep.ID, PostID: postID, UserID: userID, UserName: name, Content: content,
	})
	return rep, nil
}

func (s *CommunitySvc) Replies(ctx context.Context, postID string) ([]domain.Reply, error) {
	return s.posts.RepliesByPost(ctx, postID)
}

func (s *CommunitySvc) displayName(ctx context.Context, userID string) string {
	u, err := s.users.ByID(ctx, userID)
	if err != nil || u.Name == "" {
		return "Anonymous"
	}
	return u.Name
}
