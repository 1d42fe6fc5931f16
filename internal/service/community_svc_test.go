package service

import (
	"context"
	"errors"
	"testing"

	"github.com/you/badminton-network/internal/availability"
	"github.com/you/badminton-network/internal/domain"
	"github.com/you/badminton-network/internal/repository"
)

func newCommunityFixture(t *testing.T) (*CommunitySvc, *repository.UserRepo) {
	t.Helper()
	db := newTestDB(t)
	posts := repository.NewPostRepo(db)
	users := repository.NewUserRepo(db)
	if err := posts.Migrate(); err != nil {
		t.Fatalf("migrate posts: %v", err)
	}
	if err := users.Migrate(); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	return NewCommunitySvc(posts, users, nil), users
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newCommunityFixture(t)
	ctx := context.Background()

	if _, err := svc.CreatePost(ctx, "", "hello", ""); !errors.Is(err, availability.ErrUnauthenticated) {
		t.Fatalf("anonymous err = %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.CreatePost(ctx, "u1", "", ""); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("empty err = %v, want ErrEmptyContent", err)
	}
}

func TestPostAndReplies(t *testing.T) {
	svc, users := newCommunityFixture(t)
	ctx := context.Background()

	u := &domain.User{ID: "u1", Email: "a@b.com", Name: "Somchai"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	p, err := svc.CreatePost(ctx, "u1", "anyone up for doubles tonight?", "")
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if _, err := svc.Reply(ctx, "missing-post", "u1", "count me in"); err == nil {
		t.Fatal("reply to missing post accepted")
	}

	r1, err := svc.Reply(ctx, p.ID, "u1", "court 3, 7pm")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	r2, err := svc.Reply(ctx, p.ID, "u1", "bring shuttles")
	if err != nil {
		t.Fatalf("second reply: %v", err)
	}

	replies, err := svc.Replies(ctx, p.ID)
	if err != nil {
		t.Fatalf("replies: %v", err)
	}
	if len(replies) != 2 || replies[0].ID != r1.ID || replies[1].ID != r2.ID {
		t.Fatalf("replies out of order: %+v", replies)
	}

	posts, err := svc.ListPosts(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != p.ID {
		t.Fatalf("posts = %+v", posts)
	}
}
