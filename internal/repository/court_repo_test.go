package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

func newCourtRepo(t *testing.T) *CourtRepo {
	t.Helper()
	r := NewCourtRepo(newTestDB(t))
	if err := r.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return r
}

func TestCourtOwnership(t *testing.T) {
	r := newCourtRepo(t)
	ctx := context.Background()

	c := &domain.Court{Name: "Smash Arena", City: "Bangkok", AvailableTimes: "9-11am, 2-4pm", CreatedBy: "owner"}
	if err := r.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	c.Name = "Smash Arena 2"
	if err := r.Update(ctx, c, "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("update err = %v, want ErrNotOwner", err)
	}
	if err := r.Update(ctx, c, "owner"); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	got, err := r.ByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.Name != "Smash Arena 2" {
		t.Fatalf("name = %q, want updated", got.Name)
	}

	if err := r.Delete(ctx, c.ID, "intruder"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("delete err = %v, want ErrNotOwner", err)
	}
	if err := r.Delete(ctx, c.ID, "owner"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestCourtWriteMissingID(t *testing.T) {
	r := newCourtRepo(t)
	ctx := context.Background()

	missing := &domain.Court{ID: "missing", Name: "Ghost Court"}
	if err := r.Update(ctx, missing, "owner"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("update err = %v, want ErrRecordNotFound", err)
	}
	if err := r.Delete(ctx, "missing", "owner"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("delete err = %v, want ErrRecordNotFound", err)
	}
}
