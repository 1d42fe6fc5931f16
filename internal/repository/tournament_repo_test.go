package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/you/badminton-network/internal/domain"
)

func newTournamentRepo(t *testing.T) *TournamentRepo {
	t.Helper()
	r := NewTournamentRepo(newTestDB(t))
	if err := r.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return r
}

func TestRegisterCountsPlayers(t *testing.T) {
	r := newTournamentRepo(t)
	ctx := context.Background()

	tour := &domain.Tournament{Name: "City Open", Date: "2026-10-10", MaxPlayers: 2, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u1"})
	if err != nil {
		t.Fatalf("register u1: %v", err)
	}
	if got.RegisteredPlayers != 1 {
		t.Fatalf("registered = %d, want 1", got.RegisteredPlayers)
	}

	stored, err := r.ByID(ctx, tour.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.RegisteredPlayers != 1 {
		t.Fatalf("stored registered = %d, want 1", stored.RegisteredPlayers)
	}
}

func TestRegisterFull(t *testing.T) {
	r := newTournamentRepo(t)
	ctx := context.Background()

	tour := &domain.Tournament{Name: "Small Cup", Date: "2026-10-10", MaxPlayers: 1, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u1"}); err != nil {
		t.Fatalf("register u1: %v", err)
	}
	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u2"}); !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("err = %v, want ErrTournamentFull", err)
	}
}

func TestRegisterTwiceRejected(t *testing.T) {
	r := newTournamentRepo(t)
	ctx := context.Background()

	tour := &domain.Tournament{Name: "Doubles Night", Date: "2026-10-10", MaxPlayers: 8, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u1"}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}

	stored, err := r.ByID(ctx, tour.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.RegisteredPlayers != 1 {
		t.Fatalf("registered = %d, want 1 after rejected repeat", stored.RegisteredPlayers)
	}
}

// Capacity is decided by the stored counter at increment time, not by the
// count the session read earlier; a full tournament also rolls the inserted
// registration row back.
func TestRegisterFullByStoredCounter(t *testing.T) {
	db := newTestDB(t)
	r := NewTournamentRepo(db)
	if err := r.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()

	tour := &domain.Tournament{Name: "Last Place", Date: "2026-10-10", MaxPlayers: 2, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u1"}); err != nil {
		t.Fatalf("register u1: %v", err)
	}

	// another session takes the last place
	if err := db.Model(&domain.Tournament{}).Where("id = ?", tour.ID).
		UpdateColumn("registered_players", 2).Error; err != nil {
		t.Fatalf("fill counter: %v", err)
	}

	if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: "u2"}); !errors.Is(err, ErrTournamentFull) {
		t.Fatalf("err = %v, want ErrTournamentFull", err)
	}

	var regs int64
	if err := db.Model(&domain.Registration{}).Where("tournament_id = ?", tour.ID).Count(&regs).Error; err != nil {
		t.Fatalf("count registrations: %v", err)
	}
	if regs != 1 {
		t.Fatalf("registrations = %d, want 1 (rejected row rolled back)", regs)
	}
	stored, err := r.ByID(ctx, tour.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.RegisteredPlayers != 2 {
		t.Fatalf("registered = %d, want 2 unchanged", stored.RegisteredPlayers)
	}
}

func TestRegisterUnlimitedCapacity(t *testing.T) {
	r := newTournamentRepo(t)
	ctx := context.Background()

	tour := &domain.Tournament{Name: "Open Social", Date: "2026-10-10", MaxPlayers: 0, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, uid := range []string{"u1", "u2", "u3"} {
		if _, err := r.Register(ctx, &domain.Registration{TournamentID: tour.ID, UserID: uid}); err != nil {
			t.Fatalf("register %s: %v", uid, err)
		}
	}
	stored, err := r.ByID(ctx, tour.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if stored.RegisteredPlayers != 3 {
		t.Fatalf("registered = %d, want 3", stored.RegisteredPlayers)
	}
}

func TestUpdateNotOwner(t *testing.T) {
	r := newTournamentRepo(t)
	ctx := context.Background()

	tour := &domain.Tournament{Name: "City Open", Date: "2026-10-10", MaxPlayers: 16, CreatedBy: "owner"}
	if err := r.Create(ctx, tour); err != nil {
		t.Fatalf("create: %v", err)
	}
	tour.Name = "Renamed"
	if err := r.Update(ctx, tour, "someone-else"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}
	if err := r.Update(ctx, tour, "owner"); err != nil {
		t.Fatalf("owner update: %v", err)
	}

	missing := &domain.Tournament{ID: "missing", Name: "Ghost"}
	if err := r.Update(ctx, missing, "owner"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing update err = %v, want ErrRecordNotFound", err)
	}
	if err := r.Delete(ctx, "missing", "owner"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing delete err = %v, want ErrRecordNotFound", err)
	}
}
