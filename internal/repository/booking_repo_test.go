package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/you/badminton-network/internal/domain"
)

func newBookingRepo(t *testing.T) *BookingRepo {
	t.Helper()
	r := NewBookingRepo(newTestDB(t))
	if err := r.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return r
}

func TestCreateIfFree(t *testing.T) {
	r := newBookingRepo(t)
	ctx := context.Background()

	first := &domain.Booking{CourtID: "c1", UserID: "u1", BookingDate: "2026-08-31", Slot: "9-11am", Status: "UNPAID"}
	if err := r.CreateIfFree(ctx, first); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if first.ID == "" {
		t.Fatal("booking id not assigned")
	}

	// same court, date and slot from another user loses
	dup := &domain.Booking{CourtID: "c1", UserID: "u2", BookingDate: "2026-08-31", Slot: "9-11am", Status: "UNPAID"}
	if err := r.CreateIfFree(ctx, dup); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("duplicate triple err = %v, want ErrSlotTaken", err)
	}

	// different slot and different date are both fine
	if err := r.CreateIfFree(ctx, &domain.Booking{CourtID: "c1", UserID: "u2", BookingDate: "2026-08-31", Slot: "2-4pm", Status: "UNPAID"}); err != nil {
		t.Fatalf("other slot: %v", err)
	}
	if err := r.CreateIfFree(ctx, &domain.Booking{CourtID: "c1", UserID: "u2", BookingDate: "2026-09-01", Slot: "9-11am", Status: "UNPAID"}); err != nil {
		t.Fatalf("other date: %v", err)
	}

	// another court is an independent ledger
	if err := r.CreateIfFree(ctx, &domain.Booking{CourtID: "c2", UserID: "u3", BookingDate: "2026-08-31", Slot: "9-11am", Status: "UNPAID"}); err != nil {
		t.Fatalf("other court: %v", err)
	}
}

func TestTakenSlots(t *testing.T) {
	r := newBookingRepo(t)
	ctx := context.Background()

	seed := []domain.Booking{
		{CourtID: "c1", UserID: "u1", BookingDate: "2026-08-31", Slot: "9-11am", Status: "UNPAID"},
		{CourtID: "c1", UserID: "u2", BookingDate: "2026-08-31", Slot: "2-4pm", Status: "UNPAID"},
		{CourtID: "c1", UserID: "u1", BookingDate: "2026-09-01", Slot: "6-8pm", Status: "UNPAID"},
		{CourtID: "c2", UserID: "u1", BookingDate: "2026-08-31", Slot: "6-8pm", Status: "UNPAID"},
	}
	for i := range seed {
		if err := r.CreateIfFree(ctx, &seed[i]); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	got, err := r.TakenSlots(ctx, "c1", "2026-08-31")
	if err != nil {
		t.Fatalf("TakenSlots: %v", err)
	}
	want := map[string]bool{"9-11am": true, "2-4pm": true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want slots %v", got, want)
	}
	for _, s := range got {
		if !want[s] {
			t.Fatalf("unexpected slot %q in %v", s, got)
		}
	}

	empty, err := r.TakenSlots(ctx, "c1", "2026-12-25")
	if err != nil {
		t.Fatalf("TakenSlots empty date: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("got %v, want none", empty)
	}
}

func TestListByCourtOrdered(t *testing.T) {
	r := newBookingRepo(t)
	ctx := context.Background()

	for _, b := range []domain.Booking{
		{CourtID: "c1", UserID: "u1", BookingDate: "2026-09-02", Slot: "2-4pm", Status: "UNPAID"},
		{CourtID: "c1", UserID: "u1", BookingDate: "2026-09-01", Slot: "9-11am", Status: "UNPAID"},
		{CourtID: "c1", UserID: "u1", BookingDate: "2026-09-01", Slot: "2-4pm", Status: "UNPAID"},
	} {
		bb := b
		if err := r.CreateIfFree(ctx, &bb); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := r.ListByCourt(ctx, "c1")
	if err != nil {
		t.Fatalf("ListByCourt: %v", err)
	}
	var keys []string
	for _, b := range got {
		keys = append(keys, b.BookingDate+"/"+b.Slot)
	}
	want := []string{"2026-09-01/2-4pm", "2026-09-01/9-11am", "2026-09-02/2-4pm"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("order = %v, want %v", keys, want)
	}
}

func TestMarkPaidIfNotProcessed(t *testing.T) {
	r := newBookingRepo(t)
	ctx := context.Background()

	b := &domain.Booking{CourtID: "c1", UserID: "u1", BookingDate: "2026-08-31", Slot: "9-11am", Status: "UNPAID"}
	if err := r.CreateIfFree(ctx, b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	got, err := r.MarkPaidIfNotProcessed(ctx, b.ID, "chrg_1", "payment.paid")
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if got.Status != "PAID" {
		t.Fatalf("status = %q, want PAID", got.Status)
	}

	// redelivery of the same charge event is a no-op
	again, err := r.MarkPaidIfNotProcessed(ctx, b.ID, "chrg_1", "payment.paid")
	if err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if again.Status != "PAID" {
		t.Fatalf("status after redelivery = %q, want PAID", again.Status)
	}

	fresh, err := r.ByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if fresh.Status != "PAID" {
		t.Fatalf("stored status = %q, want PAID", fresh.Status)
	}
}

func TestMarkPaidUnknownBooking(t *testing.T) {
	r := newBookingRepo(t)
	if _, err := r.MarkPaidIfNotProcessed(context.Background(), "missing", "chrg_x", "payment.paid"); err == nil {
		t.Fatal("expected error for unknown booking")
	}
}
