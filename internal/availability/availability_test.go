package availability

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseCatalog(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "9-11am", []string{"9-11am"}},
		{"trims spaces", " 9-11am , 2-4pm ", []string{"9-11am", "2-4pm"}},
		{"drops empty entries", "9-11am,,2-4pm,", []string{"9-11am", "2-4pm"}},
		{"keeps duplicates", "9-11am,9-11am", []string{"9-11am", "9-11am"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseCatalog(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("ParseCatalog(%q) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestJoinCatalogRoundTrip(t *testing.T) {
	labels := []string{"9-11am", "2-4pm", "6-8pm"}
	got := ParseCatalog(JoinCatalog(labels))
	if !reflect.DeepEqual(got, labels) {
		t.Fatalf("round trip = %v, want %v", got, labels)
	}
}

func TestAvailableNoneTaken(t *testing.T) {
	catalog := []string{"9-11am", "2-4pm"}
	got := Available(catalog, TakenSet(nil))
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("got %v, want full catalog %v", got, catalog)
	}
}

func TestAvailableSubtractsTaken(t *testing.T) {
	catalog := []string{"9-11am", "2-4pm"}
	got := Available(catalog, TakenSet([]string{"9-11am"}))
	if !reflect.DeepEqual(got, []string{"2-4pm"}) {
		t.Fatalf("got %v, want [2-4pm]", got)
	}
}

func TestAvailableAllTaken(t *testing.T) {
	catalog := []string{"9-11am", "2-4pm"}
	got := Available(catalog, TakenSet(catalog))
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestAvailablePreservesOrder(t *testing.T) {
	catalog := []string{"6-8pm", "9-11am", "2-4pm"}
	got := Available(catalog, TakenSet([]string{"9-11am"}))
	want := []string{"6-8pm", "2-4pm"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v (catalog order)", got, want)
	}
}

func TestAvailableIgnoresUnknownTaken(t *testing.T) {
	catalog := []string{"9-11am"}
	got := Available(catalog, TakenSet([]string{"midnight"}))
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("got %v, want %v", got, catalog)
	}
}

func TestAvailableIsPure(t *testing.T) {
	catalog := []string{"9-11am", "2-4pm"}
	taken := TakenSet([]string{"9-11am"})
	_ = Available(catalog, taken)
	_ = Available(catalog, taken)
	if !reflect.DeepEqual(catalog, []string{"9-11am", "2-4pm"}) {
		t.Fatalf("catalog mutated: %v", catalog)
	}
	if len(taken) != 1 {
		t.Fatalf("taken mutated: %v", taken)
	}
}

func TestGuardUnauthenticated(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, nil)
	if err := p.Guard("", "9-11am", "2026-08-31"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestGuardNoSlot(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, nil)
	if err := p.Guard("u1", "", "2026-08-31"); !errors.Is(err, ErrNoSlotSelected) {
		t.Fatalf("err = %v, want ErrNoSlotSelected", err)
	}
}

func TestGuardTakenToday(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am", "2-4pm"}, []string{"9-11am"})
	if err := p.Guard("u1", "9-11am", "2026-08-31"); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
	if err := p.Guard("u1", "2-4pm", "2026-08-31"); err != nil {
		t.Fatalf("free slot rejected: %v", err)
	}
}

// The fast path only covers the cached today; a future date passes the guard
// even if its slot is taken, and the storage constraint decides.
func TestGuardSkipsFastPathForOtherDates(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, []string{"9-11am"})
	if err := p.Guard("u1", "9-11am", "2026-09-01"); err != nil {
		t.Fatalf("future date hit the today fast path: %v", err)
	}
}

func TestMarkTakenThenGuardRejects(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am", "2-4pm"}, nil)
	if err := p.Guard("u1", "9-11am", "2026-08-31"); err != nil {
		t.Fatalf("first submission blocked: %v", err)
	}
	p.MarkTaken("2026-08-31", "9-11am")
	if err := p.Guard("u1", "9-11am", "2026-08-31"); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("repeat submission err = %v, want ErrSlotTaken", err)
	}
	if got := p.Available(); !reflect.DeepEqual(got, []string{"2-4pm"}) {
		t.Fatalf("available = %v, want [2-4pm]", got)
	}
}

func TestMarkTakenIgnoresOtherDates(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, nil)
	p.MarkTaken("2026-09-01", "9-11am")
	if p.Taken("9-11am") {
		t.Fatal("a booking on another date leaked into today's ledger")
	}
}

func TestMarkTakenIdempotent(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, nil)
	p.MarkTaken("2026-08-31", "9-11am")
	p.MarkTaken("2026-08-31", "9-11am")
	if got := len(p.Available()); got != 0 {
		t.Fatalf("available count = %d, want 0", got)
	}
}

func TestBeginFinish(t *testing.T) {
	p := NewCourtPage("2026-08-31", []string{"9-11am"}, nil)
	if err := p.Begin(); err != nil {
		t.Fatalf("first Begin: %v", err)
	}
	if err := p.Begin(); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("second Begin err = %v, want ErrSubmitting", err)
	}
	p.Finish()
	if err := p.Begin(); err != nil {
		t.Fatalf("Begin after Finish: %v", err)
	}
}
