// Package availability holds the slot reconciliation logic for courts:
// parsing a court's configured slot catalog, subtracting the booked slots
// for a date, and guarding a booking submission before it reaches storage.
package availability

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("you must be signed in to book")
	ErrNoSlotSelected  = errors.New("please select a time slot")
	ErrSlotTaken       = errors.New("slot already booked for this date")
	ErrSubmitting      = errors.New("a booking is already being submitted")
)

// ParseCatalog splits a comma-separated slot list as entered by the court
// owner. Labels are trimmed but otherwise free text; order is preserved and
// duplicates are not removed. An empty input yields an empty catalog.
func ParseCatalog(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCatalog is the inverse of ParseCatalog for storage.
func JoinCatalog(labels []string) string {
	return strings.Join(labels, ", ")
}

// TakenSet builds a membership set from booked slot labels.
func TakenSet(slots []string) map[string]struct{} {
	set := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		set[s] = struct{}{}
	}
	return set
}

// Available returns the catalog minus any label present in taken,
// preserving catalog order. Pure: no side effects, inputs untouched.
func Available(catalog []string, taken map[string]struct{}) []string {
	out := make([]string, 0, len(catalog))
	for _, label := range catalog {
		if _, ok := taken[label]; !ok {
			out = append(out, label)
		}
	}
	return out
}

// CourtPage is the state owned by one court page session: the slot catalog,
// the ledger of slots taken on the session's cached "today", and the
// in-flight submission flag. "Today" is derived once when the page is
// created and deliberately not re-derived afterwards; a session that spans
// midnight keeps the stale date, matching the behaviour this replaces.
type CourtPage struct {
	today      string
	catalog    []string
	taken      map[string]struct{}
	submitting bool
}

func NewCourtPage(today string, catalog []string, takenToday []string) *CourtPage {
	return &CourtPage{today: today, catalog: catalog, taken: TakenSet(takenToday)}
}

func (p *CourtPage) Today() string { return p.today }

// Available reconciles the catalog against today's taken set.
func (p *CourtPage) Available() []string {
	return Available(p.catalog, p.taken)
}

// Taken reports whether a slot is booked on today's ledger.
func (p *CourtPage) Taken(slot string) bool {
	_, ok := p.taken[slot]
	return ok
}

// Guard checks the submission preconditions before any write is issued.
// The taken-set fast path only applies when the chosen date equals the
// session's cached today; other dates rely entirely on the storage
// constraint.
func (p *CourtPage) Guard(userID, slot, date string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	if slot == "" {
		return ErrNoSlotSelected
	}
	if date == p.today && p.Taken(slot) {
		return ErrSlotTaken
	}
	return nil
}

// Begin marks a submission attempt in flight; a second attempt before
// Finish is rejected so one page cannot race itself.
func (p *CourtPage) Begin() error {
	if p.submitting {
		return ErrSubmitting
	}
	p.submitting = true
	return nil
}

func (p *CourtPage) Finish() { p.submitting = false }

// MarkTaken records a successful booking into the page state:
// append-if-absent, and only when the booked date is the cached today.
// Other dates are not tracked by this page and show up on the next load.
func (p *CourtPage) MarkTaken(date, slot string) {
	if date != p.today {
		return
	}
	if p.taken == nil {
		p.taken = make(map[string]struct{})
	}
	p.taken[slot] = struct{}{}
}
