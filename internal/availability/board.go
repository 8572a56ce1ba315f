// Package availability computes the per-slot state of one court on one
// day: which slots are booked, which are past, what a click does under a
// given policy, and whether a multi-slot selection is acceptable.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/pricing"
	"github.com/maidaan/maidaan/internal/timeslot"
)

var (
	ErrUnknownCourt    = errors.New("court does not belong to venue")
	ErrEmptySelection  = errors.New("no time slots selected")
	ErrSlotBooked      = errors.New("time slot already booked")
	ErrSlotPast        = errors.New("time slot is in the past")
	ErrSlotUnavailable = errors.New("time slot is not available")
)

// MatchFetcher loads the matches of a court on a day.  Implementations
// should already leave out cancelled matches.  The board filters them again.
type MatchFetcher interface {
	FetchMatches(ctx context.Context, venueID, courtID uint64, date string) ([]model.Match, error)
}

// Board is the slot state of one court on one calendar day, evaluated at
// a fixed instant.  It is immutable once built.
type Board struct {
	venue   *model.Venue
	courtID uint64
	date    time.Time
	now     time.Time
	policy  Policy
	all     []string
	matches []model.Match
}

// Load fetches the court's matches for date and builds the board.  date
// must be midnight of the calendar day in the venue's location.
func Load(ctx context.Context, f MatchFetcher, v *model.Venue, courtID uint64, date, now time.Time, p Policy) (*Board, error) {
	if v == nil {
		return nil, fmt.Errorf("load board: nil venue")
	}
	if _, ok := v.Court(courtID); !ok {
		return nil, ErrUnknownCourt
	}
	matches, err := f.FetchMatches(ctx, v.ID, courtID, timeslot.DateKey(date))
	if err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}
	return NewBoard(v, courtID, date, now, p, matches), nil
}

// NewBoard builds a board from already fetched matches.  Cancelled matches,
// by flag or by the legacy payment status, are dropped.
func NewBoard(v *model.Venue, courtID uint64, date, now time.Time, p Policy, matches []model.Match) *Board {
	live := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.Cancelled() {
			continue
		}
		live = append(live, m)
	}
	return &Board{
		venue:   v,
		courtID: courtID,
		date:    date,
		now:     now,
		policy:  p,
		all:     timeslot.ForVenue(v),
		matches: live,
	}
}

func (b *Board) Policy() Policy { return b.policy }
func (b *Board) Date() time.Time { return b.date }
func (b *Board) CourtID() uint64 { return b.courtID }

// Matches are the live matches the board was built from, in fetch order.
func (b *Board) Matches() []model.Match { return b.matches }

// AllTimeSlots is the full ordered slot grid of the venue.
func (b *Board) AllTimeSlots() []string {
	return append([]string(nil), b.all...)
}

// TimeSlots is the grid split into Morning, Afternoon and Evening.
func (b *Board) TimeSlots() timeslot.Categorized {
	return timeslot.Categorize(b.all)
}

// IsSlotBooked reports whether a live match lists exactly this slot.
func (b *Board) IsSlotBooked(slot string) bool {
	_, ok := b.MatchForSlot(slot)
	return ok
}

// IsSlotDisabled reports whether the slot is past, grace period included.
func (b *Board) IsSlotDisabled(slot string) bool {
	return timeslot.IsPastTime(b.date, slot, b.now)
}

// MatchForSlot returns the first live match, in fetch order, holding slot.
func (b *Board) MatchForSlot(slot string) (*model.Match, bool) {
	for i := range b.matches {
		if b.matches[i].Occupies(slot) {
			return &b.matches[i], true
		}
	}
	return nil, false
}

// Action resolves what a click on slot does under the board's policy.
func (b *Board) Action(slot string) Action {
	return b.policy.Decide(b.IsSlotBooked(slot), b.IsSlotDisabled(slot))
}

// Clickable reports whether a click on slot does anything.
func (b *Board) Clickable(slot string) bool {
	return b.Action(slot) != ActionNone
}

// Price is the hourly rate of slot on the board's day.
func (b *Board) Price(slot string) int64 {
	return pricing.PriceForSlot(b.venue, slot, b.date)
}

// Quote prices a selection on the board's day.
func (b *Board) Quote(selected []string) int64 {
	return pricing.CalculatePrice(b.venue, selected, b.date)
}

// available reports why slot cannot be newly selected, if it cannot.
func (b *Board) available(slot string) error {
	if b.IsSlotBooked(slot) {
		return fmt.Errorf("%w: %s", ErrSlotBooked, slot)
	}
	if b.IsSlotDisabled(slot) {
		return fmt.Errorf("%w: %s", ErrSlotPast, slot)
	}
	return nil
}

// Toggle adds or removes slot from the selection.  Adding a booked or past
// slot fails with ErrSlotUnavailable.  A toggle that leaves a gap fails
// with timeslot.ErrNotContiguous.  Adjacency is always taken from the full
// grid of this board.
func (b *Board) Toggle(selected []string, slot string) ([]string, error) {
	adding := true
	for _, s := range selected {
		if s == slot {
			adding = false
			break
		}
	}
	if adding {
		if err := b.available(slot); err != nil {
			return selected, fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
		}
	}
	return timeslot.ToggleSelection(selected, slot, b.all)
}

// ValidateSelection checks a selection about to be booked: non-empty, on
// the grid, contiguous, and made only of free future slots.
func (b *Board) ValidateSelection(selected []string) error {
	if len(selected) == 0 {
		return ErrEmptySelection
	}
	if !timeslot.OnGrid(selected, b.all) {
		return timeslot.ErrInvalidSlot
	}
	if !timeslot.IsContiguous(selected, b.all) {
		return timeslot.ErrNotContiguous
	}
	for _, s := range selected {
		if err := b.available(s); err != nil {
			return err
		}
	}
	return nil
}
