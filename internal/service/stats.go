package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/timeslot"
)

const (
	statsWindowDays = 30
	statsTopDays    = 7
)

// PaidMatchStore reads the paid matches of a venue.
type PaidMatchStore interface {
	PaidByVenueSince(ctx context.Context, venueID uint64, since string) ([]model.Match, error)
	PaidByVenueOnDate(ctx context.Context, venueID uint64, date string) ([]model.Match, error)
}

// OwnerLookup finds the venue of an admin.
type OwnerLookup interface {
	GetByOwner(ctx context.Context, adminID uint64) (*model.Venue, error)
}

// DayStats is the paid activity of one date.
type DayStats struct {
	Date      string        `json:"date"`
	DateLabel string        `json:"date_label"`
	Bookings  int           `json:"bookings"`
	Revenue   int64         `json:"revenue"`
	Matches   []model.Match `json:"matches,omitempty"`
}

// Overview summarises the recent paid activity of a venue.
type Overview struct {
	VenueID       uint64     `json:"venue_id"`
	Days          []DayStats `json:"days"`
	TotalBookings int        `json:"total_bookings"`
	TotalRevenue  int64      `json:"total_revenue"`
	Today         DayStats   `json:"today"`
}

// StatsService aggregates paid matches for the admin dashboard.
type StatsService struct {
	venues  OwnerLookup
	matches PaidMatchStore
	loc     *time.Location
	now     func() time.Time
}

// NewStatsService wires a StatsService.
func NewStatsService(venues OwnerLookup, matches PaidMatchStore, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{venues: venues, matches: matches, loc: loc, now: time.Now}
}

// WithClock replaces the clock.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Overview groups the paid matches of the last 30 days per date, newest
// first, and keeps the latest seven dates.  Totals cover the kept dates.
func (s *StatsService) Overview(ctx context.Context, actor Actor) (*Overview, error) {
	v, err := s.adminVenue(ctx, actor)
	if err != nil {
		return nil, err
	}
	today := s.now().In(s.loc)
	since := timeslot.DateKey(today.AddDate(0, 0, -(statsWindowDays - 1)))
	matches, err := s.matches.PaidByVenueSince(ctx, v.ID, since)
	if err != nil {
		return nil, fmt.Errorf("paid matches: %w", err)
	}

	byDate := map[string]*DayStats{}
	for _, m := range matches {
		d, ok := byDate[m.Date]
		if !ok {
			d = &DayStats{Date: m.Date, DateLabel: s.label(m.Date)}
			byDate[m.Date] = d
		}
		d.Bookings++
		d.Revenue += m.Price
	}
	days := make([]DayStats, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	if len(days) > statsTopDays {
		days = days[:statsTopDays]
	}

	out := &Overview{VenueID: v.ID, Days: days}
	for _, d := range days {
		out.TotalBookings += d.Bookings
		out.TotalRevenue += d.Revenue
	}
	key := timeslot.DateKey(today)
	out.Today = DayStats{Date: key, DateLabel: timeslot.FormatDate(today)}
	if d, ok := byDate[key]; ok {
		out.Today.Bookings, out.Today.Revenue = d.Bookings, d.Revenue
	}
	return out, nil
}

// Day returns the paid matches of one date with their count and revenue.
func (s *StatsService) Day(ctx context.Context, actor Actor, date string) (*DayStats, error) {
	d, err := timeslot.ParseDate(date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	v, err := s.adminVenue(ctx, actor)
	if err != nil {
		return nil, err
	}
	key := timeslot.DateKey(d)
	matches, err := s.matches.PaidByVenueOnDate(ctx, v.ID, key)
	if err != nil {
		return nil, fmt.Errorf("paid matches: %w", err)
	}
	out := &DayStats{Date: key, DateLabel: timeslot.FormatDate(d), Matches: matches}
	for _, m := range matches {
		out.Bookings++
		out.Revenue += m.Price
	}
	return out, nil
}

func (s *StatsService) adminVenue(ctx context.Context, actor Actor) (*model.Venue, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	return s.venues.GetByOwner(ctx, actor.ID)
}

func (s *StatsService) label(date string) string {
	d, err := timeslot.ParseDate(date, s.loc)
	if err != nil {
		return date
	}
	return timeslot.FormatDate(d)
}
