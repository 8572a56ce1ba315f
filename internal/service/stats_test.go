package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
)

func paid(id uint64, date string, price int64) model.Match {
	return model.Match{
		ID: id, VenueID: venueID, CourtID: courtA, Date: date,
		TimeSlots: []string{"18:00-19:00"}, Price: price, PaymentStatus: model.PaymentPaid,
	}
}

func TestOverview(t *testing.T) {
	var ms []model.Match
	// one paid match on each of the ten days up to and including today
	for d := 1; d <= 10; d++ {
		ms = append(ms, paid(uint64(d), fmt.Sprintf("2025-09-%02d", 14+d), 1000))
	}
	ms = append(ms,
		paid(20, "2025-09-24", 500),
		paid(21, "2025-07-01", 9999), // outside the window
		model.Match{ID: 22, VenueID: venueID, Date: "2025-09-24", Price: 700, PaymentStatus: model.PaymentPending},
		model.Match{ID: 23, VenueID: venueID, Date: "2025-09-24", Price: 700, PaymentStatus: model.PaymentPaid, IsCancelled: true},
	)
	s := NewStatsService(newFakeVenues(testVenue()), newFakeMatches(ms...), ist).
		WithClock(func() time.Time { return wedMorning() })

	o, err := s.Overview(context.Background(), admin)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(o.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(o.Days))
	}
	if o.Days[0].Date != "2025-09-24" || o.Days[6].Date != "2025-09-18" {
		t.Fatalf("unexpected range %s..%s", o.Days[0].Date, o.Days[6].Date)
	}
	if o.Days[0].Bookings != 2 || o.Days[0].Revenue != 1500 {
		t.Fatalf("today bucket = %+v", o.Days[0])
	}
	if o.TotalBookings != 8 || o.TotalRevenue != 7500 {
		t.Fatalf("totals = %d/%d, want 8/7500", o.TotalBookings, o.TotalRevenue)
	}
	if o.Today.Date != "2025-09-24" || o.Today.Revenue != 1500 || o.Today.DateLabel != "24 Sep Wednesday" {
		t.Fatalf("today = %+v", o.Today)
	}
}

func TestDayStats(t *testing.T) {
	s := NewStatsService(newFakeVenues(testVenue()), newFakeMatches(paid(1, "2025-09-20", 1800), paid(2, "2025-09-20", 1800)), ist).
		WithClock(func() time.Time { return wedMorning() })
	ctx := context.Background()

	d, err := s.Day(ctx, admin, "2025-09-20")
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	if d.Bookings != 2 || d.Revenue != 3600 || len(d.Matches) != 2 {
		t.Fatalf("unexpected %+v", d)
	}
	if _, err := s.Day(ctx, admin, "20-09-2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("bad date err = %v", err)
	}
	if _, err := s.Day(ctx, player, "2025-09-20"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("player err = %v", err)
	}
	if _, err := s.Overview(ctx, Actor{ID: 55, Role: model.ProfileAdmin}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("admin without venue err = %v", err)
	}
}
