package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maidaan/maidaan/internal/logger"
	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/repository"
)

func strp(s string) *string { return &s }
func intp(i int) *int { return &i }

func newVenueSvc() (*VenueService, *fakeVenues, *countingPurger) {
	store := newFakeVenues(testVenue())
	purger := &countingPurger{}
	return NewVenueService(store, purger, logger.Nop()), store, purger
}

func TestProvision(t *testing.T) {
	s, _, purger := newVenueSvc()
	ctx := context.Background()
	newAdmin := Actor{ID: 2, Role: model.ProfileAdmin}

	if _, err := s.Provision(ctx, player, playerID); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("player provision err = %v", err)
	}
	if _, err := s.Provision(ctx, newAdmin, 3); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("provision for someone else err = %v", err)
	}
	v, err := s.Provision(ctx, newAdmin, 2)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if v.OwnerAdminID != 2 || len(v.Courts) != 2 || len(v.PricingRules) != 6 {
		t.Fatalf("unexpected default venue %+v", v)
	}
	if v.OperatingHours.OpeningTime != "06:00" || v.OperatingHours.ClosingTime != "23:00" || v.CancellationCutoffHours != 2 {
		t.Fatalf("unexpected defaults %+v", v.OperatingHours)
	}
	if purger.n != 1 {
		t.Fatalf("purges = %d, want 1", purger.n)
	}
	if _, err := s.Provision(ctx, newAdmin, 2); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("second provision err = %v", err)
	}
}

func TestUpdateVenue(t *testing.T) {
	cases := []struct {
		name  string
		actor Actor
		patch repository.VenuePatch
		want  error
	}{
		{"player", player, repository.VenuePatch{Name: strp("x")}, repository.ErrForbidden},
		{"foreign admin", Actor{ID: 99, Role: model.ProfileAdmin}, repository.VenuePatch{Name: strp("x")}, repository.ErrForbidden},
		{"closing before opening", admin, repository.VenuePatch{ClosingTime: strp("05:00")}, ErrInvalidHours},
		{"equal hours", admin, repository.VenuePatch{OpeningTime: strp("10:00"), ClosingTime: strp("10:00")}, ErrInvalidHours},
		{"negative cutoff", admin, repository.VenuePatch{CancellationCutoffHours: intp(-1)}, ErrInvalidCutoff},
		{"ok", admin, repository.VenuePatch{Name: strp("Arena"), OpeningTime: strp("08:00")}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, store, purger := newVenueSvc()
			v, err := s.Update(context.Background(), c.actor, venueID, c.patch)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
			if c.want != nil {
				if purger.n != 0 {
					t.Fatal("failed update purged the cache")
				}
				return
			}
			if v.Name != "Arena" || store.venues[venueID].OperatingHours.OpeningTime != "08:00" {
				t.Fatalf("patch not applied: %+v", v)
			}
			if purger.n != 1 {
				t.Fatalf("purges = %d, want 1", purger.n)
			}
		})
	}
}

func TestSetPricing(t *testing.T) {
	s, _, purger := newVenueSvc()
	ctx := context.Background()

	bad := [][]model.PricingRule{
		{{TimePeriod: "night", DayType: model.Weekday, PricePerHour: 1}},
		{{TimePeriod: model.Morning, DayType: "holiday", PricePerHour: 1}},
		{{TimePeriod: model.Morning, DayType: model.Weekday, PricePerHour: -5}},
		{
			{TimePeriod: model.Morning, DayType: model.Weekday, PricePerHour: 1},
			{TimePeriod: model.Morning, DayType: model.Weekday, PricePerHour: 2},
		},
	}
	for i, rules := range bad {
		if _, err := s.SetPricing(ctx, admin, venueID, rules); !errors.Is(err, ErrInvalidRule) {
			t.Errorf("case %d: err = %v, want ErrInvalidRule", i, err)
		}
	}

	v, err := s.SetPricing(ctx, admin, venueID, []model.PricingRule{
		{TimePeriod: model.Evening, DayType: model.Weekday, PricePerHour: 2000},
	})
	if err != nil {
		t.Fatalf("set pricing: %v", err)
	}
	found := false
	for _, r := range v.PricingRules {
		if r.TimePeriod == model.Evening && r.DayType == model.Weekday {
			found = r.PricePerHour == 2000
		}
	}
	if !found || len(v.PricingRules) != 6 {
		t.Fatalf("rule not upserted: %+v", v.PricingRules)
	}
	if purger.n != 1 {
		t.Fatalf("purges = %d, want 1", purger.n)
	}
}

func TestAddCourtNumbersPerSport(t *testing.T) {
	s, _, _ := newVenueSvc()
	ctx := context.Background()

	if _, err := s.AddCourt(ctx, admin, venueID, "  ", "", ""); !errors.Is(err, ErrInvalidCourt) {
		t.Fatalf("blank sport err = %v", err)
	}
	c, err := s.AddCourt(ctx, admin, venueID, "Basketball", "", "🏀")
	if err != nil {
		t.Fatalf("add court: %v", err)
	}
	if c.CourtNumber != 4 || c.Name != "Basketball - Court 4" || !c.IsActive {
		t.Fatalf("unexpected court %+v", c)
	}
	c, err = s.AddCourt(ctx, admin, venueID, "tennis", "Centre Court", "")
	if err != nil {
		t.Fatalf("add court: %v", err)
	}
	if c.CourtNumber != 1 || c.Name != "Centre Court" {
		t.Fatalf("unexpected court %+v", c)
	}
}
