package service

import (
	"context"
	"sync"
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/pricing"
	"github.com/maidaan/maidaan/internal/repository"
)

const (
	adminID  = uint64(1)
	playerID = uint64(7)
	otherID  = uint64(8)
	venueID  = uint64(10)
	courtA   = uint64(100)
	courtB   = uint64(101)
	courtOff = uint64(102)
)

var ist = time.FixedZone("IST", 5*3600+1800)

func testVenue() *model.Venue {
	return &model.Venue{
		ID:                      venueID,
		OwnerAdminID:            adminID,
		Name:                    "My Sports Venue",
		OperatingHours:          model.OperatingHours{OpeningTime: "06:00", ClosingTime: "23:00"},
		CancellationCutoffHours: 2,
		Courts: []model.Court{
			{ID: courtA, VenueID: venueID, SportType: "basketball", CourtNumber: 1, Name: "Basketball - Court 1", IsActive: true},
			{ID: courtB, VenueID: venueID, SportType: "basketball", CourtNumber: 2, Name: "Basketball - Court 2", IsActive: true},
			{ID: courtOff, VenueID: venueID, SportType: "basketball", CourtNumber: 3, Name: "Basketball - Court 3", IsActive: false},
		},
		PricingRules: pricing.DefaultRules(),
	}
}

type fakeVenues struct {
	mu     sync.Mutex
	venues map[uint64]*model.Venue
	nextID uint64
}

func newFakeVenues(vs ...*model.Venue) *fakeVenues {
	f := &fakeVenues{venues: map[uint64]*model.Venue{}, nextID: 50}
	for _, v := range vs {
		f.venues[v.ID] = v
	}
	return f
}

func (f *fakeVenues) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVenues) GetByOwner(_ context.Context, adminID uint64) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.venues {
		if v.OwnerAdminID == adminID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVenues) List(context.Context) ([]*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Venue, 0, len(f.venues))
	for _, v := range f.venues {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeVenues) Create(_ context.Context, v *model.Venue) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.venues {
		if existing.OwnerAdminID == v.OwnerAdminID {
			return nil, repository.ErrConflict
		}
	}
	f.nextID++
	cp := *v
	cp.ID = f.nextID
	for i := range cp.Courts {
		f.nextID++
		cp.Courts[i].ID = f.nextID
		cp.Courts[i].VenueID = cp.ID
	}
	f.venues[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeVenues) Update(_ context.Context, id, adminID uint64, p repository.VenuePatch) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v.OwnerAdminID != adminID {
		return nil, repository.ErrForbidden
	}
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.OpeningTime != nil {
		v.OperatingHours.OpeningTime = *p.OpeningTime
	}
	if p.ClosingTime != nil {
		v.OperatingHours.ClosingTime = *p.ClosingTime
	}
	if p.CancellationCutoffHours != nil {
		v.CancellationCutoffHours = *p.CancellationCutoffHours
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVenues) UpsertPricingRules(_ context.Context, venueID uint64, rules []model.PricingRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.venues[venueID]
	for _, r := range rules {
		replaced := false
		for i := range v.PricingRules {
			if v.PricingRules[i].TimePeriod == r.TimePeriod && v.PricingRules[i].DayType == r.DayType {
				v.PricingRules[i].PricePerHour = r.PricePerHour
				replaced = true
			}
		}
		if !replaced {
			v.PricingRules = append(v.PricingRules, r)
		}
	}
	return nil
}

func (f *fakeVenues) AddCourt(_ context.Context, c model.Court) (*model.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.venues[c.VenueID]
	last := 0
	for _, existing := range v.Courts {
		if existing.SportType == c.SportType && existing.CourtNumber > last {
			last = existing.CourtNumber
		}
	}
	f.nextID++
	c.ID = f.nextID
	c.CourtNumber = last + 1
	if c.Name == "" {
		c.Name = repository.CourtName(c.SportType, c.CourtNumber)
	}
	v.Courts = append(v.Courts, c)
	return &c, nil
}

// fakeMatches keeps matches in memory and enforces the per-slot uniqueness
// the database enforces through match_slots.
type fakeMatches struct {
	mu      sync.Mutex
	matches map[uint64]*model.Match
	nextID  uint64
}

func newFakeMatches(ms ...model.Match) *fakeMatches {
	f := &fakeMatches{matches: map[uint64]*model.Match{}}
	for i := range ms {
		m := ms[i]
		f.matches[m.ID] = &m
		if m.ID > f.nextID {
			f.nextID = m.ID
		}
	}
	return f
}

func (f *fakeMatches) FetchMatches(_ context.Context, venueID, courtID uint64, date string) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Match
	for _, m := range f.matches {
		if m.VenueID == venueID && m.CourtID == courtID && m.Date == date && !m.IsCancelled {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMatches) Insert(_ context.Context, d model.MatchDraft) (*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.matches {
		if m.IsCancelled || m.VenueID != d.VenueID || m.CourtID != d.CourtID || m.Date != d.Date {
			continue
		}
		for _, s := range d.TimeSlots {
			if m.Occupies(s) {
				return nil, repository.ErrSlotTaken
			}
		}
	}
	f.nextID++
	m := &model.Match{
		ID:                       f.nextID,
		VenueID:                  d.VenueID,
		CourtID:                  d.CourtID,
		HostPlayerID:             d.HostPlayerID,
		BookerName:               d.BookerName,
		BookerContact:            d.BookerContact,
		Date:                     d.Date,
		TimeSlots:                append([]string(nil), d.TimeSlots...),
		SportType:                d.SportType,
		MatchType:                d.MatchType,
		MatchStatus:              model.MatchStatusUpcoming,
		PlayersList:              append([]model.MatchPlayer(nil), d.PlayersList...),
		Price:                    d.Price,
		PaymentStatus:            model.PaymentPending,
		CancellationAllowedUntil: d.CancellationAllowedUntil,
	}
	f.matches[m.ID] = m
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) GetByID(_ context.Context, id uint64) (*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) ListByHost(_ context.Context, hostID uint64) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Match
	for _, m := range f.matches {
		if m.HostPlayerID == hostID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMatches) MarkPaid(_ context.Context, id uint64, method string) (*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.PaymentStatus != model.PaymentPending || m.IsCancelled {
		cp := *m
		return &cp, repository.ErrConflict
	}
	m.PaymentStatus = model.PaymentPaid
	m.PaymentMethod = &method
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) Cancel(_ context.Context, id uint64) (*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.Cancelled() {
		return nil, repository.ErrConflict
	}
	m.IsCancelled = true
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) AddPlayer(_ context.Context, id uint64, p model.MatchPlayer) (*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.IsCancelled {
		return nil, repository.ErrConflict
	}
	if !m.HasPlayer(p.PlayerID) {
		m.PlayersList = append(m.PlayersList, p)
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) PaidByVenueSince(_ context.Context, venueID uint64, since string) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Match
	for _, m := range f.matches {
		if m.VenueID == venueID && m.PaymentStatus == model.PaymentPaid && !m.IsCancelled && m.Date >= since {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMatches) PaidByVenueOnDate(_ context.Context, venueID uint64, date string) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Match
	for _, m := range f.matches {
		if m.VenueID == venueID && m.PaymentStatus == model.PaymentPaid && !m.IsCancelled && m.Date == date {
			out = append(out, *m)
		}
	}
	return out, nil
}

type published struct {
	key string
	v   any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: key, v: v})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

type countingPurger struct{ n int }

func (p *countingPurger) Purge(context.Context) { p.n++ }
