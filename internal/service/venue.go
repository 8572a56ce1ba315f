package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/pricing"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/timeslot"
)

var (
	ErrInvalidHours  = errors.New("opening time must be before closing time")
	ErrInvalidRule   = errors.New("invalid pricing rule")
	ErrInvalidCourt  = errors.New("sport type is required")
	ErrInvalidCutoff = errors.New("cancellation cutoff must not be negative")
)

// VenueStore is the persistence the venue service needs.
type VenueStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	GetByOwner(ctx context.Context, adminID uint64) (*model.Venue, error)
	List(ctx context.Context) ([]*model.Venue, error)
	Create(ctx context.Context, v *model.Venue) (*model.Venue, error)
	Update(ctx context.Context, id, adminID uint64, patch repository.VenuePatch) (*model.Venue, error)
	UpsertPricingRules(ctx context.Context, venueID uint64, rules []model.PricingRule) error
	AddCourt(ctx context.Context, c model.Court) (*model.Court, error)
}

// Purger drops cached venue reads after a write.
type Purger interface {
	Purge(ctx context.Context)
}

type nopPurger struct{}

func (nopPurger) Purge(context.Context) {}

// VenueService provisions and edits venues.  Every write purges the venue
// read cache.
type VenueService struct {
	store VenueStore
	cache Purger
	log   *zerolog.Logger
}

// NewVenueService wires a VenueService.  cache may be nil.
func NewVenueService(store VenueStore, cache Purger, log *zerolog.Logger) *VenueService {
	if cache == nil {
		cache = nopPurger{}
	}
	return &VenueService{store: store, cache: cache, log: log}
}

// DefaultVenue is the venue a new admin starts with: two basketball courts
// open 06:00 to 23:00 and the default price table.
func DefaultVenue(adminID uint64) *model.Venue {
	desc := "A premium sports facility"
	return &model.Venue{
		OwnerAdminID: adminID,
		Name:         "My Sports Venue",
		Description:  &desc,
		Location:     "Mumbai, India",
		OperatingHours: model.OperatingHours{
			OpeningTime: "06:00",
			ClosingTime: "23:00",
		},
		CancellationCutoffHours: 2,
		Amenities:               []string{"parking", "changing-room", "water", "first-aid"},
		Courts: []model.Court{
			{SportType: "basketball", CourtNumber: 1, Name: "Basketball - Court 1", Icon: "🏀", IsActive: true},
			{SportType: "basketball", CourtNumber: 2, Name: "Basketball - Court 2", Icon: "🏀", IsActive: true},
		},
		PricingRules: pricing.DefaultRules(),
	}
}

// Get returns one venue.
func (s *VenueService) Get(ctx context.Context, id uint64) (*model.Venue, error) {
	return s.store.GetByID(ctx, id)
}

// ForAdmin returns the venue owned by adminID.
func (s *VenueService) ForAdmin(ctx context.Context, adminID uint64) (*model.Venue, error) {
	return s.store.GetByOwner(ctx, adminID)
}

// List returns every venue.
func (s *VenueService) List(ctx context.Context) ([]*model.Venue, error) {
	return s.store.List(ctx)
}

// Provision creates the default venue for an admin.  An admin can only
// provision for themselves, once.
func (s *VenueService) Provision(ctx context.Context, actor Actor, adminID uint64) (*model.Venue, error) {
	if !actor.IsAdmin() || actor.ID != adminID {
		return nil, repository.ErrForbidden
	}
	v, err := s.store.Create(ctx, DefaultVenue(adminID))
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint64("venue_id", v.ID).Uint64("admin_id", adminID).Msg("venue provisioned")
	s.cache.Purge(ctx)
	return v, nil
}

// Update applies patch to a venue owned by actor.  When either operating
// hour changes the resulting window must still open before it closes.
func (s *VenueService) Update(ctx context.Context, actor Actor, venueID uint64, patch repository.VenuePatch) (*model.Venue, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	if patch.OpeningTime != nil || patch.ClosingTime != nil {
		cur, err := s.store.GetByID(ctx, venueID)
		if err != nil {
			return nil, err
		}
		if cur.OwnerAdminID != actor.ID {
			return nil, repository.ErrForbidden
		}
		from, to := cur.OperatingHours.OpeningTime, cur.OperatingHours.ClosingTime
		if patch.OpeningTime != nil {
			from = *patch.OpeningTime
		}
		if patch.ClosingTime != nil {
			to = *patch.ClosingTime
		}
		if len(timeslot.Generate(from, to)) == 0 {
			return nil, ErrInvalidHours
		}
	}
	if patch.CancellationCutoffHours != nil && *patch.CancellationCutoffHours < 0 {
		return nil, ErrInvalidCutoff
	}
	v, err := s.store.Update(ctx, venueID, actor.ID, patch)
	if err != nil {
		return nil, err
	}
	s.cache.Purge(ctx)
	return v, nil
}

// SetPricing upserts rules for a venue owned by actor.  Each (time period,
// day type) pair keeps at most one rule.
func (s *VenueService) SetPricing(ctx context.Context, actor Actor, venueID uint64, rules []model.PricingRule) (*model.Venue, error) {
	v, err := s.owned(ctx, actor, venueID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if !validPeriod(r.TimePeriod) || !validDay(r.DayType) || r.PricePerHour < 0 {
			return nil, ErrInvalidRule
		}
		k := string(r.TimePeriod) + "/" + string(r.DayType)
		if seen[k] {
			return nil, ErrInvalidRule
		}
		seen[k] = true
	}
	if err := s.store.UpsertPricingRules(ctx, v.ID, rules); err != nil {
		return nil, err
	}
	s.cache.Purge(ctx)
	return s.store.GetByID(ctx, v.ID)
}

// AddCourt adds a court to a venue owned by actor.  The court number is
// the next one for its sport.
func (s *VenueService) AddCourt(ctx context.Context, actor Actor, venueID uint64, sport, name, icon string) (*model.Court, error) {
	v, err := s.owned(ctx, actor, venueID)
	if err != nil {
		return nil, err
	}
	sport = strings.ToLower(strings.TrimSpace(sport))
	if sport == "" {
		return nil, ErrInvalidCourt
	}
	c, err := s.store.AddCourt(ctx, model.Court{
		VenueID:   v.ID,
		SportType: sport,
		Name:      strings.TrimSpace(name),
		Icon:      icon,
		IsActive:  true,
	})
	if err != nil {
		return nil, err
	}
	s.cache.Purge(ctx)
	return c, nil
}

func (s *VenueService) owned(ctx context.Context, actor Actor, venueID uint64) (*model.Venue, error) {
	if !actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	v, err := s.store.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if v.OwnerAdminID != actor.ID {
		return nil, repository.ErrForbidden
	}
	return v, nil
}

func validPeriod(p model.TimePeriod) bool {
	return p == model.Morning || p == model.Afternoon || p == model.Evening
}

func validDay(d model.DayType) bool {
	return d == model.Weekday || d == model.Weekend
}
