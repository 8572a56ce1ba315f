// Package service holds the use cases behind the HTTP handlers: booking
// and the match lifecycle, venue provisioning and admin stats.  Services
// depend on small store interfaces so they can be exercised in memory.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/maidaan/maidaan/internal/availability"
	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/obs"
	"github.com/maidaan/maidaan/internal/queue"
	"github.com/maidaan/maidaan/internal/repository"
	"github.com/maidaan/maidaan/internal/timeslot"
	"github.com/maidaan/maidaan/internal/validate"
)

var (
	ErrPastSlot         = availability.ErrSlotPast
	ErrAlreadyPaid      = errors.New("match is already paid")
	ErrAlreadyCancelled = errors.New("match is cancelled")
	ErrCutoffPassed     = errors.New("cancellation window has passed")
	ErrCourtInactive    = errors.New("court is not active")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidPrice     = errors.New("price must not be negative")
	ErrBookerRequired   = errors.New("booker name and 10 digit contact are required")
	ErrInvalidMethod    = errors.New("payment method must be cash or qr")
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	ID   uint64
	Role string
}

// IsAdmin reports whether the actor is an admin.
func (a Actor) IsAdmin() bool { return a.Role == model.ProfileAdmin }

// VenueReader loads a venue with courts and pricing rules.
type VenueReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// MatchStore is the persistence the booking service needs.
type MatchStore interface {
	availability.MatchFetcher
	Insert(ctx context.Context, d model.MatchDraft) (*model.Match, error)
	GetByID(ctx context.Context, id uint64) (*model.Match, error)
	ListByHost(ctx context.Context, hostID uint64) ([]model.Match, error)
	MarkPaid(ctx context.Context, id uint64, method string) (*model.Match, error)
	Cancel(ctx context.Context, id uint64) (*model.Match, error)
	AddPlayer(ctx context.Context, id uint64, p model.MatchPlayer) (*model.Match, error)
}

// BookingService turns slot selections into matches and drives their
// payment, cancellation and join transitions.  Each transition publishes a
// match event; publish failures are logged only.
type BookingService struct {
	venues  VenueReader
	matches MatchStore
	pub     EventPublisher
	log     *zerolog.Logger
	loc     *time.Location
	now     func() time.Time
	tracer  trace.Tracer
}

// NewBookingService wires a BookingService.  loc is the venue timezone
// that governs dates and the past-slot rule.  A nil pub drops events.
func NewBookingService(venues VenueReader, matches MatchStore, pub EventPublisher, log *zerolog.Logger, loc *time.Location) *BookingService {
	if pub == nil {
		pub = NopPublisher{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		venues:  venues,
		matches: matches,
		pub:     pub,
		log:     log,
		loc:     loc,
		now:     time.Now,
		tracer:  obs.Tracer("booking"),
	}
}

// WithClock replaces the clock.  Tests pin it.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Location is the timezone dates are evaluated in.
func (s *BookingService) Location() *time.Location { return s.loc }

// Board loads the slot board of a court.  The venue's own admin sees it
// under AdminPolicy, everyone else under PlayerPolicy.  actor may be nil
// for anonymous callers.
func (s *BookingService) Board(ctx context.Context, actor *Actor, venueID, courtID uint64, date string) (*availability.Board, error) {
	v, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	return s.board(ctx, actor, v, courtID, date)
}

func (s *BookingService) board(ctx context.Context, actor *Actor, v *model.Venue, courtID uint64, date string) (*availability.Board, error) {
	d, err := timeslot.ParseDate(date, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	policy := availability.PlayerPolicy
	if actor != nil && actor.IsAdmin() && v.OwnerAdminID == actor.ID {
		policy = availability.AdminPolicy
	}
	return availability.Load(ctx, s.matches, v, courtID, d, s.now().In(s.loc), policy)
}

// BookRequest is a booking submission.  Price is honoured only when the
// venue's admin books.
type BookRequest struct {
	VenueID       uint64
	CourtID       uint64
	Date          string
	TimeSlots     []string
	BookerName    string
	BookerContact string
	Price         *int64
}

// Book validates the selection against the current board and stores a
// pending match.  A concurrent booking of any of the slots fails with
// repository.ErrSlotTaken.
func (s *BookingService) Book(ctx context.Context, actor Actor, req BookRequest) (*model.Match, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.Int64("venue.id", int64(req.VenueID)),
		attribute.Int64("court.id", int64(req.CourtID)),
		attribute.String("match.date", req.Date),
		attribute.StringSlice("match.slots", req.TimeSlots),
	))
	defer span.End()

	m, err := s.book(ctx, actor, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("match.id", int64(m.ID)))
	return m, nil
}

func (s *BookingService) book(ctx context.Context, actor Actor, req BookRequest) (*model.Match, error) {
	v, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	court, ok := v.Court(req.CourtID)
	if !ok {
		return nil, availability.ErrUnknownCourt
	}
	if !court.IsActive {
		return nil, ErrCourtInactive
	}
	owner := actor.IsAdmin() && v.OwnerAdminID == actor.ID
	if actor.IsAdmin() && !owner {
		return nil, repository.ErrForbidden
	}

	b, err := s.board(ctx, &actor, v, req.CourtID, req.Date)
	if err != nil {
		return nil, err
	}
	if err := b.ValidateSelection(req.TimeSlots); err != nil {
		return nil, err
	}
	slots := timeslot.SortByGrid(req.TimeSlots, b.AllTimeSlots())

	price := b.Quote(slots)
	var bookerName, bookerContact *string
	if owner {
		name := strings.TrimSpace(req.BookerName)
		contact := strings.TrimSpace(req.BookerContact)
		if name == "" || !validate.Phone10(contact) {
			return nil, ErrBookerRequired
		}
		bookerName, bookerContact = &name, &contact
		if req.Price != nil {
			if *req.Price < 0 {
				return nil, ErrInvalidPrice
			}
			price = *req.Price
		}
	}

	now := s.now()
	start, err := timeslot.SlotStart(b.Date(), slots[0])
	if err != nil {
		return nil, err
	}
	until := start.Add(-time.Duration(v.CancellationCutoffHours) * time.Hour).UTC()

	m, err := s.matches.Insert(ctx, model.MatchDraft{
		VenueID:       v.ID,
		CourtID:       court.ID,
		HostPlayerID:  actor.ID,
		BookerName:    bookerName,
		BookerContact: bookerContact,
		Date:          timeslot.DateKey(b.Date()),
		TimeSlots:     slots,
		SportType:     court.SportType,
		MatchType:     model.MatchTypeCasual,
		Price:         price,
		PlayersList: []model.MatchPlayer{{
			PlayerID:         actor.ID,
			IsHost:           true,
			InvitationStatus: model.InvitationJoined,
			JoinedAt:         &now,
		}},
		CancellationAllowedUntil: &until,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint64("match_id", m.ID).Uint64("venue_id", v.ID).Uint64("court_id", court.ID).
		Str("date", m.Date).Strs("slots", m.TimeSlots).Int64("price", m.Price).Msg("match booked")
	s.publish(ctx, queue.RKMatchBooked, m, v, actor.ID)
	return m, nil
}

// Get returns a match by id.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Match, error) {
	return s.matches.GetByID(ctx, id)
}

// MyMatches lists the matches hosted by actor, newest first.
func (s *BookingService) MyMatches(ctx context.Context, actor Actor) ([]model.Match, error) {
	return s.matches.ListByHost(ctx, actor.ID)
}

// Pay marks a pending match as paid.  Only the venue's admin may do so.
func (s *BookingService) Pay(ctx context.Context, actor Actor, id uint64, method string) (*model.Match, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Pay", trace.WithAttributes(attribute.Int64("match.id", int64(id))))
	defer span.End()

	if method != model.PaymentMethodCash && method != model.PaymentMethodQR {
		return nil, ErrInvalidMethod
	}
	m, v, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !actor.IsAdmin() || v.OwnerAdminID != actor.ID {
		return nil, repository.ErrForbidden
	}
	if err := payable(m); err != nil {
		return nil, err
	}
	paid, err := s.matches.MarkPaid(ctx, id, method)
	if errors.Is(err, repository.ErrConflict) && paid != nil {
		// lost a race; report the state that won
		if perr := payable(paid); perr != nil {
			return nil, perr
		}
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.log.Info().Uint64("match_id", id).Str("method", method).Msg("match paid")
	s.publish(ctx, queue.RKMatchPaid, paid, v, actor.ID)
	return paid, nil
}

func payable(m *model.Match) error {
	if m.Cancelled() {
		return ErrAlreadyCancelled
	}
	if m.PaymentStatus == model.PaymentPaid {
		return ErrAlreadyPaid
	}
	return nil
}

// Cancel cancels a match and frees its slots.  The venue's admin may
// cancel at any time; the host only until the match's cancellation
// deadline.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id uint64) (*model.Match, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Cancel", trace.WithAttributes(attribute.Int64("match.id", int64(id))))
	defer span.End()

	m, v, err := s.load(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if m.Cancelled() {
		return nil, ErrAlreadyCancelled
	}
	switch {
	case actor.IsAdmin() && v.OwnerAdminID == actor.ID:
	case !actor.IsAdmin() && m.HostPlayerID == actor.ID:
		if m.CancellationAllowedUntil != nil && s.now().After(*m.CancellationAllowedUntil) {
			return nil, ErrCutoffPassed
		}
	default:
		return nil, repository.ErrForbidden
	}

	cancelled, err := s.matches.Cancel(ctx, id)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrAlreadyCancelled
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.log.Info().Uint64("match_id", id).Uint64("actor_id", actor.ID).Msg("match cancelled")
	s.publish(ctx, queue.RKMatchCancelled, cancelled, v, actor.ID)
	return cancelled, nil
}

// Join adds a player to a live match.  Joining twice is a no-op.
func (s *BookingService) Join(ctx context.Context, actor Actor, id uint64) (*model.Match, error) {
	if actor.IsAdmin() {
		return nil, repository.ErrForbidden
	}
	m, v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Cancelled() {
		return nil, ErrAlreadyCancelled
	}
	if m.HasPlayer(actor.ID) {
		return m, nil
	}
	now := s.now()
	joined, err := s.matches.AddPlayer(ctx, id, model.MatchPlayer{
		PlayerID:         actor.ID,
		InvitationStatus: model.InvitationJoined,
		JoinedAt:         &now,
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrAlreadyCancelled
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.RKMatchJoined, joined, v, actor.ID)
	return joined, nil
}

func (s *BookingService) load(ctx context.Context, id uint64) (*model.Match, *model.Venue, error) {
	m, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.venues.GetByID(ctx, m.VenueID)
	if err != nil {
		return nil, nil, err
	}
	return m, v, nil
}

func (s *BookingService) publish(ctx context.Context, key string, m *model.Match, v *model.Venue, actor uint64) {
	courtName := ""
	if c, ok := v.Court(m.CourtID); ok {
		courtName = c.Name
	}
	ev := queue.NewMatchEvent(m, v.Name, courtName, actor, s.now())
	if err := s.pub.PublishJSON(ctx, key, ev); err != nil {
		s.log.Warn().Err(err).Str("routing_key", key).Uint64("match_id", m.ID).Msg("publish match event failed")
	}
}
