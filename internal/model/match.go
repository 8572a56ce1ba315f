package model

import (
	"encoding/json"
	"time"
)

// Payment and lifecycle values stored on a match.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	// PaymentCancelled is a legacy value some rows still carry.  is_cancelled
	// is authoritative, but rows with this value never occupy a slot either.
	PaymentCancelled = "cancelled"

	PaymentMethodCash = "cash"
	PaymentMethodQR   = "qr"

	MatchStatusUpcoming = "upcoming"
	MatchStatusPlayed   = "played"

	MatchTypeCasual    = "casual"
	MatchTypeChallenge = "challenge"

	InvitationInvited = "invited"
	InvitationJoined  = "joined"
)

// Match is a reservation of one or more contiguous slots on a court for a
// calendar day.  The price is snapshotted when the match is created and is
// never re-derived.  Cancelled matches are kept with IsCancelled set.
//
// Fields:
//
//	HostPlayerID             – profile that created the booking.
//	BookerName/BookerContact – walk-in booker when an admin books on behalf
//	                           of someone else.
//	Date                     – calendar day, "YYYY-MM-DD".
//	TimeSlots                – "HH:MM-HH:MM" strings, contiguous when more
//	                           than one.
//	CancellationAllowedUntil – latest instant the host may still cancel.
type Match struct {
	ID                       uint64          `json:"id"`                                   // matches.id
	VenueID                  uint64          `json:"venue_id"`                             // matches.venue_id
	CourtID                  uint64          `json:"court_id"`                             // matches.court_id
	HostPlayerID             uint64          `json:"host_player_id"`                       // matches.host_player_id
	BookerName               *string         `json:"booker_name,omitempty"`                // matches.booker_name (nullable)
	BookerContact            *string         `json:"booker_contact,omitempty"`             // matches.booker_contact (nullable)
	Date                     string          `json:"date"`                                 // matches.date
	TimeSlots                []string        `json:"time_slots"`                           // matches.time_slots (JSON)
	SportType                string          `json:"sport_type"`                           // matches.sport_type
	MatchType                string          `json:"match_type"`                           // matches.match_type
	MatchStatus              string          `json:"match_status"`                         // matches.match_status
	PlayersList              []MatchPlayer   `json:"players_list"`                         // matches.players_list (JSON)
	Price                    int64           `json:"price"`                                // matches.price
	PaymentStatus            string          `json:"payment_status"`                       // matches.payment_status
	PaymentMethod            *string         `json:"payment_method,omitempty"`             // matches.payment_method (nullable)
	IsRecurring              bool            `json:"is_recurring"`                         // matches.is_recurring
	RecurringConfig          json.RawMessage `json:"recurring_config,omitempty"`           // matches.recurring_config (JSON, opaque)
	CancellationAllowedUntil *time.Time      `json:"cancellation_allowed_until,omitempty"` // matches.cancellation_allowed_until
	IsCancelled              bool            `json:"is_cancelled"`                         // matches.is_cancelled
	CreatedAt                time.Time       `json:"created_at"`                           // matches.created_at
	UpdatedAt                time.Time       `json:"updated_at"`                           // matches.updated_at
}

// Cancelled reports whether the match is cancelled, by flag or by the
// legacy payment_status value.
func (m *Match) Cancelled() bool {
	return m.IsCancelled || m.PaymentStatus == PaymentCancelled
}

// Occupies reports whether the match holds the given slot.  Cancelled
// matches hold nothing.
func (m *Match) Occupies(slot string) bool {
	if m.Cancelled() {
		return false
	}
	for _, s := range m.TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// HasPlayer reports whether the profile is already on the players list.
func (m *Match) HasPlayer(profileID uint64) bool {
	for _, p := range m.PlayersList {
		if p.PlayerID == profileID {
			return true
		}
	}
	return false
}

// MatchPlayer is an entry of a match's players list.
type MatchPlayer struct {
	PlayerID         uint64     `json:"player_id"`
	IsHost           bool       `json:"is_host"`
	InvitationStatus string     `json:"invitation_status"` // invited | joined
	JoinedAt         *time.Time `json:"joined_at,omitempty"`
}

// MatchDraft carries everything needed to insert a match.  It is built by
// the booking service after validation and pricing.
type MatchDraft struct {
	VenueID                  uint64
	CourtID                  uint64
	HostPlayerID             uint64
	BookerName               *string
	BookerContact            *string
	Date                     string
	TimeSlots                []string
	SportType                string
	MatchType                string
	Price                    int64
	PlayersList              []MatchPlayer
	CancellationAllowedUntil *time.Time
}
