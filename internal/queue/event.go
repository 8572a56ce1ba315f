// Package queue defines the match events exchanged over the message broker
// and the consumer that records them in the booking log.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/maidaan/maidaan/internal/model"
)

// Routing keys published on the match exchange.
const (
	RKMatchBooked    = "match.booked"
	RKMatchPaid      = "match.paid"
	RKMatchCancelled = "match.cancelled"
	RKMatchJoined    = "match.joined"
)

// RoutingKeys lists every key the booking log binds to.
var RoutingKeys = []string{RKMatchBooked, RKMatchPaid, RKMatchCancelled, RKMatchJoined}

// MatchEvent is the payload of every match transition.  It carries enough
// for downstream consumers to log or notify without querying the database.
type MatchEvent struct {
	MatchID       uint64   `json:"match_id"`
	VenueID       uint64   `json:"venue_id"`
	VenueName     string   `json:"venue_name,omitempty"`
	CourtID       uint64   `json:"court_id"`
	CourtName     string   `json:"court_name,omitempty"`
	ActorID       uint64   `json:"actor_id"`
	Date          string   `json:"date"`
	TimeSlots     []string `json:"time_slots"`
	Price         int64    `json:"price"`
	PaymentStatus string   `json:"payment_status"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}

// NewMatchEvent snapshots m for publishing.  actor is the profile that
// caused the transition.
func NewMatchEvent(m *model.Match, venueName, courtName string, actor uint64, at time.Time) MatchEvent {
	ev := MatchEvent{
		MatchID:       m.ID,
		VenueID:       m.VenueID,
		VenueName:     venueName,
		CourtID:       m.CourtID,
		CourtName:     courtName,
		ActorID:       actor,
		Date:          m.Date,
		TimeSlots:     append([]string(nil), m.TimeSlots...),
		Price:         m.Price,
		PaymentStatus: m.PaymentStatus,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
	if m.PaymentMethod != nil {
		ev.PaymentMethod = *m.PaymentMethod
	}
	return ev
}

// Decode unmarshals a delivery body into T.
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
