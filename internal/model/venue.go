package model

import "time"

// Venue represents a bookable sports facility owned by a single admin.
// A venue owns a set of courts and a set of pricing rules.  This struct
// corresponds to a row in the `venues` table with its courts and
// pricing_rules loaded alongside it.
//
// Fields:
//
//	ID                      – primary key identifier.
//	OwnerAdminID            – profile ID of the owning admin.
//	Name                    – display name of the venue.
//	Description             – optional free text.
//	Location                – human readable address.
//	Contact                 – optional contact number shown to players.
//	OperatingHours          – opening/closing time of day ("HH:MM", 24h).
//	CancellationCutoffHours – hours before a match starts after which a
//	                          player can no longer cancel.
//	Amenities               – amenity tags (parking, water, ...).
//	Rating                  – average rating.
//	Courts                  – courts of this venue.
//	PricingRules            – at most one rule per (time period, day type).
type Venue struct {
	ID                      uint64         `json:"id"`                        // venues.id
	OwnerAdminID            uint64         `json:"owner_admin_id"`            // venues.owner_admin_id
	Name                    string         `json:"name"`                      // venues.name
	Description             *string        `json:"description,omitempty"`     // venues.description (nullable)
	Location                string         `json:"location"`                  // venues.location
	Contact                 *string        `json:"contact,omitempty"`         // venues.contact (nullable)
	OperatingHours          OperatingHours `json:"operating_hours"`           // venues.opening_time, venues.closing_time
	CancellationCutoffHours int            `json:"cancellation_cutoff_hours"` // venues.cancellation_cutoff_hours
	Amenities               []string       `json:"amenities"`                 // venues.amenities (JSON)
	Rating                  float64        `json:"rating"`                    // venues.rating
	Courts                  []Court        `json:"courts"`
	PricingRules            []PricingRule  `json:"pricing_rules"`
	CreatedAt               time.Time      `json:"created_at"` // venues.created_at
	UpdatedAt               time.Time      `json:"updated_at"` // venues.updated_at
}

// OperatingHours holds the daily window in which slots are generated.
type OperatingHours struct {
	OpeningTime string `json:"opening_time"` // "06:00"
	ClosingTime string `json:"closing_time"` // "23:00"
}

// Court returns the court with the given ID when it belongs to the venue.
func (v *Venue) Court(id uint64) (*Court, bool) {
	for i := range v.Courts {
		if v.Courts[i].ID == id {
			return &v.Courts[i], true
		}
	}
	return nil, false
}

// Court is the unit against which slots are generated and reserved.  Two
// courts never share bookings, even when they are of the same sport.
type Court struct {
	ID          uint64 `json:"id"`           // courts.id
	VenueID     uint64 `json:"venue_id"`     // courts.venue_id
	SportType   string `json:"sport_type"`   // courts.sport_type (free-form tag)
	CourtNumber int    `json:"court_number"` // courts.court_number
	Name        string `json:"name"`         // courts.name, e.g. "Basketball - Court 1"
	Icon        string `json:"icon"`         // courts.icon
	IsActive    bool   `json:"is_active"`    // courts.is_active
}

// TimePeriod buckets the hours of a day for display and pricing.
type TimePeriod string

const (
	Morning   TimePeriod = "morning"
	Afternoon TimePeriod = "afternoon"
	Evening   TimePeriod = "evening"
)

// DayType distinguishes weekday and weekend pricing.
type DayType string

const (
	Weekday DayType = "weekday"
	Weekend DayType = "weekend"
)

// PricingRule maps a (time period, day type) pair to an hourly price.  A
// missing rule resolves to a price of zero.
type PricingRule struct {
	ID           uint64     `json:"id"`             // pricing_rules.id
	VenueID      uint64     `json:"venue_id"`       // pricing_rules.venue_id
	TimePeriod   TimePeriod `json:"time_period"`    // pricing_rules.time_period
	DayType      DayType    `json:"day_type"`       // pricing_rules.day_type
	PricePerHour int64      `json:"price_per_hour"` // pricing_rules.price_per_hour
}
