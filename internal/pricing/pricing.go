// Package pricing resolves the price of a set of slots from a venue's
// (time period, day type) price table.
package pricing

import (
	"time"

	"github.com/maidaan/maidaan/internal/model"
	"github.com/maidaan/maidaan/internal/timeslot"
)

// RuleFor returns the venue's rule for the pair, if one is configured.
func RuleFor(v *model.Venue, period model.TimePeriod, day model.DayType) (model.PricingRule, bool) {
	if v == nil {
		return model.PricingRule{}, false
	}
	for _, r := range v.PricingRules {
		if r.TimePeriod == period && r.DayType == day {
			return r, true
		}
	}
	return model.PricingRule{}, false
}

// PriceForSlot is the hourly rate of one slot on the given day.  A missing
// rule prices the slot at zero.
func PriceForSlot(v *model.Venue, slot string, date time.Time) int64 {
	r, ok := RuleFor(v, timeslot.TimePeriod(slot), timeslot.DayTypeOf(date))
	if !ok {
		return 0
	}
	return r.PricePerHour
}

// CalculatePrice sums the hourly rate of every slot.  Slots are always one
// hour long so each contributes exactly one rate.
func CalculatePrice(v *model.Venue, slots []string, date time.Time) int64 {
	var total int64
	for _, s := range slots {
		total += PriceForSlot(v, s, date)
	}
	return total
}

// DefaultRules is the price table a newly provisioned venue starts with.
func DefaultRules() []model.PricingRule {
	return []model.PricingRule{
		{TimePeriod: model.Morning, DayType: model.Weekday, PricePerHour: 800},
		{TimePeriod: model.Afternoon, DayType: model.Weekday, PricePerHour: 1000},
		{TimePeriod: model.Evening, DayType: model.Weekday, PricePerHour: 1500},
		{TimePeriod: model.Morning, DayType: model.Weekend, PricePerHour: 1000},
		{TimePeriod: model.Afternoon, DayType: model.Weekend, PricePerHour: 1200},
		{TimePeriod: model.Evening, DayType: model.Weekend, PricePerHour: 1800},
	}
}
