package timeslot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maidaan/maidaan/internal/model"
)

// Generate returns the one-hour slots from the opening hour (inclusive) to
// the closing hour (exclusive).  Only the hour part of the operating times
// is read, so "06:30" opens at 06:00.  The result is empty when opening is
// not before closing or either time is unreadable.
func Generate(opening, closing string) []string {
	from, err := leadingHour(opening)
	if err != nil {
		return []string{}
	}
	to, err := leadingHour(closing)
	if err != nil {
		return []string{}
	}
	if from >= to {
		return []string{}
	}
	slots := make([]string, 0, to-from)
	for h := from; h < to; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00-%02d:00", h, h+1))
	}
	return slots
}

// ForVenue generates the slot grid of a venue.
func ForVenue(v *model.Venue) []string {
	if v == nil {
		return []string{}
	}
	return Generate(v.OperatingHours.OpeningTime, v.OperatingHours.ClosingTime)
}

func leadingHour(t string) (int, error) {
	hh, _, _ := strings.Cut(strings.TrimSpace(t), ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, t)
	}
	return h, nil
}

// Categorized holds slots split into the three display buckets.
type Categorized struct {
	Morning   []string `json:"Morning"`
	Afternoon []string `json:"Afternoon"`
	Evening   []string `json:"Evening"`
}

// Categorize splits slots by start hour into Morning [6,12), Afternoon
// [12,17) and Evening [17,24), keeping input order inside each bucket.
// Slots starting before 06:00 belong to no bucket.
func Categorize(slots []string) Categorized {
	out := Categorized{Morning: []string{}, Afternoon: []string{}, Evening: []string{}}
	for _, s := range slots {
		h, err := StartHour(s)
		if err != nil {
			continue
		}
		switch {
		case h >= 6 && h < 12:
			out.Morning = append(out.Morning, s)
		case h >= 12 && h < 17:
			out.Afternoon = append(out.Afternoon, s)
		case h >= 17 && h < 24:
			out.Evening = append(out.Evening, s)
		}
	}
	return out
}

// Bucket is one named section of a categorized board.
type Bucket struct {
	Name  string
	Slots []string
}

// Buckets lists the sections in display order.
func (c Categorized) Buckets() []Bucket {
	return []Bucket{
		{Name: "Morning", Slots: c.Morning},
		{Name: "Afternoon", Slots: c.Afternoon},
		{Name: "Evening", Slots: c.Evening},
	}
}
