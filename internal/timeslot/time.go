// Package timeslot holds the time arithmetic behind the slot board: parsing
// and formatting of "HH:MM-HH:MM" slot strings, weekday/period
// classification, the past-slot rule and slot grid generation.
//
// Every function is pure.  Callers pass "now" explicitly.
package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maidaan/maidaan/internal/model"
)

// GracePeriod is how long after its start a slot stays actionable.  A slot
// starting at 17:00 is still bookable at 17:10 and becomes past at 17:15:01.
const GracePeriod = 15 * time.Minute

// DateLayout is the calendar-day format used on the wire and in storage.
const DateLayout = "2006-01-02"

var (
	ErrInvalidSlot   = errors.New("invalid time slot")
	ErrNotContiguous = errors.New("time slots are not contiguous")
)

// clock splits "HH:MM" into hour and minute.  A missing minute part reads
// as zero.
func clock(s string) (int, int, error) {
	hh, mm, hasMin := strings.Cut(strings.TrimSpace(s), ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	if !hasMin {
		return h, 0, nil
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return h, m, nil
}

func hour12(h int) int {
	if h%12 == 0 {
		return 12
	}
	return h % 12
}

func period(h int) string {
	if h >= 12 {
		return "PM"
	}
	return "AM"
}

// FormatTo12Hour renders "17:00" as "5PM" and "17:30" as "5:30PM".
// Unparseable input is returned unchanged.
func FormatTo12Hour(t string) string {
	h, m, err := clock(t)
	if err != nil {
		return t
	}
	if m == 0 {
		return fmt.Sprintf("%d%s", hour12(h), period(h))
	}
	return fmt.Sprintf("%d:%02d%s", hour12(h), m, period(h))
}

// FormatTimeRange labels a run of contiguous slots as "5 - 7 PM".  The
// AM/PM marker is taken from the end hour only, so "11:00-13:00" reads
// "11 - 1 PM".  The input is not checked for contiguity.
func FormatTimeRange(slots []string) string {
	if len(slots) == 0 {
		return ""
	}
	start, _, err := ParseSlot(slots[0])
	if err != nil {
		return ""
	}
	_, end, err := ParseSlot(slots[len(slots)-1])
	if err != nil {
		return ""
	}
	sh, _, _ := clock(start)
	eh, _, _ := clock(end)
	return fmt.Sprintf("%d - %d %s", hour12(sh), hour12(eh), period(eh))
}

// ParseSlot splits "HH:MM-HH:MM" into its start and end clock strings.
func ParseSlot(slot string) (start, end string, err error) {
	start, end, ok := strings.Cut(slot, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if _, _, err := clock(start); err != nil {
		return "", "", err
	}
	if _, _, err := clock(end); err != nil {
		return "", "", err
	}
	return start, end, nil
}

// StartHour returns the hour a slot starts at.
func StartHour(slot string) (int, error) {
	start, _, err := ParseSlot(slot)
	if err != nil {
		return 0, err
	}
	h, _, err := clock(start)
	return h, err
}

// IsWeekend reports whether the calendar day is a Saturday or Sunday in
// the location carried by date.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayTypeOf classifies a calendar day for pricing.
func DayTypeOf(date time.Time) model.DayType {
	if IsWeekend(date) {
		return model.Weekend
	}
	return model.Weekday
}

// TimePeriod buckets a slot by its start hour: morning [6,12), afternoon
// [12,17) and evening for everything else.
func TimePeriod(slot string) model.TimePeriod {
	h, err := StartHour(slot)
	if err != nil {
		return model.Evening
	}
	switch {
	case h >= 6 && h < 12:
		return model.Morning
	case h >= 12 && h < 17:
		return model.Afternoon
	default:
		return model.Evening
	}
}

// SlotStart is the instant a slot begins on the given calendar day, in the
// day's location.
func SlotStart(date time.Time, slot string) (time.Time, error) {
	start, _, err := ParseSlot(slot)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := clock(start)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location()), nil
}

// IsPastTime reports whether slot start + GracePeriod is strictly before
// now.  Malformed slots are never past.
func IsPastTime(date time.Time, slot string, now time.Time) bool {
	start, err := SlotStart(date, slot)
	if err != nil {
		return false
	}
	return start.Add(GracePeriod).Before(now)
}

// FormatDate renders a day as "27 Sep Saturday".
func FormatDate(t time.Time) string {
	return t.Format("2 Jan Monday")
}

// DateKey renders a day as "2006-01-02".
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a "2006-01-02" calendar day as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}
