package timeslot

import (
	"testing"
	"time"

	"github.com/maidaan/maidaan/internal/model"
)

func TestFormatTo12Hour(t *testing.T) {
	cases := map[string]string{
		"17:00": "5PM",
		"17:30": "5:30PM",
		"09:05": "9:05AM",
		"00:00": "12AM",
		"12:00": "12PM",
		"nope":  "nope",
	}
	for in, want := range cases {
		if got := FormatTo12Hour(in); got != want {
			t.Errorf("FormatTo12Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimeRange(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"17:00-18:00"}, "5 - 6 PM"},
		{[]string{"18:00-19:00", "19:00-20:00"}, "6 - 8 PM"},
		// labelled by the end hour only
		{[]string{"11:00-12:00", "12:00-13:00"}, "11 - 1 PM"},
		{[]string{"06:00-07:00"}, "6 - 7 AM"},
		{[]string{"23:00-24:00"}, "11 - 12 PM"},
	}
	for _, c := range cases {
		if got := FormatTimeRange(c.in); got != c.want {
			t.Errorf("FormatTimeRange(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseSlot(t *testing.T) {
	start, end, err := ParseSlot("09:00-10:00")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if start != "09:00" || end != "10:00" {
		t.Fatalf("got %q %q", start, end)
	}
	for _, bad := range []string{"", "09:00", "ab-cd", "25:00-26:00"} {
		if _, _, err := ParseSlot(bad); err == nil {
			t.Errorf("ParseSlot(%q) expected error", bad)
		}
	}
}

func TestTimePeriod(t *testing.T) {
	cases := map[string]model.TimePeriod{
		"06:00-07:00": model.Morning,
		"11:00-12:00": model.Morning,
		"12:00-13:00": model.Afternoon,
		"16:00-17:00": model.Afternoon,
		"17:00-18:00": model.Evening,
		"23:00-24:00": model.Evening,
		"05:00-06:00": model.Evening,
	}
	for in, want := range cases {
		if got := TimePeriod(in); got != want {
			t.Errorf("TimePeriod(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2025, 9, 27, 0, 0, 0, 0, time.UTC)
	sun := sat.AddDate(0, 0, 1)
	wed := sat.AddDate(0, 0, -3)
	if !IsWeekend(sat) || !IsWeekend(sun) {
		t.Fatal("saturday and sunday must be weekend")
	}
	if IsWeekend(wed) {
		t.Fatal("wednesday is not weekend")
	}
	if DayTypeOf(wed) != model.Weekday || DayTypeOf(sun) != model.Weekend {
		t.Fatal("unexpected day type")
	}
}

func TestIsPastTime_GraceWindow(t *testing.T) {
	day := time.Date(2025, 9, 24, 0, 0, 0, 0, time.UTC)
	slot := "17:00-18:00"

	cases := []struct {
		now  time.Time
		want bool
	}{
		{day.Add(16*time.Hour + 59*time.Minute), false},
		{day.Add(17 * time.Hour), false},
		{day.Add(17*time.Hour + 10*time.Minute), false},
		{day.Add(17*time.Hour + 15*time.Minute), false},
		{day.Add(17*time.Hour + 15*time.Minute + time.Second), true},
		{day.AddDate(0, 0, 1), true},
	}
	for _, c := range cases {
		if got := IsPastTime(day, slot, c.now); got != c.want {
			t.Errorf("IsPastTime at %s = %v, want %v", c.now.Format(time.RFC3339), got, c.want)
		}
	}
}

func TestIsPastTime_UsesDayLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2025, 9, 24, 0, 0, 0, 0, ist)
	// 12:00 UTC is 17:30 IST
	now := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	if !IsPastTime(day, "17:00-18:00", now) {
		t.Fatal("17:00 IST slot should be past at 17:30 IST")
	}
	if IsPastTime(day, "18:00-19:00", now) {
		t.Fatal("18:00 IST slot should not be past at 17:30 IST")
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 9, 27, 15, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "27 Sep Saturday" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := DateKey(d); got != "2025-09-27" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	d, err := ParseDate("2025-09-27", ist)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, off := d.Zone(); off != 5*3600+1800 || d.Hour() != 0 || d.Day() != 27 {
		t.Fatalf("unexpected date %s", d)
	}
	if _, err := ParseDate("27-09-2025", ist); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}
