package timeslot

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerate_DefaultHours(t *testing.T) {
	slots := Generate("06:00", "23:00")
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	if slots[0] != "06:00-07:00" {
		t.Fatalf("expected first slot 06:00-07:00, got %s", slots[0])
	}
	if slots[16] != "22:00-23:00" {
		t.Fatalf("expected last slot 22:00-23:00, got %s", slots[16])
	}
}

func TestGenerate_Edges(t *testing.T) {
	// minutes are truncated to the hour
	got := Generate("06:30", "08:00")
	want := []string{"06:00-07:00", "07:00-08:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := Generate("10:00", "10:00"); len(got) != 0 {
		t.Fatalf("expected no slots for empty window, got %v", got)
	}
	if got := Generate("18:00", "09:00"); len(got) != 0 {
		t.Fatalf("expected no slots when closing precedes opening, got %v", got)
	}
	if got := Generate("x", "09:00"); len(got) != 0 {
		t.Fatalf("expected no slots for bad opening time, got %v", got)
	}
	if got := Generate("22:00", "24:00"); !reflect.DeepEqual(got, []string{"22:00-23:00", "23:00-24:00"}) {
		t.Fatalf("unexpected late slots %v", got)
	}
}

func TestCategorize_PartitionsGrid(t *testing.T) {
	all := Generate("06:00", "23:00")
	c := Categorize(all)
	if len(c.Morning) != 6 || len(c.Afternoon) != 5 || len(c.Evening) != 6 {
		t.Fatalf("unexpected bucket sizes %d/%d/%d", len(c.Morning), len(c.Afternoon), len(c.Evening))
	}
	var joined []string
	for _, b := range c.Buckets() {
		joined = append(joined, b.Slots...)
	}
	if !reflect.DeepEqual(joined, all) {
		t.Fatalf("buckets do not reproduce the grid: %v", joined)
	}
	if c.Afternoon[0] != "12:00-13:00" || c.Evening[0] != "17:00-18:00" {
		t.Fatalf("unexpected bucket boundaries %v %v", c.Afternoon, c.Evening)
	}
}

func TestCategorize_DropsEarlyHours(t *testing.T) {
	c := Categorize(Generate("04:00", "07:00"))
	if !reflect.DeepEqual(c.Morning, []string{"06:00-07:00"}) {
		t.Fatalf("unexpected morning %v", c.Morning)
	}
	if len(c.Afternoon) != 0 || len(c.Evening) != 0 {
		t.Fatalf("expected empty afternoon/evening, got %v %v", c.Afternoon, c.Evening)
	}
}

func TestIsContiguous(t *testing.T) {
	all := Generate("06:00", "23:00")
	cases := []struct {
		name string
		sel  []string
		want bool
	}{
		{"empty", nil, true},
		{"single", []string{"09:00-10:00"}, true},
		{"adjacent", []string{"09:00-10:00", "10:00-11:00"}, true},
		{"reordered", []string{"11:00-12:00", "09:00-10:00", "10:00-11:00"}, true},
		{"gap", []string{"09:00-10:00", "11:00-12:00"}, false},
		{"across buckets", []string{"16:00-17:00", "17:00-18:00"}, true},
		{"duplicate", []string{"09:00-10:00", "09:00-10:00"}, false},
		{"off grid", []string{"04:00-05:00"}, false},
	}
	for _, c := range cases {
		if got := IsContiguous(c.sel, all); got != c.want {
			t.Errorf("%s: IsContiguous(%v) = %v, want %v", c.name, c.sel, got, c.want)
		}
	}
}

func TestToggleSelection(t *testing.T) {
	all := Generate("06:00", "23:00")

	sel, err := ToggleSelection(nil, "10:00-11:00", all)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	sel, err = ToggleSelection(sel, "09:00-10:00", all)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(sel, []string{"09:00-10:00", "10:00-11:00"}) {
		t.Fatalf("selection not ordered by grid: %v", sel)
	}

	got, err := ToggleSelection(sel, "12:00-13:00", all)
	if !errors.Is(err, ErrNotContiguous) {
		t.Fatalf("expected ErrNotContiguous, got %v", err)
	}
	if !reflect.DeepEqual(got, sel) {
		t.Fatalf("rejected toggle must keep selection, got %v", got)
	}

	sel, err = ToggleSelection(sel, "11:00-12:00", all)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// removing the middle slot would leave a gap
	if _, err := ToggleSelection(sel, "10:00-11:00", all); !errors.Is(err, ErrNotContiguous) {
		t.Fatalf("expected ErrNotContiguous on gap removal, got %v", err)
	}
	sel, err = ToggleSelection(sel, "09:00-10:00", all)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(sel, []string{"10:00-11:00", "11:00-12:00"}) {
		t.Fatalf("unexpected selection after removal: %v", sel)
	}

	if _, err := ToggleSelection(sel, "03:00-04:00", all); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("expected ErrInvalidSlot, got %v", err)
	}
}
