package availability

import "github.com/maidaan/maidaan/internal/timeslot"

// SlotState is the rendered state of one slot.
type SlotState struct {
	Slot      string  `json:"slot"`
	Label     string  `json:"label"`
	Booked    bool    `json:"booked"`
	Disabled  bool    `json:"disabled"`
	Clickable bool    `json:"clickable"`
	Action    Action  `json:"action"`
	MatchID   *uint64 `json:"match_id"`
	Price     int64   `json:"price"`
}

// BucketStates groups slot states the way the board is displayed.
type BucketStates struct {
	Morning   []SlotState `json:"Morning"`
	Afternoon []SlotState `json:"Afternoon"`
	Evening   []SlotState `json:"Evening"`
}

// View is the whole board as sent to clients.
type View struct {
	VenueID      uint64       `json:"venue_id"`
	CourtID      uint64       `json:"court_id"`
	Date         string       `json:"date"`
	DateLabel    string       `json:"date_label"`
	Policy       string       `json:"policy"`
	AllTimeSlots []string     `json:"all_time_slots"`
	TimeSlots    BucketStates `json:"time_slots"`
}

// State evaluates a single slot.
func (b *Board) State(slot string) SlotState {
	st := SlotState{
		Slot:     slot,
		Label:    timeslot.FormatTimeRange([]string{slot}),
		Booked:   b.IsSlotBooked(slot),
		Disabled: b.IsSlotDisabled(slot),
		Price:    b.Price(slot),
	}
	st.Action = b.policy.Decide(st.Booked, st.Disabled)
	st.Clickable = st.Action != ActionNone
	if m, ok := b.MatchForSlot(slot); ok {
		id := m.ID
		st.MatchID = &id
	}
	return st
}

// States evaluates every slot of the grid in order.
func (b *Board) States() []SlotState {
	out := make([]SlotState, 0, len(b.all))
	for _, s := range b.all {
		out = append(out, b.State(s))
	}
	return out
}

// View renders the board.
func (b *Board) View() View {
	cat := b.TimeSlots()
	states := func(slots []string) []SlotState {
		out := make([]SlotState, 0, len(slots))
		for _, s := range slots {
			out = append(out, b.State(s))
		}
		return out
	}
	v := View{
		CourtID:      b.courtID,
		Date:         timeslot.DateKey(b.date),
		DateLabel:    timeslot.FormatDate(b.date),
		Policy:       b.policy.String(),
		AllTimeSlots: b.AllTimeSlots(),
		TimeSlots: BucketStates{
			Morning:   states(cat.Morning),
			Afternoon: states(cat.Afternoon),
			Evening:   states(cat.Evening),
		},
	}
	if b.venue != nil {
		v.VenueID = b.venue.ID
	}
	return v
}
