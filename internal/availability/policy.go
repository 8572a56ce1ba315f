package availability

import "strings"

// Policy selects the click rules of the slot board.
type Policy int

const (
	// PlayerPolicy only lets unbooked future slots be clicked.
	PlayerPolicy Policy = iota
	// AdminPolicy additionally lets every booked slot, past or future, open
	// its match.
	AdminPolicy
)

func (p Policy) String() string {
	if p == AdminPolicy {
		return "admin"
	}
	return "player"
}

// ParsePolicy maps "admin" to AdminPolicy and everything else to
// PlayerPolicy.
func ParsePolicy(s string) Policy {
	if strings.EqualFold(strings.TrimSpace(s), "admin") {
		return AdminPolicy
	}
	return PlayerPolicy
}

// Action is what a click on a slot leads to.
type Action int

const (
	ActionNone Action = iota
	ActionViewMatch
	ActionNewBooking
)

func (a Action) String() string {
	switch a {
	case ActionViewMatch:
		return "view_match"
	case ActionNewBooking:
		return "new_booking"
	default:
		return "none"
	}
}

// MarshalText lets actions render as strings in JSON.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Decide resolves the click action of a slot from its booked and past
// state.
//
//	           | booked future | booked past | free future | free past
//	admin      | view match    | view match  | new booking | none
//	player     | none          | none        | new booking | none
func (p Policy) Decide(booked, past bool) Action {
	switch {
	case booked && p == AdminPolicy:
		return ActionViewMatch
	case booked:
		return ActionNone
	case past:
		return ActionNone
	default:
		return ActionNewBooking
	}
}
