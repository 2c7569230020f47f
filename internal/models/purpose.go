package models

// Purpose is the intended use of a booking. It both filters the eligible
// rooms and determines the party-size ceiling.
type Purpose string

const (
	PurposeRest      Purpose = "휴식"
	PurposeSelfStudy Purpose = "자습"
	PurposeMeeting   Purpose = "회의"
)

// Purposes lists all recognized purposes in display order
var Purposes = []Purpose{PurposeSelfStudy, PurposeMeeting, PurposeRest}

// IsValid reports whether p is one of the recognized purposes
func (p Purpose) IsValid() bool {
	switch p {
	case PurposeRest, PurposeSelfStudy, PurposeMeeting:
		return true
	}
	return false
}

// PartyLimit returns the maximum party size for a booking with the given
// purpose in a room of the given capacity. Meeting bookings are limited only
// by physical capacity; an unrecognized purpose falls back to capacity as
// well.
func (p Purpose) PartyLimit(roomCapacity int) int {
	switch p {
	case PurposeRest:
		return 4
	case PurposeSelfStudy:
		return 6
	case PurposeMeeting:
		return roomCapacity
	default:
		return roomCapacity
	}
}
