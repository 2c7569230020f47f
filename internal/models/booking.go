package models

import "time"

// DefaultUser is the placeholder user label attached to every booking.
// There is no real identity model.
const DefaultUser = "현재 사용자"

// Booking is a confirmed reservation binding one user session to exactly
// one room's slot. Room name and slot time are captured at booking time and
// are not re-synced if the room data later changes.
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	RoomName  string    `json:"roomName"`
	SlotID    string    `json:"slotId"`
	Time      string    `json:"time"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	Purpose   Purpose   `json:"purpose"`
	GroupSize string    `json:"groupSize"` // display label, e.g. "3명"
}
