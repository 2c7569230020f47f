package models

// RoomType categorizes a room by its primary use
type RoomType string

const (
	RoomTypeClassroom    RoomType = "일반 교실"
	RoomTypeStudyRoom    RoomType = "자습실"
	RoomTypeMeetingRoom  RoomType = "회의실"
	RoomTypeClubRoom     RoomType = "동아리실"
	RoomTypeMultipurpose RoomType = "다목적실"
)

// TimeSlot is a fixed, named time interval within a room that can be
// independently booked or free. Slot IDs are unique within their room.
type TimeSlot struct {
	ID     string `json:"id"`
	Time   string `json:"time"` // e.g. "18:30 - 19:50"
	Booked bool   `json:"isBooked"`
}

// Room represents a bookable room. Rooms are seeded at startup and never
// created or destroyed at runtime; only the booked flags of their slots
// change.
type Room struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        RoomType   `json:"type"`
	Capacity    int        `json:"capacity"`
	Floor       int        `json:"floor"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Description string     `json:"description"`
	Equipment   []string   `json:"equipment"`
	Slots       []TimeSlot `json:"slots"`
}

// FindSlot returns the slot with the given ID, or nil if the room has no
// such slot.
func (r *Room) FindSlot(slotID string) *TimeSlot {
	for i := range r.Slots {
		if r.Slots[i].ID == slotID {
			return &r.Slots[i]
		}
	}
	return nil
}

// BookedSlotCount returns the number of booked slots in the room
func (r *Room) BookedSlotCount() int {
	count := 0
	for _, s := range r.Slots {
		if s.Booked {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the room so callers can hand out snapshots
// without exposing internal state to mutation.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Equipment = append([]string(nil), r.Equipment...)
	cp.Slots = append([]TimeSlot(nil), r.Slots...)
	return &cp
}

// RoomSummary is the compact room description sent to the AI recommender
type RoomSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        RoomType `json:"type"`
	Capacity    int      `json:"capacity"`
	Equipment   []string `json:"equipment"`
	Description string   `json:"description"`
}

// Summary returns the compact form of the room for recommendation prompts
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Capacity:    r.Capacity,
		Equipment:   r.Equipment,
		Description: r.Description,
	}
}
