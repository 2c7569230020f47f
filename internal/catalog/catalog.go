// Package catalog holds the static room catalog and the purpose-to-room
// eligibility table. The catalog is seeded into the repository once at
// startup.
package catalog

import "github.com/unispace/unispace/internal/models"

// defaultSlots returns the two bookable evening slots every room starts with
func defaultSlots() []models.TimeSlot {
	return []models.TimeSlot{
		{ID: "s1", Time: "18:30 - 19:50"},
		{ID: "s2", Time: "20:05 - 21:25"},
	}
}

// DefaultRooms returns the seed room catalog. Each call returns fresh copies
// so a repository can take ownership of the slot state.
func DefaultRooms() []*models.Room {
	return []*models.Room{
		{
			ID:          "siulim",
			Name:        "시울림교실",
			Type:        models.RoomTypeMultipurpose,
			Capacity:    4,
			Floor:       2,
			ImageURL:    "https://picsum.photos/600/400?random=10",
			Description: "소규모 대화 및 휴식에 적합한 아늑한 공간입니다.",
			Equipment:   []string{"소파", "테이블", "블루투스 스피커"},
			Slots:       defaultSlots(),
		},
		{
			ID:          "deoksong",
			Name:        "덕송실",
			Type:        models.RoomTypeStudyRoom,
			Capacity:    20,
			Floor:       3,
			ImageURL:    "https://picsum.photos/600/400?random=11",
			Description: "조용한 분위기에서 집중적인 자습을 할 수 있는 공간입니다.",
			Equipment:   []string{"개인 책상", "LED 조명", "공기청정기"},
			Slots:       defaultSlots(),
		},
		{
			ID:          "separation",
			Name:        "즉시분리실",
			Type:        models.RoomTypeClassroom,
			Capacity:    8,
			Floor:       1,
			ImageURL:    "https://picsum.photos/600/400?random=12",
			Description: "자습 또는 회의를 진행할 수 있는 다목적 공간입니다.",
			Equipment:   []string{"화이트보드", "대형 TV", "회의용 테이블"},
			Slots:       defaultSlots(),
		},
		{
			ID:          "club",
			Name:        "동아리실",
			Type:        models.RoomTypeClubRoom,
			Capacity:    15,
			Floor:       4,
			ImageURL:    "https://picsum.photos/600/400?random=13",
			Description: "자유로운 분위기에서 회의 및 동아리 활동을 할 수 있습니다.",
			Equipment:   []string{"빔 프로젝터", "음향 장비", "전신 거울", "화이트보드"},
			Slots:       defaultSlots(),
		},
	}
}

// purposeRooms maps each purpose to the IDs of the rooms eligible for it.
// The table is deliberately declarative so the eligibility rule is decoupled
// from room display names.
var purposeRooms = map[models.Purpose][]string{
	models.PurposeRest:      {"siulim"},
	models.PurposeSelfStudy: {"deoksong", "separation"},
	models.PurposeMeeting:   {"separation", "club"},
}

// RoomIDsForPurpose returns the IDs of rooms eligible for the given purpose.
// An unrecognized purpose yields an empty list.
func RoomIDsForPurpose(purpose models.Purpose) []string {
	ids, ok := purposeRooms[purpose]
	if !ok {
		return nil
	}
	return append([]string(nil), ids...)
}
