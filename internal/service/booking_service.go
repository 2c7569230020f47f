package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/unispace/unispace/internal/catalog"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/repository"
	"github.com/unispace/unispace/internal/utils"
)

// Errors returned by the booking service
var (
	// ErrNotFound is returned when a referenced room or slot does not exist
	ErrNotFound = errors.New("room or slot not found")
	// ErrSlotConflict is returned when booking a slot that is already booked
	ErrSlotConflict = errors.New("slot is already booked")
	// ErrPartySize is returned when the party size is outside the
	// purpose-specific limit
	ErrPartySize = errors.New("party size out of range")
)

// BookingUpdateCallback is a function type for booking update callbacks
type BookingUpdateCallback func(*models.Booking)

// BookingService provides the booking store: it keeps room slot state and
// the booking list mutually consistent and notifies listeners on changes.
type BookingService struct {
	repo            repository.Repository
	updateCallbacks []BookingUpdateCallback
}

// NewBookingService creates a new BookingService with the given repository
func NewBookingService(repo repository.Repository) *BookingService {
	return &BookingService{
		repo:            repo,
		updateCallbacks: make([]BookingUpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback function to be called when
// booking data changes
func (s *BookingService) RegisterUpdateCallback(callback BookingUpdateCallback) {
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the changed booking
func (s *BookingService) notifyUpdate(booking *models.Booking) {
	for _, callback := range s.updateCallbacks {
		callback(booking)
	}
}

// SeedRooms loads the room catalog into the repository
func (s *BookingService) SeedRooms(ctx context.Context, rooms []*models.Room) error {
	for _, room := range rooms {
		if err := s.repo.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to seed room %s: %w", room.ID, err)
		}
	}
	return nil
}

// BookSlot books the given slot for the given purpose and party size. On
// success the slot is marked booked and the returned booking is prepended to
// the booking list in one atomic step. It fails without side effects when
// the room or slot does not exist, the slot is already booked, or the party
// size is outside the purpose limit.
func (s *BookingService) BookSlot(ctx context.Context, roomID, slotID string, purpose models.Purpose, partySize int) (*models.Booking, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	slot := room.FindSlot(slotID)
	if slot == nil {
		return nil, ErrNotFound
	}
	if slot.Booked {
		return nil, ErrSlotConflict
	}

	if limit := purpose.PartyLimit(room.Capacity); partySize < 1 || partySize > limit {
		return nil, ErrPartySize
	}

	booking := &models.Booking{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		RoomName:  room.Name,
		SlotID:    slot.ID,
		Time:      slot.Time,
		User:      models.DefaultUser,
		CreatedAt: time.Now(),
		Purpose:   purpose,
		GroupSize: fmt.Sprintf("%d명", partySize),
	}

	err = s.repo.BookSlot(ctx, booking)
	switch {
	case errors.Is(err, repository.ErrSlotBooked):
		// The slot was taken between our check and the write
		return nil, ErrSlotConflict
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to book slot: %w", err)
	}

	s.notifyUpdate(booking)
	return booking, nil
}

// CancelBooking removes the booking and frees its slot. Cancelling an
// unknown booking is a silent no-op.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) error {
	booking, err := s.repo.CancelBooking(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Printf("Ignoring cancellation of unknown booking %s", utils.SanitizeLogString(bookingID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.notifyUpdate(booking)
	return nil
}

// FilterRoomsByPurpose returns the rooms eligible for the given purpose,
// resolved through the declarative purpose table. An unrecognized purpose
// yields an empty list.
func (s *BookingService) FilterRoomsByPurpose(ctx context.Context, purpose models.Purpose) ([]*models.Room, error) {
	ids := catalog.RoomIDsForPurpose(purpose)

	rooms := make([]*models.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.repo.GetRoom(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load room %s: %w", id, err)
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// GetRoom returns a snapshot of a single room
func (s *BookingService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return room, err
}

// ListRooms returns snapshots of all rooms
func (s *BookingService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.repo.ListRooms(ctx)
}

// ListBookings returns all bookings, newest first
func (s *BookingService) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx)
}

// RoomStatusData represents room data for the web UI
type RoomStatusData struct {
	Room      *models.Room
	FreeSlots int
}

// GetRoomStatusData returns room data formatted for the web UI, optionally
// filtered by purpose
func (s *BookingService) GetRoomStatusData(ctx context.Context, purpose models.Purpose) ([]RoomStatusData, error) {
	var rooms []*models.Room
	var err error

	if purpose != "" {
		rooms, err = s.FilterRoomsByPurpose(ctx, purpose)
	} else {
		rooms, err = s.ListRooms(ctx)
	}
	if err != nil {
		return nil, err
	}

	var result []RoomStatusData
	for _, room := range rooms {
		result = append(result, RoomStatusData{
			Room:      room,
			FreeSlots: len(room.Slots) - room.BookedSlotCount(),
		})
	}

	return result, nil
}
