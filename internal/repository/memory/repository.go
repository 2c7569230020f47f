// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"sync"

	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/repository"
)

// Repository implements the repository interface with in-memory storage.
// All state is lost when the process exits.
type Repository struct {
	rooms     map[string]*models.Room
	roomOrder []string
	bookings  map[string]*models.Booking
	// booking IDs, newest first
	bookingOrder []string
	mu           sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms:    make(map[string]*models.Room),
		bookings: make(map[string]*models.Booking),
	}
}

// SaveRoom stores a room. New rooms keep their insertion order for listing.
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[room.ID]; !exists {
		r.roomOrder = append(r.roomOrder, room.ID)
	}
	r.rooms[room.ID] = room.Clone()

	return nil
}

// GetRoom retrieves a room snapshot by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	return room.Clone(), nil
}

// ListRooms returns snapshots of all rooms in insertion order
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.roomOrder))
	for _, id := range r.roomOrder {
		rooms = append(rooms, r.rooms[id].Clone())
	}

	return rooms, nil
}

// BookSlot marks the booking's slot as booked and stores the booking as one
// atomic step. It fails without side effects if the room or slot does not
// exist or the slot is already booked.
func (r *Repository) BookSlot(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[booking.RoomID]
	if !ok {
		return repository.ErrNotFound
	}

	slot := room.FindSlot(booking.SlotID)
	if slot == nil {
		return repository.ErrNotFound
	}
	if slot.Booked {
		return repository.ErrSlotBooked
	}

	slot.Booked = true

	b := *booking
	r.bookings[b.ID] = &b
	// Newest bookings come first
	r.bookingOrder = append([]string{b.ID}, r.bookingOrder...)

	return nil
}

// CancelBooking removes a booking and frees its slot as one atomic step.
// It returns the removed booking, or ErrNotFound if no such booking exists.
func (r *Repository) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	booking, ok := r.bookings[bookingID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	delete(r.bookings, bookingID)
	for i, id := range r.bookingOrder {
		if id == bookingID {
			r.bookingOrder = append(r.bookingOrder[:i], r.bookingOrder[i+1:]...)
			break
		}
	}

	// Free the slot the booking was holding. The room may have been
	// reseeded since; missing references leave the booking removal intact.
	if room, ok := r.rooms[booking.RoomID]; ok {
		if slot := room.FindSlot(booking.SlotID); slot != nil {
			slot.Booked = false
		}
	}

	cp := *booking
	return &cp, nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	cp := *booking
	return &cp, nil
}

// ListBookings returns all bookings, newest first
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*models.Booking, 0, len(r.bookingOrder))
	for _, id := range r.bookingOrder {
		cp := *r.bookings[id]
		bookings = append(bookings, &cp)
	}

	return bookings, nil
}
