// Package repository defines interfaces for data storage
package repository

import (
	"context"
	"errors"

	"github.com/unispace/unispace/internal/models"
)

// Common errors returned by repository implementations
var (
	// ErrNotFound is returned when a requested entity is not found
	ErrNotFound = errors.New("entity not found")
	// ErrSlotBooked is returned when booking a slot that is already booked
	ErrSlotBooked = errors.New("slot already booked")
)

// Repository defines the interface for storing rooms, slot state and
// bookings. BookSlot and CancelBooking are compound operations: each
// implementation must flip the slot flag and update the booking list as a
// single atomic step so that a slot is booked exactly when one live booking
// references it.
type Repository interface {
	// Room operations
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)

	// Booking operations
	BookSlot(ctx context.Context, booking *models.Booking) error
	CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context) ([]*models.Booking, error)
}
