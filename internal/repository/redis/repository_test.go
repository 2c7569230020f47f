// Package redis_test provides tests for the Redis repository
package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unispace/unispace/internal/catalog"
	"github.com/unispace/unispace/internal/config"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/repository"
	"github.com/unispace/unispace/internal/repository/redis"
)

func setupTestRedis(t *testing.T) *redis.Repository {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.RedisConfig{
		Enabled:   true,
		Host:      mr.Host(),
		Port:      mr.Port(),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	for _, room := range catalog.DefaultRooms() {
		require.NoError(t, repo.SaveRoom(ctx, room))
	}

	return repo
}

func newBooking(id, roomID, slotID string) *models.Booking {
	return &models.Booking{
		ID:        id,
		RoomID:    roomID,
		RoomName:  "시울림교실",
		SlotID:    slotID,
		Time:      "18:30 - 19:50",
		User:      models.DefaultUser,
		CreatedAt: time.Now(),
		Purpose:   models.PurposeRest,
		GroupSize: "2명",
	}
}

// TestRedisWithURI tests connection with URI format
func TestRedisWithURI(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	uri := fmt.Sprintf("redis://%s:%s", mr.Host(), mr.Port())
	cfg := config.RedisConfig{
		Enabled:   true,
		URI:       uri,
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	room := catalog.DefaultRooms()[0]
	require.NoError(t, repo.SaveRoom(ctx, room))

	retrieved, err := repo.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.Name, retrieved.Name)
}

func TestRoomOperations(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	t.Run("GetRoom", func(t *testing.T) {
		room, err := repo.GetRoom(ctx, "deoksong")
		require.NoError(t, err)
		assert.Equal(t, "덕송실", room.Name)
		assert.Equal(t, 20, room.Capacity)
	})

	t.Run("GetUnknownRoom", func(t *testing.T) {
		_, err := repo.GetRoom(ctx, "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListRoomsKeepsSeedOrder", func(t *testing.T) {
		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		require.Len(t, rooms, 4)
		assert.Equal(t, "siulim", rooms[0].ID)
		assert.Equal(t, "club", rooms[3].ID)
	})

	t.Run("ReseedingDoesNotDuplicate", func(t *testing.T) {
		require.NoError(t, repo.SaveRoom(ctx, catalog.DefaultRooms()[0]))

		rooms, err := repo.ListRooms(ctx)
		require.NoError(t, err)
		assert.Len(t, rooms, 4)
	})
}

func TestBookAndCancel(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	t.Run("BookFreeSlot", func(t *testing.T) {
		require.NoError(t, repo.BookSlot(ctx, newBooking("b1", "siulim", "s1")))

		room, err := repo.GetRoom(ctx, "siulim")
		require.NoError(t, err)
		assert.True(t, room.FindSlot("s1").Booked)

		bookings, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "b1", bookings[0].ID)
	})

	t.Run("BookedSlotConflicts", func(t *testing.T) {
		err := repo.BookSlot(ctx, newBooking("b2", "siulim", "s1"))
		assert.ErrorIs(t, err, repository.ErrSlotBooked)

		bookings, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("UnknownRoomOrSlot", func(t *testing.T) {
		assert.ErrorIs(t, repo.BookSlot(ctx, newBooking("b3", "nowhere", "s1")), repository.ErrNotFound)
		assert.ErrorIs(t, repo.BookSlot(ctx, newBooking("b4", "siulim", "s9")), repository.ErrNotFound)
	})

	t.Run("NewestBookingFirst", func(t *testing.T) {
		require.NoError(t, repo.BookSlot(ctx, newBooking("b5", "club", "s1")))

		bookings, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, "b5", bookings[0].ID)
	})

	t.Run("CancelFreesSlot", func(t *testing.T) {
		cancelled, err := repo.CancelBooking(ctx, "b1")
		require.NoError(t, err)
		assert.Equal(t, "siulim", cancelled.RoomID)

		room, err := repo.GetRoom(ctx, "siulim")
		require.NoError(t, err)
		assert.False(t, room.FindSlot("s1").Booked)

		bookings, err := repo.ListBookings(ctx)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "b5", bookings[0].ID)
	})

	t.Run("CancelUnknownBooking", func(t *testing.T) {
		_, err := repo.CancelBooking(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

// TestBookingsSurviveTimePassing pins down that bookings are stored without
// expiration: a slot stays paired with its live booking no matter how much
// time passes, and only an explicit cancellation frees it.
func TestBookingsSurviveTimePassing(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.RedisConfig{
		Enabled:   true,
		Host:      mr.Host(),
		Port:      mr.Port(),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	for _, room := range catalog.DefaultRooms() {
		require.NoError(t, repo.SaveRoom(ctx, room))
	}

	require.NoError(t, repo.BookSlot(ctx, newBooking("b1", "siulim", "s1")))

	mr.FastForward(48 * time.Hour)

	// The booking is still live and the slot still paired with it
	bookings, err := repo.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b1", bookings[0].ID)

	room, err := repo.GetRoom(ctx, "siulim")
	require.NoError(t, err)
	assert.True(t, room.FindSlot("s1").Booked)

	// Rebooking still conflicts while the booking is live
	assert.ErrorIs(t, repo.BookSlot(ctx, newBooking("b2", "siulim", "s1")), repository.ErrSlotBooked)

	// An explicit cancel is the only way to free the slot
	_, err = repo.CancelBooking(ctx, "b1")
	require.NoError(t, err)

	room, err = repo.GetRoom(ctx, "siulim")
	require.NoError(t, err)
	assert.False(t, room.FindSlot("s1").Booked)
	require.NoError(t, repo.BookSlot(ctx, newBooking("b2", "siulim", "s1")))
}

func TestGetBooking(t *testing.T) {
	repo := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.BookSlot(ctx, newBooking("b1", "deoksong", "s2")))

	booking, err := repo.GetBooking(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "deoksong", booking.RoomID)
	assert.Equal(t, models.PurposeRest, booking.Purpose)

	_, err = repo.GetBooking(ctx, "absent")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
