// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/unispace/unispace/internal/config"
	"github.com/unispace/unispace/internal/models"
	"github.com/unispace/unispace/internal/repository"
)

// Repository implements the repository interface with Redis storage.
// Bookings never expire: a slot is released only by an explicit
// cancellation, so booking keys are written without a TTL.
type Repository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		// Use password from config if not in URI or if empty in URI
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		address := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

		client = redis.NewClient(&redis.Options{
			Addr:     address,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// roomKey returns the Redis key for a room
func (r *Repository) roomKey(id string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, id)
}

// roomOrderKey returns the Redis key for the room listing order
func (r *Repository) roomOrderKey() string {
	return r.keyPrefix + "rooms:order"
}

// bookingKey returns the Redis key for a booking
func (r *Repository) bookingKey(id string) string {
	return fmt.Sprintf("%sbookings:%s", r.keyPrefix, id)
}

// bookingOrderKey returns the Redis key for the booking listing order
func (r *Repository) bookingOrderKey() string {
	return r.keyPrefix + "bookings:order"
}

// SaveRoom stores a room as JSON and records its listing order
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	exists, err := r.client.Exists(ctx, r.roomKey(room.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.roomKey(room.ID), data, 0)
	if exists == 0 {
		pipe.RPush(ctx, r.roomOrderKey(), room.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// getRoom fetches and unmarshals a room using the given command interface,
// so it works both directly and inside a WATCH transaction
func getRoom(ctx context.Context, c redis.Cmdable, key string) (*models.Room, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

// GetRoom retrieves a room by ID
func (r *Repository) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return getRoom(ctx, r.client, r.roomKey(id))
}

// ListRooms returns all rooms in seeding order
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	ids, err := r.client.LRange(ctx, r.roomOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room order: %w", err)
	}

	rooms := make([]*models.Room, 0, len(ids))
	for _, id := range ids {
		room, err := getRoom(ctx, r.client, r.roomKey(id))
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// BookSlot flips the slot flag and stores the booking in one transaction.
// The room key is watched so a concurrent booking of the same slot aborts
// instead of double-booking.
func (r *Repository) BookSlot(ctx context.Context, booking *models.Booking) error {
	roomKey := r.roomKey(booking.RoomID)

	txn := func(tx *redis.Tx) error {
		room, err := getRoom(ctx, tx, roomKey)
		if err != nil {
			return err
		}

		slot := room.FindSlot(booking.SlotID)
		if slot == nil {
			return repository.ErrNotFound
		}
		if slot.Booked {
			return repository.ErrSlotBooked
		}
		slot.Booked = true

		roomData, err := json.Marshal(room)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}
		bookingData, err := json.Marshal(booking)
		if err != nil {
			return fmt.Errorf("failed to marshal booking: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, roomKey, roomData, 0)
			pipe.Set(ctx, r.bookingKey(booking.ID), bookingData, 0)
			pipe.LPush(ctx, r.bookingOrderKey(), booking.ID)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txn, roomKey)
	if errors.Is(err, redis.TxFailedErr) {
		// The room changed underneath us; report it as a conflict
		return repository.ErrSlotBooked
	}
	return err
}

// CancelBooking removes a booking and frees its slot in one transaction.
// Returns ErrNotFound when no such booking exists.
func (r *Repository) CancelBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	bookingKey := r.bookingKey(bookingID)
	var cancelled *models.Booking

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, bookingKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		var booking models.Booking
		if err := json.Unmarshal(data, &booking); err != nil {
			return fmt.Errorf("failed to unmarshal booking: %w", err)
		}

		roomKey := r.roomKey(booking.RoomID)
		room, err := getRoom(ctx, tx, roomKey)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		var roomData []byte
		if room != nil {
			if slot := room.FindSlot(booking.SlotID); slot != nil {
				slot.Booked = false
			}
			roomData, err = json.Marshal(room)
			if err != nil {
				return fmt.Errorf("failed to marshal room: %w", err)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, bookingKey)
			pipe.LRem(ctx, r.bookingOrderKey(), 0, bookingID)
			if roomData != nil {
				pipe.Set(ctx, roomKey, roomData, 0)
			}
			return nil
		})
		if err != nil {
			return err
		}

		cancelled = &booking
		return nil
	}

	if err := r.client.Watch(ctx, txn, bookingKey); err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	data, err := r.client.Get(ctx, r.bookingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	var booking models.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}

	return &booking, nil
}

// ListBookings returns all bookings, newest first
func (r *Repository) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	ids, err := r.client.LRange(ctx, r.bookingOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list booking order: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(ids))
	for _, id := range ids {
		booking, err := r.GetBooking(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent cancellation may have removed the booking
			// between the LRANGE and the GET
			continue
		}
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
