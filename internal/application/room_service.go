package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// RoomRepository captures the persistence operations needed by the service.
type RoomRepository interface {
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
}

// RoomService exposes the room catalog read paths.
type RoomService struct {
	rooms          RoomRepository
	bookings       BookingRepository
	cache          *availabilityCache
	now            func() time.Time
	storageTimeout time.Duration
	logger         *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, bookings BookingRepository, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, bookings, nil, now, 0, nil)
}

// NewRoomServiceWithLogger constructs a room service with a shared
// availability cache, a storage timeout, and a logger.
func NewRoomServiceWithLogger(rooms RoomRepository, bookings BookingRepository, cache *availabilityCache, now func() time.Time, storageTimeout time.Duration, logger *slog.Logger) *RoomService {
	if now == nil {
		now = time.Now
	}
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &RoomService{
		rooms:          rooms,
		bookings:       bookings,
		cache:          cache,
		now:            now,
		storageTimeout: storageTimeout,
		logger:         defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// ListRooms returns the room catalog ordered by name.
func (s *RoomService) ListRooms(ctx context.Context) (rooms []Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListRooms")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(rooms)).InfoContext(ctx, "rooms listed")
	}()

	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	raw, err := s.rooms.ListRooms(storageCtx)
	cancel()
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	rooms = make([]Room, len(raw))
	copy(rooms, raw)

	sort.SliceStable(rooms, func(i, j int) bool {
		if strings.EqualFold(rooms[i].Name, rooms[j].Name) {
			return rooms[i].ID < rooms[j].ID
		}
		return strings.ToLower(rooms[i].Name) < strings.ToLower(rooms[j].Name)
	})

	return
}

// GetRoomWithBookings returns a room together with its bookings that have not
// yet ended, ordered by start time. Serves the per-room availability view.
func (s *RoomService) GetRoomWithBookings(ctx context.Context, roomID string) (room Room, bookings []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "GetRoomWithBookings", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to load room bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).InfoContext(ctx, "room bookings loaded")
	}()

	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	room, err = s.rooms.GetRoom(storageCtx, roomID)
	cancel()
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	if s.bookings == nil {
		return
	}

	now := s.now()
	if cached, ok := s.cache.Get(roomID, now); ok {
		bookings = cached
		return
	}

	storageCtx, cancel = context.WithTimeout(ctx, s.storageTimeout)
	raw, err := s.bookings.ListBookingsForRoom(storageCtx, roomID, &now)
	cancel()
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	bookings = make([]Booking, len(raw))
	copy(bookings, raw)
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Start.Equal(bookings[j].Start) {
			return bookings[i].ID < bookings[j].ID
		}
		return bookings[i].Start.Before(bookings[j].Start)
	})

	s.cache.Store(roomID, bookings, now)
	return
}
