package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes the room catalog operations the services consume.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	CountRooms(ctx context.Context) (int, error)
}

// BookingFilter narrows booking queries for a room. A nil EndsAfter returns
// the full authoritative set, which the conflict check requires; read paths
// pass the current time to hide completed bookings.
type BookingFilter struct {
	EndsAfter *time.Time
}

// BookingRepository stores reserved slots. CreateBooking evaluates the
// overlap predicate and the insert inside a single write transaction so two
// racing creates for the same room cannot both commit; an overlapping insert
// fails with ErrConflict.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookingsForRoom(ctx context.Context, roomID string, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
