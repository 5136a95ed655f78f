package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
)

var (
	roomCounter    uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures. It
// falls on a weekday morning inside business hours so bookings built relative
// to it validate cleanly.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic room record that can be materialised
// for application or persistence tests.
type RoomFixture struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(-time.Duration(idx) * time.Hour)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Meeting Room %03d", idx),
		Capacity:  8,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// ToApplication converts the fixture into the application layer model.
func (f RoomFixture) ToApplication() application.Room {
	return application.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ToPersistence converts the fixture into the persistence layer model.
func (f RoomFixture) ToPersistence() persistence.Room {
	return persistence.Room{
		ID:        f.ID,
		Name:      f.Name,
		Capacity:  f.Capacity,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a deterministic booking record. Successive
// fixtures occupy consecutive non-overlapping hour slots after the reference
// time.
type BookingFixture struct {
	ID        string
	RoomID    string
	UserName  string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture with optional
// overrides.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		RoomID:    "room-001",
		UserName:  fmt.Sprintf("User %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingRoom assigns the booking to a specific room.
func WithBookingRoom(roomID string) BookingOption {
	return func(f *BookingFixture) {
		f.RoomID = roomID
	}
}

// WithBookingUserName overrides the generated user name.
func WithBookingUserName(name string) BookingOption {
	return func(f *BookingFixture) {
		f.UserName = name
	}
}

// WithBookingSlot sets the start and end instants.
func WithBookingSlot(start, end time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// ToApplication converts the fixture into the application layer model.
func (f BookingFixture) ToApplication() application.Booking {
	return application.Booking{
		ID:        f.ID,
		RoomID:    f.RoomID,
		UserName:  f.UserName,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// ToPersistence converts the fixture into the persistence layer model.
func (f BookingFixture) ToPersistence() persistence.Booking {
	return persistence.Booking{
		ID:        f.ID,
		RoomID:    f.RoomID,
		UserName:  f.UserName,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
