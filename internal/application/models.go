package application

import "time"

// Room represents a meeting room exposed by the application services.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a persisted reservation. Room is resolved by the
// services before the booking is returned, so response building never needs
// an extra lookup.
type Booking struct {
	ID        string
	RoomID    string
	UserName  string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Room      *Room
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	RoomID   string
	UserName string
	Start    time.Time
	End      time.Time
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Input BookingInput
}
