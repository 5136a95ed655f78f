package persistence

import "time"

// Room represents a meeting room catalog entry.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Booking represents a reserved time slot stored for a room.
type Booking struct {
	ID        string
	RoomID    string
	UserName  string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
