package http

import (
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

// dateTimeLayout is the wire format for every timestamp the API exchanges.
const dateTimeLayout = "2006-01-02 15:04:05"

type roomDTO struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Capacity             int    `json:"capacity"`
	CurrentBookingsCount *int   `json:"current_bookings_count,omitempty"`
	NextAvailable        string `json:"next_available,omitempty"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

type bookingDTO struct {
	ID                 string   `json:"id"`
	RoomID             string   `json:"room_id"`
	Room               *roomDTO `json:"room,omitempty"`
	UserName           string   `json:"user_name"`
	StartTime          string   `json:"start_time"`
	EndTime            string   `json:"end_time"`
	DurationHours      float64  `json:"duration_hours"`
	IsCurrent          bool     `json:"is_current"`
	IsUpcoming         bool     `json:"is_upcoming"`
	IsPast             bool     `json:"is_past"`
	Status             string   `json:"status"`
	TimeUntilStart     string   `json:"time_until_start,omitempty"`
	FormattedTimeRange string   `json:"formatted_time_range"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt.Local().Format(dateTimeLayout),
		UpdatedAt: room.UpdatedAt.Local().Format(dateTimeLayout),
	}
}

func toRoomDTOs(rooms []application.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

// toRoomDetailDTO enriches the room payload with availability derived from the
// already-fetched booking list; it never issues queries of its own.
func toRoomDetailDTO(room application.Room, bookings []application.Booking, now time.Time) roomDTO {
	dto := toRoomDTO(room)

	count := len(bookings)
	dto.CurrentBookingsCount = &count

	dto.NextAvailable = "Available now"
	for _, b := range bookings {
		if !b.Start.After(now) && b.End.After(now) {
			dto.NextAvailable = b.End.Local().Format(dateTimeLayout)
			break
		}
	}
	return dto
}

func toBookingDTO(b application.Booking, now time.Time) bookingDTO {
	status := booking.ResolveStatus(b.Start, b.End, now)

	// Timestamps render in server local time, mirroring how request times
	// without an explicit offset are interpreted.
	start := b.Start.Local()
	end := b.End.Local()

	dto := bookingDTO{
		ID:                 b.ID,
		RoomID:             b.RoomID,
		UserName:           b.UserName,
		StartTime:          start.Format(dateTimeLayout),
		EndTime:            end.Format(dateTimeLayout),
		DurationHours:      booking.DurationHours(b.Start, b.End),
		IsCurrent:          status == booking.StatusActive,
		IsUpcoming:         status == booking.StatusUpcoming,
		IsPast:             status == booking.StatusCompleted,
		Status:             string(status),
		FormattedTimeRange: booking.FormatTimeRange(start, end),
		CreatedAt:          b.CreatedAt.Local().Format(dateTimeLayout),
		UpdatedAt:          b.UpdatedAt.Local().Format(dateTimeLayout),
	}

	if status == booking.StatusUpcoming {
		dto.TimeUntilStart = booking.TimeUntilStart(b.Start, now)
	}

	if b.Room != nil {
		room := toRoomDTO(*b.Room)
		dto.Room = &room
	}
	return dto
}

func toBookingDTOs(bookings []application.Booking, now time.Time) []bookingDTO {
	if len(bookings) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b, now))
	}
	return out
}
