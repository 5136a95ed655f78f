package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateBooking inserts a booking after re-checking the overlap predicate
// inside the same write transaction. SQLite admits a single writer, so the
// check and the insert are atomic: two racing creates for overlapping
// intervals in one room cannot both commit.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || booking.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if !booking.End.After(booking.Start) {
		return persistence.ErrConstraintViolation
	}

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}

	start := booking.Start.UTC().Format(time.RFC3339)
	end := booking.End.UTC().Format(time.RFC3339)

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var roomCount int
		if err := r.helper.QueryRowTx(tx,
			"SELECT COUNT(*) FROM rooms WHERE id = ?", booking.RoomID,
		).Scan(&roomCount); err != nil {
			return err
		}
		if roomCount == 0 {
			return persistence.ErrForeignKeyViolation
		}

		// Half-open interval intersection: [s1,e1) and [s2,e2) conflict when
		// s1 < e2 AND e1 > s2. RFC3339 UTC strings order lexicographically.
		var overlapping int
		if err := r.helper.QueryRowTx(tx, `
			SELECT COUNT(*) FROM bookings
			WHERE room_id = ? AND start_time < ? AND end_time > ?
		`, booking.RoomID, end, start).Scan(&overlapping); err != nil {
			return err
		}
		if overlapping > 0 {
			return persistence.ErrConflict
		}

		_, err := r.helper.ExecTx(tx, `
			INSERT INTO bookings (id, room_id, user_name, start_time, end_time, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			booking.ID,
			booking.RoomID,
			booking.UserName,
			start,
			end,
			booking.CreatedAt.UTC().Format(time.RFC3339),
			booking.UpdatedAt.UTC().Format(time.RFC3339),
		)
		return err
	})
	if err != nil {
		if errors.Is(err, persistence.ErrConflict) || errors.Is(err, persistence.ErrForeignKeyViolation) {
			return err
		}
		return r.mapper.MapError(err)
	}

	return nil
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, room_id, user_name, start_time, end_time, created_at, updated_at
		FROM bookings
		WHERE id = ?
	`

	booking, err := scanBooking(r.helper.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Booking{}, persistence.ErrNotFound
		}
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	return booking, nil
}

// ListBookingsForRoom returns the room's bookings ordered by start time. With
// a nil filter the full set is returned; an EndsAfter bound hides bookings
// that already ended at that instant.
func (r *BookingRepository) ListBookingsForRoom(ctx context.Context, roomID string, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	query := `
		SELECT id, room_id, user_name, start_time, end_time, created_at, updated_at
		FROM bookings
		WHERE room_id = ?
	`
	args := []any{roomID}

	if filter.EndsAfter != nil {
		query += " AND end_time > ?"
		args = append(args, filter.EndsAfter.UTC().Format(time.RFC3339))
	}
	query += " ORDER BY start_time ASC, id ASC"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return bookings, nil
}

// DeleteBooking removes a booking by ID.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var startStr, endStr, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserName,
		&startStr,
		&endStr,
		&createdAtStr,
		&updatedAtStr,
	); err != nil {
		return persistence.Booking{}, err
	}

	var err error
	if booking.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if booking.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return booking, nil
}
