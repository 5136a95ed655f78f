package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

// User name bounds applied after trimming surrounding whitespace.
const (
	minUserNameLen = 2
	maxUserNameLen = 255
)

// defaultStorageTimeout bounds every repository call issued by the services.
const defaultStorageTimeout = 5 * time.Second

// BookingRepository captures the persistence interactions needed by the service.
type BookingRepository interface {
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListBookingsForRoom(ctx context.Context, roomID string, endsAfter *time.Time) ([]Booking, error)
}

// RoomCatalog exposes the room lookups the booking service needs.
type RoomCatalog interface {
	GetRoom(ctx context.Context, id string) (Room, error)
}

// BookingService orchestrates validation, conflict detection, and persistence
// for booking operations.
type BookingService struct {
	bookings       BookingRepository
	rooms          RoomCatalog
	cache          *availabilityCache
	idGenerator    func() string
	now            func() time.Time
	storageTimeout time.Duration
	logger         *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, rooms RoomCatalog, idGenerator func() string, now func() time.Time) *BookingService {
	return NewBookingServiceWithLogger(bookings, rooms, nil, idGenerator, now, 0, nil)
}

// NewBookingServiceWithLogger constructs a booking service with a shared
// availability cache, a storage timeout, and a logger. A zero timeout falls
// back to the default bound.
func NewBookingServiceWithLogger(bookings BookingRepository, rooms RoomCatalog, cache *availabilityCache, idGenerator func() string, now func() time.Time, storageTimeout time.Duration, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if storageTimeout <= 0 {
		storageTimeout = defaultStorageTimeout
	}
	return &BookingService{
		bookings:       bookings,
		rooms:          rooms,
		cache:          cache,
		idGenerator:    idGenerator,
		now:            now,
		storageTimeout: storageTimeout,
		logger:         defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// Create validates the candidate reservation, checks it against existing
// bookings, and persists it. Exactly one record is written on success and
// none on any failure path.
func (s *BookingService) Create(ctx context.Context, params CreateBookingParams) (created Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}

	input := params.Input
	input.UserName = strings.TrimSpace(input.UserName)

	logger := s.loggerWith(ctx, "Create",
		"room_id", input.RoomID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", created.ID).InfoContext(ctx, "booking created")
	}()

	now := s.now()
	vErr := &ValidationError{}
	validateUserName(input.UserName, vErr)
	for _, violation := range booking.ValidateRange(input.Start, input.End, now) {
		vErr.add(rangeViolationField(violation.Reason), violation.Message)
	}
	if strings.TrimSpace(input.RoomID) == "" {
		vErr.add("room_id", "please select a room")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	room, err := s.lookupRoom(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			roomErr := &ValidationError{}
			roomErr.add("room_id", "the selected room does not exist")
			err = roomErr
		}
		return
	}

	conflict, err := s.HasConflict(ctx, input.RoomID, input.Start, input.End, "")
	if err != nil {
		return
	}
	if conflict {
		err = ErrSlotConflict
		return
	}

	record := Booking{
		ID:        s.idGenerator(),
		RoomID:    input.RoomID,
		UserName:  input.UserName,
		Start:     input.Start,
		End:       input.End,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if s.bookings == nil {
		record.Room = &room
		created = record
		return
	}

	storageCtx, cancel := s.storageContext(ctx)
	persisted, err := s.bookings.CreateBooking(storageCtx, record)
	cancel()
	if err != nil {
		err = mapBookingRepoError(err)
		return
	}

	persisted.Room = &room
	created = persisted
	s.cache.Invalidate()
	return
}

// Delete removes a booking by id. Deleting an unknown or already-deleted id
// returns ErrNotFound, never anything worse.
func (s *BookingService) Delete(ctx context.Context, bookingID string) error {
	if s == nil {
		return fmt.Errorf("BookingService is nil")
	}
	if s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	logger := s.loggerWith(ctx, "Delete", "booking_id", bookingID)

	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()

	existing, err := s.bookings.GetBooking(storageCtx, bookingID)
	if err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to load booking for delete", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	if err := s.bookings.DeleteBooking(storageCtx, bookingID); err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.cache.Invalidate()
	logger.With("room_id", existing.RoomID).InfoContext(ctx, "booking deleted")
	return nil
}

// ListForRoom returns the room's bookings that have not yet ended, ordered by
// ascending start time.
func (s *BookingService) ListForRoom(ctx context.Context, roomID string) (bookings []Booking, err error) {
	if s == nil {
		err = fmt.Errorf("BookingService is nil")
		return
	}
	if s.bookings == nil {
		return nil, nil
	}

	logger := s.loggerWith(ctx, "ListForRoom", "room_id", roomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).InfoContext(ctx, "bookings listed")
	}()

	now := s.now()
	if cached, ok := s.cache.Get(roomID, now); ok {
		bookings = cached
		return
	}

	storageCtx, cancel := s.storageContext(ctx)
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

// HasConflict reports whether the candidate interval intersects any existing
// booking for the room. The check runs over the room's full booking set, not
// the future-only view the read paths use; excludeID is reserved for a
// future update flow.
func (s *BookingService) HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	if s == nil || s.bookings == nil {
		return false, nil
	}

	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()

	existing, err := s.bookings.ListBookingsForRoom(storageCtx, roomID, nil)
	if err != nil {
		return false, mapBookingRepoError(err)
	}

	slots := make([]booking.Slot, 0, len(existing))
	for _, b := range existing {
		slots = append(slots, booking.Slot{ID: b.ID, RoomID: b.RoomID, Start: b.Start, End: b.End})
	}

	candidate := booking.Slot{RoomID: roomID, Start: start, End: end}
	_, found := booking.FindConflict(slots, candidate, excludeID)
	return found, nil
}

func (s *BookingService) lookupRoom(ctx context.Context, roomID string) (Room, error) {
	if s.rooms == nil {
		return Room{ID: roomID}, nil
	}

	storageCtx, cancel := s.storageContext(ctx)
	defer cancel()

	room, err := s.rooms.GetRoom(storageCtx, roomID)
	if err != nil {
		return Room{}, mapBookingRepoError(err)
	}
	return room, nil
}

func (s *BookingService) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storageTimeout)
}

func validateUserName(name string, vErr *ValidationError) {
	switch {
	case name == "":
		vErr.add("user_name", "please provide a user name")
	case utf8.RuneCountInString(name) < minUserNameLen:
		vErr.add("user_name", "user name must be at least 2 characters")
	case utf8.RuneCountInString(name) > maxUserNameLen:
		vErr.add("user_name", "user name must not exceed 255 characters")
	}
}

func rangeViolationField(reason booking.Reason) string {
	switch reason {
	case booking.ReasonNotFuture, booking.ReasonStartOutsideHours:
		return "start_time"
	default:
		return "end_time"
	}
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConflict):
		return ErrSlotConflict
	case errors.Is(err, persistence.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return ErrStorageUnavailable
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	}
	return err
}
