package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

type bookingRepoStub struct {
	bookings  map[string]Booking
	createErr error
	getErr    error
	deleteErr error
	listErr   error
	listCalls int
}

func newBookingRepoStub() *bookingRepoStub {
	return &bookingRepoStub{bookings: make(map[string]Booking)}
}

func (s *bookingRepoStub) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	if s.createErr != nil {
		return Booking{}, s.createErr
	}
	s.bookings[b.ID] = b
	return b, nil
}

func (s *bookingRepoStub) GetBooking(ctx context.Context, id string) (Booking, error) {
	if s.getErr != nil {
		return Booking{}, s.getErr
	}
	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, persistence.ErrNotFound
	}
	return b, nil
}

func (s *bookingRepoStub) DeleteBooking(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *bookingRepoStub) ListBookingsForRoom(ctx context.Context, roomID string, endsAfter *time.Time) ([]Booking, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []Booking
	for _, b := range s.bookings {
		if b.RoomID != roomID {
			continue
		}
		if endsAfter != nil && !b.End.After(*endsAfter) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type roomCatalogStub struct {
	rooms map[string]Room
	err   error
}

func (s *roomCatalogStub) GetRoom(ctx context.Context, id string) (Room, error) {
	if s.err != nil {
		return Room{}, s.err
	}
	room, ok := s.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, time.UTC)
}

func newTestBookingService(repo *bookingRepoStub, rooms *roomCatalogStub) *BookingService {
	next := 0
	idGen := func() string {
		next++
		return fmt.Sprintf("booking-%d", next)
	}
	return NewBookingService(repo, rooms, idGen, fixedClock())
}

func catalogWithRoom(id string) *roomCatalogStub {
	return &roomCatalogStub{rooms: map[string]Room{
		id: {ID: id, Name: "Meeting Room A", Capacity: 8},
	}}
}

func TestBookingService_Create_PersistsValidBooking(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	created, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID:   "room-1",
		UserName: "  Alice  ",
		Start:    at(14, 0),
		End:      at(15, 30),
	}})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected generated booking id")
	}
	if created.UserName != "Alice" {
		t.Fatalf("expected trimmed user name, got %q", created.UserName)
	}
	if created.Room == nil || created.Room.Name != "Meeting Room A" {
		t.Fatalf("expected resolved room, got %+v", created.Room)
	}
	if !created.CreatedAt.Equal(fixedClock()()) {
		t.Fatalf("expected clock-driven created_at, got %v", created.CreatedAt)
	}
	if _, ok := repo.bookings[created.ID]; !ok {
		t.Fatal("expected booking to be persisted")
	}
}

func TestBookingService_Create_ValidatesInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input BookingInput
		field string
	}{
		{
			name:  "missing user name",
			input: BookingInput{RoomID: "room-1", UserName: "   ", Start: at(14, 0), End: at(15, 0)},
			field: "user_name",
		},
		{
			name:  "user name too short",
			input: BookingInput{RoomID: "room-1", UserName: "A", Start: at(14, 0), End: at(15, 0)},
			field: "user_name",
		},
		{
			name:  "user name too long",
			input: BookingInput{RoomID: "room-1", UserName: strings.Repeat("a", 256), Start: at(14, 0), End: at(15, 0)},
			field: "user_name",
		},
		{
			name:  "missing room",
			input: BookingInput{RoomID: "", UserName: "Alice", Start: at(14, 0), End: at(15, 0)},
			field: "room_id",
		},
		{
			name:  "end before start",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(15, 0), End: at(14, 0)},
			field: "end_time",
		},
		{
			name:  "start in the past",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(8, 0), End: at(9, 30)},
			field: "start_time",
		},
		{
			name:  "start before business hours",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: time.Date(2026, time.March, 11, 7, 30, 0, 0, time.UTC), End: time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC)},
			field: "start_time",
		},
		{
			name:  "end past closing",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(22, 0), End: at(23, 30)},
			field: "end_time",
		},
		{
			name:  "too short",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(14, 0), End: at(14, 15)},
			field: "end_time",
		},
		{
			name:  "too long",
			input: BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(10, 0), End: at(18, 1)},
			field: "end_time",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newBookingRepoStub()
			svc := newTestBookingService(repo, catalogWithRoom("room-1"))

			_, err := svc.Create(context.Background(), CreateBookingParams{Input: tc.input})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected error on field %q, got %v", tc.field, vErr.FieldErrors)
			}
			if len(repo.bookings) != 0 {
				t.Fatal("expected nothing persisted on validation failure")
			}
		})
	}
}

func TestBookingService_Create_UnknownRoomIsValidationError(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	_, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID:   "room-missing",
		UserName: "Alice",
		Start:    at(14, 0),
		End:      at(15, 0),
	}})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["room_id"]; !ok {
		t.Fatalf("expected room_id field error, got %v", vErr.FieldErrors)
	}
}

func TestBookingService_Create_RejectsOverlap(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["existing"] = Booking{
		ID: "existing", RoomID: "room-1", UserName: "Bob",
		Start: at(14, 0), End: at(16, 0),
	}
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	_, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID:   "room-1",
		UserName: "Alice",
		Start:    at(15, 0),
		End:      at(17, 0),
	}})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if len(repo.bookings) != 1 {
		t.Fatal("expected no new booking on conflict")
	}
}

func TestBookingService_Create_AllowsTouchingAndOtherRooms(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["existing"] = Booking{
		ID: "existing", RoomID: "room-1", UserName: "Bob",
		Start: at(14, 0), End: at(16, 0),
	}
	rooms := &roomCatalogStub{rooms: map[string]Room{
		"room-1": {ID: "room-1", Name: "Meeting Room A"},
		"room-2": {ID: "room-2", Name: "Meeting Room B"},
	}}
	svc := newTestBookingService(repo, rooms)

	if _, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID: "room-1", UserName: "Alice", Start: at(16, 0), End: at(17, 0),
	}}); err != nil {
		t.Fatalf("expected back-to-back booking to succeed, got %v", err)
	}

	if _, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID: "room-2", UserName: "Carol", Start: at(14, 30), End: at(15, 30),
	}}); err != nil {
		t.Fatalf("expected booking in another room to succeed, got %v", err)
	}
}

func TestBookingService_Create_MapsStorageFailure(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.createErr = persistence.ErrUnavailable
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	_, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID: "room-1", UserName: "Alice", Start: at(14, 0), End: at(15, 0),
	}})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestBookingService_Create_MapsRacingInsertToConflict(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.createErr = persistence.ErrConflict
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	_, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID: "room-1", UserName: "Alice", Start: at(14, 0), End: at(15, 0),
	}})
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestBookingService_Delete(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["booking-1"] = Booking{ID: "booking-1", RoomID: "room-1", Start: at(14, 0), End: at(15, 0)}
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	if err := svc.Delete(context.Background(), "booking-1"); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if err := svc.Delete(context.Background(), "booking-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestBookingService_Delete_FreesSlotForRebooking(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))
	input := BookingInput{RoomID: "room-1", UserName: "Alice", Start: at(14, 0), End: at(15, 0)}

	first, err := svc.Create(context.Background(), CreateBookingParams{Input: input})
	if err != nil {
		t.Fatalf("expected first create to succeed, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateBookingParams{Input: input}); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected conflict while slot is held, got %v", err)
	}
	if err := svc.Delete(context.Background(), first.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateBookingParams{Input: input}); err != nil {
		t.Fatalf("expected slot to be reusable after delete, got %v", err)
	}
}

func TestBookingService_ListForRoom_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["late"] = Booking{ID: "late", RoomID: "room-1", Start: at(18, 0), End: at(19, 0)}
	repo.bookings["early"] = Booking{ID: "early", RoomID: "room-1", Start: at(10, 0), End: at(11, 0)}
	repo.bookings["finished"] = Booking{ID: "finished", RoomID: "room-1", Start: at(7, 0), End: at(8, 0)}
	repo.bookings["other"] = Booking{ID: "other", RoomID: "room-2", Start: at(10, 0), End: at(11, 0)}
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	got, err := svc.ListForRoom(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("expected list to succeed, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(got))
	}
	if got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("expected ascending start order, got %q then %q", got[0].ID, got[1].ID)
	}
}

func TestBookingService_ListForRoom_UsesCache(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["b1"] = Booking{ID: "b1", RoomID: "room-1", Start: at(10, 0), End: at(11, 0)}
	cache := NewAvailabilityCache(time.Minute, 8)
	svc := NewBookingServiceWithLogger(repo, catalogWithRoom("room-1"), cache, func() string { return "id" }, fixedClock(), 0, nil)

	if _, err := svc.ListForRoom(context.Background(), "room-1"); err != nil {
		t.Fatalf("expected first list to succeed, got %v", err)
	}
	if _, err := svc.ListForRoom(context.Background(), "room-1"); err != nil {
		t.Fatalf("expected second list to succeed, got %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.listCalls)
	}

	if _, err := svc.Create(context.Background(), CreateBookingParams{Input: BookingInput{
		RoomID: "room-1", UserName: "Alice", Start: at(14, 0), End: at(15, 0),
	}}); err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	got, err := svc.ListForRoom(context.Background(), "room-1")
	if err != nil {
		t.Fatalf("expected list after create to succeed, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected fresh listing after invalidation, got %d entries", len(got))
	}
}

func TestBookingService_HasConflict_ConsidersFullBookingSet(t *testing.T) {
	t.Parallel()

	repo := newBookingRepoStub()
	repo.bookings["b1"] = Booking{ID: "b1", RoomID: "room-1", Start: at(14, 0), End: at(16, 0)}
	svc := newTestBookingService(repo, catalogWithRoom("room-1"))

	conflict, err := svc.HasConflict(context.Background(), "room-1", at(15, 0), at(17, 0), "")
	if err != nil {
		t.Fatalf("expected conflict check to succeed, got %v", err)
	}
	if !conflict {
		t.Fatal("expected overlap to be reported")
	}

	conflict, err = svc.HasConflict(context.Background(), "room-1", at(15, 0), at(17, 0), "b1")
	if err != nil {
		t.Fatalf("expected conflict check to succeed, got %v", err)
	}
	if conflict {
		t.Fatal("expected excluded booking to be ignored")
	}
}
