package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

func testBooking(id, roomID string, start, end time.Time) persistence.Booking {
	return persistence.Booking{
		ID:       id,
		RoomID:   roomID,
		UserName: "Alice",
		Start:    start,
		End:      end,
	}
}

func TestBookingRepository_CreateAndGet(t *testing.T) {
	pool := setupTestPool(t)
	createTestRoom(t, pool, "room1", "Meeting Room A")
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	start := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateBooking(ctx, testBooking("b1", "room1", start, start.Add(time.Hour))); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	stored, err := repo.GetBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if stored.RoomID != "room1" || stored.UserName != "Alice" {
		t.Errorf("unexpected booking %+v", stored)
	}
	if !stored.Start.Equal(start) {
		t.Errorf("expected start %v, got %v", start, stored.Start)
	}
}

func TestBookingRepository_OverlapRejected(t *testing.T) {
	pool := setupTestPool(t)
	createTestRoom(t, pool, "room1", "Meeting Room A")
	createTestRoom(t, pool, "room2", "Meeting Room B")
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	start := time.Date(2026, time.June, 1, 10, 30, 0, 0, time.UTC)
	if err := repo.CreateBooking(ctx, testBooking("b1", "room1", start, start.Add(time.Hour))); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	t.Run("overlapping interval in same room conflicts", func(t *testing.T) {
		err := repo.CreateBooking(ctx, testBooking("b2", "room1", start.Add(-30*time.Minute), start.Add(30*time.Minute)))
		if !errors.Is(err, persistence.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("same interval in another room is fine", func(t *testing.T) {
		if err := repo.CreateBooking(ctx, testBooking("b3", "room2", start, start.Add(time.Hour))); err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
	})

	t.Run("touching interval does not conflict", func(t *testing.T) {
		end := start.Add(time.Hour)
		if err := repo.CreateBooking(ctx, testBooking("b4", "room1", end, end.Add(time.Hour))); err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
	})
}

func TestBookingRepository_UnknownRoom(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewBookingRepository(pool)

	start := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	err := repo.CreateBooking(context.Background(), testBooking("b1", "ghost", start, start.Add(time.Hour)))
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestBookingRepository_ConcurrentCreates(t *testing.T) {
	pool := setupTestPool(t)
	createTestRoom(t, pool, "room1", "Meeting Room A")
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	start := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			booking := testBooking("", "room1", start.Add(time.Duration(n)*15*time.Minute), start.Add(2*time.Hour))
			booking.ID = string(rune('a' + n))
			results[n] = repo.CreateBooking(ctx, booking)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, persistence.ErrConflict) && !errors.Is(err, persistence.ErrUnavailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one create to win, got %d", succeeded)
	}
}

func TestBookingRepository_ListFiltersAndOrders(t *testing.T) {
	pool := setupTestPool(t)
	createTestRoom(t, pool, "room1", "Meeting Room A")
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	day := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	slots := []struct {
		id         string
		start, end time.Time
	}{
		{"late", day.Add(15 * time.Hour), day.Add(16 * time.Hour)},
		{"early", day.Add(9 * time.Hour), day.Add(10 * time.Hour)},
		{"mid", day.Add(12 * time.Hour), day.Add(13 * time.Hour)},
	}
	for _, s := range slots {
		if err := repo.CreateBooking(ctx, testBooking(s.id, "room1", s.start, s.end)); err != nil {
			t.Fatalf("CreateBooking(%s) failed: %v", s.id, err)
		}
	}

	t.Run("full set ordered by start", func(t *testing.T) {
		bookings, err := repo.ListBookingsForRoom(ctx, "room1", persistence.BookingFilter{})
		if err != nil {
			t.Fatalf("ListBookingsForRoom failed: %v", err)
		}
		want := []string{"early", "mid", "late"}
		if len(bookings) != len(want) {
			t.Fatalf("expected %d bookings, got %d", len(want), len(bookings))
		}
		for i, id := range want {
			if bookings[i].ID != id {
				t.Errorf("bookings[%d] = %s, want %s", i, bookings[i].ID, id)
			}
		}
	})

	t.Run("ends-after bound hides completed bookings", func(t *testing.T) {
		cutoff := day.Add(11 * time.Hour)
		bookings, err := repo.ListBookingsForRoom(ctx, "room1", persistence.BookingFilter{EndsAfter: &cutoff})
		if err != nil {
			t.Fatalf("ListBookingsForRoom failed: %v", err)
		}
		if len(bookings) != 2 {
			t.Fatalf("expected 2 bookings after cutoff, got %d", len(bookings))
		}
		if bookings[0].ID != "mid" || bookings[1].ID != "late" {
			t.Fatalf("unexpected order: %s, %s", bookings[0].ID, bookings[1].ID)
		}
	})
}

func TestBookingRepository_Delete(t *testing.T) {
	pool := setupTestPool(t)
	createTestRoom(t, pool, "room1", "Meeting Room A")
	repo := NewBookingRepository(pool)
	ctx := context.Background()

	start := time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateBooking(ctx, testBooking("b1", "room1", start, start.Add(time.Hour))); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if err := repo.DeleteBooking(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBooking failed: %v", err)
	}

	// Repeated deletes stay NotFound; nothing is corrupted.
	for i := 0; i < 2; i++ {
		if err := repo.DeleteBooking(ctx, "b1"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}

	if err := repo.CreateBooking(ctx, testBooking("b2", "room1", start, start.Add(time.Hour))); err != nil {
		t.Fatalf("expected the slot to be reusable after delete, got %v", err)
	}
}
