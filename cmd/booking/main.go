package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/config"
	httptransport "github.com/example/room-booking/internal/http"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := sqlite.Migrate(context.Background(), pool); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	roomRepo := sqlite.NewRoomRepository(pool)
	bookingRepo := sqlite.NewBookingRepository(pool)

	if cfg.SeedRooms {
		if err := seedRooms(context.Background(), roomRepo, idGenerator, now, logger); err != nil {
			logger.Error("failed to seed rooms", "error", err)
			os.Exit(1)
		}
	}

	roomAdapter := newRoomRepositoryAdapter(roomRepo)
	bookingAdapter := newBookingRepositoryAdapter(bookingRepo)

	cache := application.NewAvailabilityCache(cfg.CacheTTL, 0)
	bookingService := application.NewBookingServiceWithLogger(bookingAdapter, roomAdapter, cache, idGenerator, now, cfg.StorageTimeout, logger)
	roomService := application.NewRoomServiceWithLogger(roomAdapter, bookingAdapter, cache, now, cfg.StorageTimeout, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:      httptransport.NewRoomHandler(roomService, now, logger),
		Bookings:   httptransport.NewBookingHandler(bookingService, now, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// defaultRooms is the catalog provisioned on first start against an empty
// database.
var defaultRooms = []struct {
	name     string
	capacity int
}{
	{name: "Meeting Room A", capacity: 8},
	{name: "Meeting Room B", capacity: 12},
	{name: "Conference Hall", capacity: 50},
	{name: "Small Office", capacity: 4},
	{name: "Open Space", capacity: 20},
}

func seedRooms(ctx context.Context, repo persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) error {
	count, err := repo.CountRooms(ctx)
	if err != nil {
		return fmt.Errorf("count rooms: %w", err)
	}
	if count > 0 {
		logger.Info("room catalog already provisioned", "room_count", count)
		return nil
	}

	created := now()
	for _, room := range defaultRooms {
		record := persistence.Room{
			ID:        idGenerator(),
			Name:      room.name,
			Capacity:  room.capacity,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := repo.CreateRoom(ctx, record); err != nil {
			return fmt.Errorf("seed room %q: %w", room.name, err)
		}
	}
	logger.Info("room catalog seeded", "room_count", len(defaultRooms))
	return nil
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	stored, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(stored))
	for _, room := range stored {
		rooms = append(rooms, toApplicationRoom(room))
	}
	return rooms, nil
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	stored, err := a.repo.GetBooking(ctx, booking.ID)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) DeleteBooking(ctx context.Context, id string) error {
	return a.repo.DeleteBooking(ctx, id)
}

func (a *bookingRepositoryAdapter) ListBookingsForRoom(ctx context.Context, roomID string, endsAfter *time.Time) ([]application.Booking, error) {
	stored, err := a.repo.ListBookingsForRoom(ctx, roomID, persistence.BookingFilter{EndsAfter: endsAfter})
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(stored))
	for _, booking := range stored {
		bookings = append(bookings, toApplicationBooking(booking))
	}
	return bookings, nil
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toApplicationBooking(booking persistence.Booking) application.Booking {
	return application.Booking{
		ID:        booking.ID,
		RoomID:    booking.RoomID,
		UserName:  booking.UserName,
		Start:     booking.Start,
		End:       booking.End,
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:        booking.ID,
		RoomID:    booking.RoomID,
		UserName:  booking.UserName,
		Start:     booking.Start,
		End:       booking.End,
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}
}
