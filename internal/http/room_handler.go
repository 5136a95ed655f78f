package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type roomService interface {
	ListRooms(ctx context.Context) ([]application.Room, error)
	GetRoomWithBookings(ctx context.Context, roomID string) (application.Room, []application.Booking, error)
}

type RoomHandler struct {
	service   roomService
	responder responder
	now       func() time.Time
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, now func() time.Time, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	if now == nil {
		now = time.Now
	}
	return &RoomHandler{service: service, responder: newResponder(base), now: now, logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, apiResponse{
		Success: true,
		Data:    toRoomDTOs(rooms),
		Message: "rooms retrieved successfully",
	})
}

func (h *RoomHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "ListBookings", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for booking list")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := h.log(r.Context(), "ListBookings", "room_id", roomID)
	room, bookings, err := h.service.GetRoomWithBookings(r.Context(), roomID)
	if err != nil {
		logger.ErrorContext(r.Context(), "room booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	now := h.now()
	logger.With("result_count", len(bookings)).InfoContext(r.Context(), "room bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, apiResponse{
		Success: true,
		Data:    toBookingDTOs(bookings, now),
		Room:    toRoomDetailDTO(room, bookings, now),
		Message: "bookings retrieved successfully",
	})
}
