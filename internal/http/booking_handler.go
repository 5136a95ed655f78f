package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
)

type bookingService interface {
	Create(ctx context.Context, params application.CreateBookingParams) (application.Booking, error)
	Delete(ctx context.Context, bookingID string) error
}

type BookingHandler struct {
	service   bookingService
	responder responder
	now       func() time.Time
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, now func() time.Time, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	if now == nil {
		now = time.Now
	}
	return &BookingHandler{service: service, responder: newResponder(base), now: now, logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", req.RoomID)

	input, parseErr := req.toInput()
	if parseErr != nil {
		logger.ErrorContext(r.Context(), "booking request has unparseable times", "error_kind", application.ErrorKind(parseErr))
		h.responder.handleServiceError(r.Context(), w, parseErr)
		return
	}

	created, err := h.service.Create(r.Context(), application.CreateBookingParams{Input: input})
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", created.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, apiResponse{
		Success: true,
		Data:    toBookingDTO(created, h.now()),
		Message: "booking created successfully",
	})
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	logger := h.log(r.Context(), "Delete", "booking_id", bookingID)
	if err := h.service.Delete(r.Context(), bookingID); err != nil {
		logger.ErrorContext(r.Context(), "booking delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, apiResponse{
		Success: true,
		Message: "booking deleted successfully",
	})
}

type bookingRequest struct {
	RoomID    string `json:"room_id"`
	UserName  string `json:"user_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// toInput parses the request times. Malformed values surface as field level
// validation errors rather than a generic bad request.
func (r bookingRequest) toInput() (application.BookingInput, error) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{}}

	start, ok := parseRequestTime(r.StartTime)
	if !ok {
		vErr.FieldErrors["start_time"] = "start time must be a valid date and time"
	}
	end, ok := parseRequestTime(r.EndTime)
	if !ok {
		vErr.FieldErrors["end_time"] = "end time must be a valid date and time"
	}
	if vErr.HasErrors() {
		return application.BookingInput{}, vErr
	}

	return application.BookingInput{
		RoomID:   strings.TrimSpace(r.RoomID),
		UserName: r.UserName,
		Start:    start,
		End:      end,
	}, nil
}

// parseRequestTime accepts the API's "2006-01-02 15:04:05" form and RFC 3339.
// Times without an explicit offset are interpreted in server local time.
func parseRequestTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if parsed, err := time.ParseInLocation(dateTimeLayout, value, time.Local); err == nil {
		return parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, true
	}
	return time.Time{}, false
}
