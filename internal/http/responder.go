package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-booking/internal/application"
)

var (
	errBadRequestBody   = errors.New("the request body is not valid JSON")
	errInvalidRoomID    = errors.New("a room id is required")
	errInvalidBookingID = errors.New("a booking id is required")
)

// apiResponse is the envelope every endpoint responds with. Data and Room are
// omitted when a handler has nothing to put in them.
type apiResponse struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Room    any               `json:"room,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, apiResponse{Success: false, Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, apiResponse{
			Success: false,
			Message: "the requested resource was not found",
		})
	case errors.Is(err, application.ErrSlotConflict):
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, apiResponse{
			Success: false,
			Message: "the room is already booked for the selected time slot",
			Errors:  map[string]string{"start_time": "the room is already booked for the selected time slot"},
		})
	case errors.Is(err, application.ErrStorageUnavailable):
		r.writeJSON(ctx, w, http.StatusInternalServerError, apiResponse{
			Success: false,
			Message: "the service is temporarily unavailable, please retry",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, apiResponse{
				Success: false,
				Message: "the given data was invalid",
				Errors:  fieldErrors(vErr),
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, apiResponse{
			Success: false,
			Message: "an internal error occurred",
		})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request could not be understood"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusUnprocessableEntity:
		return "the given data was invalid"
	default:
		return "an internal error occurred"
	}
}

func fieldErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}
	out := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		out[field] = msg
	}
	return out
}
