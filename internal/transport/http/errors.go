package http

import (
	"errors"
	"net/http"

	"caresched/internal/identity"
	"caresched/internal/service/availability"
	"caresched/internal/service/booking"
	"caresched/internal/store"
)

// respondError maps service and store errors onto HTTP status codes. Every
// handler funnels its failures through here so the mapping lives in one place.
func respondError(w http.ResponseWriter, err error) {
	var availValidation *availability.ValidationError
	var bookValidation *booking.ValidationError

	switch {
	case errors.As(err, &availValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", availValidation.Error())
	case errors.As(err, &bookValidation):
		writeError(w, http.StatusBadRequest, "validation_failed", bookValidation.Error())
	case errors.Is(err, identity.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "you do not have access to this resource")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, store.ErrSlotConflict):
		writeError(w, http.StatusConflict, "slot_conflict", "the requested slot is already booked")
	case errors.Is(err, store.ErrWindowOverlap):
		writeError(w, http.StatusConflict, "window_overlap", "an active availability window already covers this time")
	case errors.Is(err, booking.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "already_cancelled", "the appointment has already been cancelled")
	case errors.Is(err, booking.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, "already_completed", "the appointment has already been completed")
	case errors.Is(err, booking.ErrInvalidTransition), errors.Is(err, store.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", "the appointment is not in a state that allows this operation")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
	}
}
