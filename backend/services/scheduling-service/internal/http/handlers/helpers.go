package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"evcast/backend/services/scheduling-service/internal/service"
)

// UserEmailHeader carries the authenticated user, set by the gateway.
const UserEmailHeader = "X-User-Email"

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func userEmail(r *http.Request) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(r.Header.Get(UserEmailHeader)))
	return email, email != ""
}

// errorStatus maps domain errors to HTTP status codes and client messages.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	case errors.Is(err, service.ErrDuplicateBooking):
		return http.StatusConflict, "a scheduled booking already exists for this vehicle and slot"
	case errors.Is(err, service.ErrSlotTaken):
		return http.StatusConflict, "slot already taken"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNoSlotAvailable):
		return http.StatusNotFound, "no location available at any hour"
	case errors.Is(err, service.ErrInsufficientData):
		return http.StatusUnprocessableEntity, "insufficient charging history"
	}
	return http.StatusInternalServerError, "internal error"
}
