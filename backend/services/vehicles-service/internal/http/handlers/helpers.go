package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"evcast/backend/services/vehicles-service/internal/estimate"
	"evcast/backend/services/vehicles-service/internal/service"
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

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user header")
	}
	return email, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// errorStatus maps domain errors to HTTP status codes and client messages.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, estimate.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrIncompleteDraft):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrVehicleNotFound):
		return http.StatusNotFound, "vehicle not found"
	}
	return http.StatusInternalServerError, "internal error"
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "vehicles"})
	}
}
