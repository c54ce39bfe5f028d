package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evcast/backend/services/scheduling-service/internal/costtable"
	"evcast/backend/services/scheduling-service/internal/models"
	"evcast/backend/services/scheduling-service/internal/pattern"
	"evcast/backend/services/scheduling-service/internal/service"
)

// Scheduler is the use case surface the handlers need.
type Scheduler interface {
	Schedule(ctx context.Context, in service.ScheduleInput) (*models.Booking, error)
	Confirm(ctx context.Context, userEmail, id string) (*models.Booking, error)
	Cancel(ctx context.Context, userEmail, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, userEmail, vehicleModel string) ([]models.Booking, error)
	Optimize(ctx context.Context, userEmail, vehicleModel string) (*service.OptimizeResult, error)
	Pattern(ctx context.Context, userEmail, vehicleModel string) (pattern.Pattern, error)
	Costs() ([]costtable.Entry, error)
	StationBookings(ctx context.Context, location, date string, hour int) (*service.StationView, error)
}

// BookingsHandler serves the /schedule endpoints.
type BookingsHandler struct {
	svc    Scheduler
	logger *zap.Logger
}

// NewBookingsHandler builds handler set.
func NewBookingsHandler(svc Scheduler, logger *zap.Logger) *BookingsHandler {
	return &BookingsHandler{svc: svc, logger: logger}
}

type optimizeRequest struct {
	VehicleModel string `json:"vehicle_model"`
}

type scheduleRequest struct {
	VehicleModel string `json:"vehicle_model"`
	Date         string `json:"date"`
	Hour         *int   `json:"hour"`
	TimeSlot     string `json:"time_slot"`
	Location     string `json:"location"`
}

// Optimize handles POST /schedule/optimize.
func (h *BookingsHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user email header")
		return
	}
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.svc.Optimize(r.Context(), email, req.VehicleModel)
	if err != nil {
		h.fail(w, "optimize failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Create handles POST /schedule/bookings.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user email header")
		return
	}
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var hour int
	switch {
	case req.Hour != nil:
		hour = *req.Hour
	case req.TimeSlot != "":
		parsed, err := models.ParseTimeSlot(req.TimeSlot)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		hour = parsed
	default:
		writeError(w, http.StatusBadRequest, "hour or time_slot is required")
		return
	}

	booking, err := h.svc.Schedule(r.Context(), service.ScheduleInput{
		UserEmail:    email,
		VehicleModel: req.VehicleModel,
		Date:         req.Date,
		Hour:         hour,
		Location:     req.Location,
	})
	if err != nil {
		h.fail(w, "schedule failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// List handles GET /schedule/bookings.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user email header")
		return
	}
	bookings, err := h.svc.ListBookings(r.Context(), email, r.URL.Query().Get("vehicle_model"))
	if err != nil {
		h.fail(w, "list bookings failed", err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": bookings,
	})
}

// Confirm handles POST /schedule/bookings/{id}/confirm.
func (h *BookingsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Confirm)
}

// Cancel handles POST /schedule/bookings/{id}/cancel.
func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.svc.Cancel)
}

func (h *BookingsHandler) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, string, string) (*models.Booking, error)) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user email header")
		return
	}
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}
	booking, err := apply(r.Context(), email, id)
	if err != nil {
		h.fail(w, "status change failed", err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Pattern handles GET /schedule/pattern.
func (h *BookingsHandler) Pattern(w http.ResponseWriter, r *http.Request) {
	email, ok := userEmail(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user email header")
		return
	}
	p, err := h.svc.Pattern(r.Context(), email, r.URL.Query().Get("vehicle_model"))
	if err != nil {
		h.fail(w, "pattern failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Costs handles GET /schedule/costs.
func (h *BookingsHandler) Costs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Costs()
	if err != nil {
		h.fail(w, "cost table failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"locations": entries,
	})
}

// StationSlot handles GET /schedule/stations/{location}/slots?date=&hour=.
func (h *BookingsHandler) StationSlot(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawHour := query.Get("hour")
	if rawHour == "" {
		rawHour = query.Get("time_slot")
	}
	hour, err := models.ParseTimeSlot(rawHour)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.svc.StationBookings(r.Context(), r.PathValue("location"), strings.TrimSpace(query.Get("date")), hour)
	if err != nil {
		h.fail(w, "station bookings failed", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *BookingsHandler) fail(w http.ResponseWriter, msg string, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
	} else {
		h.logger.Debug(msg, zap.Int("status", status), zap.Error(err))
	}
	writeError(w, status, message)
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
