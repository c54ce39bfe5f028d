package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/estimate"
	"evcast/backend/services/vehicles-service/internal/models"
	"evcast/backend/services/vehicles-service/internal/service"
)

// Estimator is the estimate service used by the handlers.
type Estimator interface {
	Cost(ctx context.Context, owner string, req service.CostRequest) (*estimate.CostEstimate, error)
	Range(ctx context.Context, owner string, req service.RangeRequest) (*estimate.RangeEstimate, error)
	Duration(ctx context.Context, owner string, req service.DurationRequest) (*service.DurationResult, error)
	History(ctx context.Context, owner, vehicleModel string) ([]models.ChargingRecord, error)
}

// EstimatesHandler serves /estimates and /history.
type EstimatesHandler struct {
	svc    Estimator
	logger *zap.Logger
}

// NewEstimatesHandler builds handler.
func NewEstimatesHandler(svc Estimator, logger *zap.Logger) *EstimatesHandler {
	return &EstimatesHandler{svc: svc, logger: logger}
}

func (h *EstimatesHandler) fail(w http.ResponseWriter, op string, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.Error(err))
	}
	writeError(w, status, msg)
}

// Cost handles POST /estimates/cost.
func (h *EstimatesHandler) Cost(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req service.CostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Cost(r.Context(), owner, req)
	if err != nil {
		h.fail(w, "cost estimate", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Range handles POST /estimates/range.
func (h *EstimatesHandler) Range(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req service.RangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Range(r.Context(), owner, req)
	if err != nil {
		h.fail(w, "range estimate", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Duration handles POST /estimates/duration.
func (h *EstimatesHandler) Duration(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req service.DurationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.svc.Duration(r.Context(), owner, req)
	if err != nil {
		h.fail(w, "duration estimate", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// History handles GET /history?vehicle_model=.
func (h *EstimatesHandler) History(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	records, err := h.svc.History(r.Context(), owner, r.URL.Query().Get("vehicle_model"))
	if err != nil {
		h.fail(w, "list history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": records})
}
