package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/catalog"
	"evcast/backend/services/vehicles-service/internal/models"
	"evcast/backend/services/vehicles-service/internal/service"
	"evcast/backend/services/vehicles-service/internal/voice"
)

// VehicleManager is the vehicle profile service used by the handlers.
type VehicleManager interface {
	Create(ctx context.Context, owner string, in service.VehicleInput) (*models.Vehicle, error)
	List(ctx context.Context, owner string) ([]models.Vehicle, error)
	Update(ctx context.Context, owner, id string, in service.VehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, owner, id string) error
	Catalog(ctx context.Context) (*catalog.Catalog, error)
	ParseVoice(ctx context.Context, owner, transcript string, save bool) (*service.VoiceResult, error)
	ParseCommand(transcript string) (*voice.Command, error)
	ParseDictation(transcript string) (*service.DictationResult, error)
}

// VehiclesHandler serves /vehicles.
type VehiclesHandler struct {
	svc    VehicleManager
	logger *zap.Logger
}

// NewVehiclesHandler builds handler.
func NewVehiclesHandler(svc VehicleManager, logger *zap.Logger) *VehiclesHandler {
	return &VehiclesHandler{svc: svc, logger: logger}
}

func (h *VehiclesHandler) fail(w http.ResponseWriter, op string, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.Error(err))
	}
	writeError(w, status, msg)
}

// List handles GET /vehicles.
func (h *VehiclesHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	vehicles, err := h.svc.List(r.Context(), owner)
	if err != nil {
		h.fail(w, "list vehicles", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"vehicles": vehicles})
}

// Create handles POST /vehicles.
func (h *VehiclesHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var in service.VehicleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.svc.Create(r.Context(), owner, in)
	if err != nil {
		h.fail(w, "create vehicle", err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Update handles PUT /vehicles/{id}.
func (h *VehiclesHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var in service.VehicleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v, err := h.svc.Update(r.Context(), owner, r.PathValue("id"), in)
	if err != nil {
		h.fail(w, "update vehicle", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Delete handles DELETE /vehicles/{id}.
func (h *VehiclesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		h.fail(w, "delete vehicle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Catalog handles GET /vehicles/catalog.
func (h *VehiclesHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.svc.Catalog(r.Context())
	if err != nil {
		h.fail(w, "load catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Voice handles POST /vehicles/voice. With "save": true a complete draft is stored
// and answered with 201; an incomplete one gets 422 with the draft.
func (h *VehiclesHandler) Voice(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Transcript string `json:"transcript"`
		Save       bool   `json:"save"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.ParseVoice(r.Context(), owner, req.Transcript, req.Save)
	if err != nil {
		status, msg := errorStatus(err)
		if res == nil || status >= http.StatusInternalServerError {
			h.fail(w, "parse voice", err)
			return
		}
		writeJSON(w, status, map[string]interface{}{"error": msg, "result": res})
		return
	}

	status := http.StatusOK
	if res.Vehicle != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

// VoiceCommand handles POST /vehicles/voice/command.
func (h *VehiclesHandler) VoiceCommand(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req transcriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cmd, err := h.svc.ParseCommand(req.Transcript)
	if err != nil {
		h.fail(w, "parse voice command", err)
		return
	}
	writeJSON(w, http.StatusOK, cmd)
}

// VoiceEstimate handles POST /vehicles/voice/estimate.
func (h *VehiclesHandler) VoiceEstimate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req transcriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ParseDictation(req.Transcript)
	if err != nil {
		h.fail(w, "parse dictation", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
