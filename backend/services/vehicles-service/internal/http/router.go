package httpserver

import (
	"net/http"

	"evcast/backend/services/vehicles-service/internal/http/handlers"
)

// Routes groups HTTP handlers.
type Routes struct {
	Vehicles  *handlers.VehiclesHandler
	Estimates *handlers.EstimatesHandler
	Health    http.HandlerFunc
}

// NewRouter registers service endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if v := routes.Vehicles; v != nil {
		mux.HandleFunc("GET /vehicles", v.List)
		mux.HandleFunc("POST /vehicles", v.Create)
		mux.HandleFunc("GET /vehicles/catalog", v.Catalog)
		mux.HandleFunc("POST /vehicles/voice", v.Voice)
		mux.HandleFunc("POST /vehicles/voice/command", v.VoiceCommand)
		mux.HandleFunc("POST /vehicles/voice/estimate", v.VoiceEstimate)
		mux.HandleFunc("PUT /vehicles/{id}", v.Update)
		mux.HandleFunc("DELETE /vehicles/{id}", v.Delete)
	}
	if e := routes.Estimates; e != nil {
		mux.HandleFunc("POST /estimates/cost", e.Cost)
		mux.HandleFunc("POST /estimates/range", e.Range)
		mux.HandleFunc("POST /estimates/duration", e.Duration)
		mux.HandleFunc("GET /history", e.History)
	}
	if routes.Health != nil {
		mux.HandleFunc("GET /health", routes.Health)
	}
	return mux
}
