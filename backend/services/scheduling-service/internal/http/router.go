package httpserver

import (
	"net/http"

	"evcast/backend/services/scheduling-service/internal/http/handlers"
)

// Routes groups handlers.
type Routes struct {
	Bookings *handlers.BookingsHandler
	Stream   http.HandlerFunc
	Metrics  http.Handler
	Health   http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if b := routes.Bookings; b != nil {
		mux.HandleFunc("POST /schedule/optimize", b.Optimize)
		mux.HandleFunc("POST /schedule/bookings", b.Create)
		mux.HandleFunc("GET /schedule/bookings", b.List)
		mux.HandleFunc("POST /schedule/bookings/{id}/confirm", b.Confirm)
		mux.HandleFunc("POST /schedule/bookings/{id}/cancel", b.Cancel)
		mux.HandleFunc("GET /schedule/pattern", b.Pattern)
		mux.HandleFunc("GET /schedule/costs", b.Costs)
		mux.HandleFunc("GET /schedule/stations/{location}/slots", b.StationSlot)
	}
	if routes.Stream != nil {
		mux.Handle("GET /ws/bookings", routes.Stream)
	}
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics)
	}
	if routes.Health != nil {
		mux.Handle("GET /health", routes.Health)
	}
	return mux
}
