package httpserver

import (
	"net/http"

	"evcast/backend/services/api-gateway/internal/http/handlers"
	"evcast/backend/services/api-gateway/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers  *handlers.AuthHandlers
	Vehicles      http.Handler
	Scheduling    http.Handler
	HealthHandler http.HandlerFunc
}

// NewRouter wires HTTP routes. Everything under /api except auth requires an access token.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", deps.HealthHandler)

	mux.HandleFunc("POST /api/auth/signup", deps.AuthHandlers.Signup)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandlers.Login)
	mux.HandleFunc("POST /api/auth/refresh", deps.AuthHandlers.Refresh)

	vehicles := middleware.Chain(deps.Vehicles, authMiddleware)
	mux.Handle("/api/vehicles", vehicles)
	mux.Handle("/api/vehicles/", vehicles)
	mux.Handle("/api/estimates/", vehicles)
	mux.Handle("GET /api/history", vehicles)

	mux.Handle("/api/schedule/", middleware.Chain(deps.Scheduling, authMiddleware))

	return mux
}
