package app

import (
	"context"

	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	"evcast/backend/services/api-gateway/internal/clients"
	"evcast/backend/services/api-gateway/internal/config"
	httpserver "evcast/backend/services/api-gateway/internal/http"
	"evcast/backend/services/api-gateway/internal/http/handlers"
	"evcast/backend/services/api-gateway/internal/http/middleware"
)

// App wires API gateway dependencies.
type App struct {
	server *httpserver.Server
	logger *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	httpClient := clients.NewDefaultHTTPClient(cfg.HTTPTimeout())
	// Only validation is used here; TTLs belong to auth-service.
	tokens := auth.NewTokenService(cfg.JWT.Secret, 0, 0)

	authClient := clients.NewAuthClient(cfg.Services.AuthURL, httpClient)
	vehiclesClient := clients.NewServiceClient("vehicles", cfg.Services.VehiclesURL, httpClient)
	schedulingClient := clients.NewServiceClient("scheduling", cfg.Services.SchedulingURL, httpClient)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandlers:  handlers.NewAuthHandlers(authClient, logger),
		Vehicles:      handlers.NewProxyHandler(vehiclesClient, logger),
		Scheduling:    handlers.NewProxyHandler(schedulingClient, logger),
		HealthHandler: handlers.NewHealthHandler(),
	}, middleware.AuthMiddleware(tokens))

	server := httpserver.NewServer(
		cfg.HTTPAddress(),
		router,
		logger,
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources (none yet).
func (a *App) Close() {}
