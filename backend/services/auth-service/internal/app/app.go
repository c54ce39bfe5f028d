package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	appconfig "evcast/backend/services/auth-service/internal/config"
	"evcast/backend/services/auth-service/internal/db"
	"evcast/backend/services/auth-service/internal/http"
	"evcast/backend/services/auth-service/internal/http/handlers"
	"evcast/backend/services/auth-service/internal/password"
	"evcast/backend/services/auth-service/internal/repository"
	"evcast/backend/services/auth-service/internal/service"
)

// App wires dependencies for the auth service.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN, cfg.Database.Migrate, logger)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	hasher := password.NewBcryptHasher(cfg.Password.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authSvc := service.NewAuthService(userRepo, hasher, tokens, logger)

	routes := httpserver.Routes{
		Signup:  handlers.NewSignupHandler(authSvc, logger),
		Login:   handlers.NewLoginHandler(authSvc, logger),
		Refresh: handlers.NewRefreshHandler(authSvc, logger),
		Health:  handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
