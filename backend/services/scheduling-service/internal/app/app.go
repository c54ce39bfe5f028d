package app

import (
	"context"
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evcast/backend/libs/auth"
	libdb "evcast/backend/libs/db"
	libredis "evcast/backend/libs/redis"
	"evcast/backend/services/scheduling-service/internal/config"
	"evcast/backend/services/scheduling-service/internal/costtable"
	httpserver "evcast/backend/services/scheduling-service/internal/http"
	"evcast/backend/services/scheduling-service/internal/http/handlers"
	"evcast/backend/services/scheduling-service/internal/metrics"
	redisstore "evcast/backend/services/scheduling-service/internal/redis"
	"evcast/backend/services/scheduling-service/internal/repository"
	"evcast/backend/services/scheduling-service/internal/service"
	"evcast/backend/services/scheduling-service/internal/ws"
)

// App wires scheduling-service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	hub := ws.NewHub(logger)
	opts := []service.Option{
		service.WithEvents(hub),
		service.WithMetrics(recorder),
		service.WithLocation(loc),
		service.WithOptimizeAttempts(cfg.Scheduling.OptimizeAttempts),
	}

	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = libredis.NewRedisClient(libredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		opts = append(opts, service.WithSlotHolder(redisstore.NewSlotHolds(redisClient, cfg.SlotHoldTTL())))
	} else {
		logger.Info("redis not configured, slot holds disabled")
	}

	stations := repository.NewStationRepository(sqlDB)
	schedulingService := service.NewSchedulingService(
		repository.NewBookingRepository(sqlDB),
		stations,
		repository.NewHistoryRepository(sqlDB),
		costtable.NewLoader(cfg.Data.ChargingPatternsCSV),
		logger,
		opts...,
	)

	tokens := auth.NewTokenService(cfg.JWT.Secret, 0, 0)
	stream := ws.NewServer(hub, tokens, cfg.WebSocket.WriteTimeout, logger)

	routes := httpserver.Routes{
		Bookings: handlers.NewBookingsHandler(schedulingService, logger),
		Stream:   stream.HandleWS,
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Health:   handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(routes)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
