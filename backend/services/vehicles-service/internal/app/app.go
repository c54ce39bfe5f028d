package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "evcast/backend/libs/db"
	libredis "evcast/backend/libs/redis"
	"evcast/backend/services/vehicles-service/internal/catalog"
	"evcast/backend/services/vehicles-service/internal/config"
	"evcast/backend/services/vehicles-service/internal/estimate"
	httpserver "evcast/backend/services/vehicles-service/internal/http"
	"evcast/backend/services/vehicles-service/internal/http/handlers"
	"evcast/backend/services/vehicles-service/internal/repository"
	"evcast/backend/services/vehicles-service/internal/service"
)

// App wires vehicles service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var source catalog.Source = catalog.NewLoader(cfg.Data.ChargingPatternsCSV)
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
		source = catalog.NewCache(redisClient, source, cfg.Redis.CatalogTTL, logger)
	} else {
		logger.Info("redis not configured, catalog cache disabled")
	}

	var opts []estimate.Option
	if cfg.Models.CostURL != "" {
		opts = append(opts, estimate.WithCostModel(estimate.NewModelClient(cfg.Models.CostURL, cfg.Models.Columns, cfg.Models.Timeout)))
	}
	if cfg.Models.DurationURL != "" {
		opts = append(opts, estimate.WithDurationModel(estimate.NewModelClient(cfg.Models.DurationURL, cfg.Models.Columns, cfg.Models.Timeout)))
	}
	if cfg.WeatherEnabled() {
		opts = append(opts, estimate.WithTemperatureSource(estimate.NewWeatherClient(estimate.WeatherOptions{
			URL:       cfg.Weather.URL,
			APIKey:    cfg.Weather.APIKey,
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
			TTL:       cfg.Weather.TTL,
			Timeout:   cfg.Models.Timeout,
		})))
	} else {
		logger.Info("weather not configured, using default temperature")
	}
	tariffs := estimate.NewTariffs(map[string]float64{
		estimate.ChargerLevel1: 0.15,
		estimate.ChargerLevel2: 0.25,
		estimate.ChargerDCFast: 0.55,
	}, cfg.Tariffs.DefaultPricePerKWh)
	estimator := estimate.NewEstimator(tariffs, logger, opts...)

	vehicles := repository.NewVehicleRepository(sqlDB)
	vehicleService := service.NewVehicleService(vehicles, source, logger)
	estimateService := service.NewEstimateService(vehicles, repository.NewHistoryRepository(sqlDB), estimator, logger)

	routes := httpserver.Routes{
		Vehicles:  handlers.NewVehiclesHandler(vehicleService, logger),
		Estimates: handlers.NewEstimatesHandler(estimateService, logger),
		Health:    handlers.NewHealthHandler(),
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
