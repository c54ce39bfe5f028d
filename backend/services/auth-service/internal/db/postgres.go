package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	libdb "evcast/backend/libs/db"
)

const migrateTimeout = 30 * time.Second

// NewPostgres connects to Postgres and, when migrate is set, applies the shared schema.
func NewPostgres(ctx context.Context, dsn string, migrate bool, logger *zap.Logger) (*sql.DB, error) {
	sqlDB, err := libdb.NewPostgresDB(dsn)
	if err != nil {
		return nil, err
	}
	if !migrate {
		return sqlDB, nil
	}

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	applied, err := libdb.Migrate(ctx, sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("schema migrated", zap.Strings("migrations", applied))
	return sqlDB, nil
}
