// Package cli implements evcastctl, the operator tool for the scheduling data.
package cli

import (
	"context"
	"database/sql"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	libdb "evcast/backend/libs/db"
	"evcast/backend/services/scheduling-service/internal/models"
	"evcast/backend/services/scheduling-service/internal/repository"
)

// SessionLister reads a user's charging history for one vehicle model.
type SessionLister interface {
	ListSessions(ctx context.Context, userEmail, vehicleModel string) ([]models.ChargingSession, error)
}

// Deps are the side effects the commands need. Tests replace them.
type Deps struct {
	Logger *zap.Logger
	// OpenDB opens a Postgres pool for dsn.
	OpenDB func(dsn string) (*sql.DB, error)
	// Migrate applies the embedded schema.
	Migrate func(ctx context.Context, db *sql.DB) ([]string, error)
	// History builds the history reader over an open pool.
	History func(db *sql.DB) SessionLister
}

// DefaultDeps wires the real Postgres implementations.
func DefaultDeps(logger *zap.Logger) Deps {
	return Deps{
		Logger:  logger,
		OpenDB:  libdb.NewPostgresDB,
		Migrate: libdb.Migrate,
		History: func(db *sql.DB) SessionLister { return repository.NewHistoryRepository(db) },
	}
}

// NewRootCommand builds the evcastctl command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "evcastctl",
		Short:         "EVcast scheduling operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newMigrateCmd(deps),
		newCostsCmd(),
		newOptimalHourCmd(deps),
	)
	return root
}

// dsnFlag registers --dsn defaulting to $SCHEDULING_POSTGRES_DSN.
func dsnFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "dsn", os.Getenv("SCHEDULING_POSTGRES_DSN"), "postgres connection string")
}
