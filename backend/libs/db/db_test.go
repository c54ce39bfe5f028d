package db

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrdered(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	assert.Equal(t, "migrations/0001_users.sql", migrations[0].Name)
	assert.Equal(t, "migrations/0004_scheduled_charging.sql", migrations[3].Name)
	assert.True(t, strings.Contains(migrations[3].SQL, "scheduled_charging_station_slot_uq"))
}

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "scheduled_charging_owner_slot_uq"})
	name, ok := UniqueViolation(err)
	assert.True(t, ok)
	assert.Equal(t, "scheduled_charging_owner_slot_uq", name)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}

func TestNewPostgresDBRejectsEmptyDSN(t *testing.T) {
	_, err := NewPostgresDB("  ")
	assert.Error(t, err)
}
