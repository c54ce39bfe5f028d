package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evcast/backend/services/scheduling-service/internal/models"
	"evcast/backend/services/scheduling-service/internal/pattern"
)

type fakeHistory struct {
	email, model string
	sessions     []models.ChargingSession
}

func (f *fakeHistory) ListSessions(_ context.Context, email, model string) ([]models.ChargingSession, error) {
	f.email, f.model = email, model
	return f.sessions, nil
}

// testDeps never touches a real database: sql.Open is lazy.
func testDeps(history *fakeHistory, migrate func(context.Context, *sql.DB) ([]string, error)) Deps {
	return Deps{
		Logger:  zap.NewNop(),
		OpenDB:  func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) },
		Migrate: migrate,
		History: func(*sql.DB) SessionLister { return history },
	}
}

func run(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SCHEDULING_POSTGRES_DSN", "")
	t.Setenv("SCHEDULING_TIME_ZONE", "")
	var out bytes.Buffer
	root := NewRootCommand(deps)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCostsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.csv")
	csv := "Charging Cost (USD),Charging Station Location_Houston,Charging Station Location_Los Angeles\n" +
		"10,1,0\n14,1,0\n5,0,1\n7,0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := run(t, testDeps(nil, nil), "costs", "--csv", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"1", "Los", "Angeles", "6.00", "2"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "Houston", "12.00", "2"}, strings.Fields(lines[2]))

	_, err = run(t, testDeps(nil, nil), "costs", "--csv", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestMigrateCommand(t *testing.T) {
	_, err := run(t, testDeps(nil, nil), "migrate")
	assert.ErrorIs(t, err, errDSNRequired)

	migrate := func(context.Context, *sql.DB) ([]string, error) {
		return []string{"migrations/0001_users.sql", "migrations/0002_vehicles.sql"}, errors.New("apply 0003: boom")
	}
	out, err := run(t, testDeps(nil, migrate), "migrate", "--dsn", "postgres://localhost/evcast", "--timeout", "1s")
	assert.ErrorContains(t, err, "boom")
	assert.Contains(t, out, "applied migrations/0001_users.sql")
	assert.Contains(t, out, "applied migrations/0002_vehicles.sql")
}

func TestOptimalHourCommand(t *testing.T) {
	at := func(hour int) models.ChargingSession {
		return models.ChargingSession{Timestamp: time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC)}
	}
	history := &fakeHistory{sessions: []models.ChargingSession{at(22), at(22), at(23), at(9), {}}}

	out, err := run(t, testDeps(history, nil), "optimal-hour", "--dsn", "postgres://localhost/evcast", "--email", " Ana@Example.com", "--model", "Tesla Model 3")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", history.email)
	assert.Equal(t, "Tesla Model 3", history.model)
	assert.Contains(t, out, "sessions: 4 (discarded 1)")
	assert.Contains(t, out, "optimal hour: 23:00")
	assert.Contains(t, out, "22:00 ## 2")

	history.sessions = nil
	_, err = run(t, testDeps(history, nil), "optimal-hour", "--dsn", "postgres://x", "--email", "a@b.c", "--model", "Leaf")
	assert.ErrorIs(t, err, pattern.ErrInsufficientData)

	_, err = run(t, testDeps(history, nil), "optimal-hour", "--dsn", "postgres://x")
	assert.ErrorContains(t, err, "required flag")
}

func TestOptimalHourCommandZone(t *testing.T) {
	at := func(hour int) models.ChargingSession {
		return models.ChargingSession{Timestamp: time.Date(2024, 1, 10, hour, 0, 0, 0, time.UTC)}
	}
	// 00:00, 00:00, 01:00 and 11:00 in Bucharest
	history := &fakeHistory{sessions: []models.ChargingSession{at(22), at(22), at(23), at(9)}}
	args := []string{"optimal-hour", "--dsn", "postgres://x", "--email", "a@b.c", "--model", "Leaf"}

	out, err := run(t, testDeps(history, nil), append(args, "--tz", "Europe/Bucharest")...)
	require.NoError(t, err)
	assert.Contains(t, out, "optimal hour: 01:00")
	assert.Contains(t, out, "00:00 ## 2")

	_, err = run(t, testDeps(history, nil), append(args, "--tz", "Mars/Olympus")...)
	assert.ErrorContains(t, err, "Mars/Olympus")
}
