package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/estimate"
)

func newEstimates(t *testing.T, history *memHistory) (*EstimateService, string) {
	t.Helper()
	vehicles := newMemVehicles()
	v, err := NewVehicleService(vehicles, testCatalog, zap.NewNop()).Create(context.Background(), owner, leafInput)
	require.NoError(t, err)

	svc := NewEstimateService(vehicles, history, estimate.NewEstimator(nil, zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 22, 15, 0, 0, time.UTC) }
	return svc, v.ID
}

func TestEstimateCostForSavedVehicle(t *testing.T) {
	svc, id := newEstimates(t, &memHistory{})

	out, err := svc.Cost(context.Background(), owner, CostRequest{VehicleID: id, RateKW: 7, DurationHours: 2, SoCStart: 20})
	require.NoError(t, err)
	assert.InDelta(t, 14.0, out.EnergyKWh, 1e-9)
	assert.InDelta(t, 3.5, out.RealisticCostUSD, 1e-9)

	_, err = svc.Cost(context.Background(), "bob@example.com", CostRequest{VehicleID: id})
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestEstimateRangeUsesVehicleProfile(t *testing.T) {
	svc, id := newEstimates(t, &memHistory{})

	out, err := svc.Range(context.Background(), owner, RangeRequest{VehicleID: id, SoCPercent: 100, RoadType: estimate.RoadCity})
	require.NoError(t, err)
	// 40 kWh / (0.1 * 1.06 * 1.2)
	assert.InDelta(t, 40/(0.1*1.06*1.2), out.DistanceKm, 1e-9)
	assert.Equal(t, 50.0, out.AvgSpeedKmh)
}

func TestEstimateDurationRecordsHistory(t *testing.T) {
	history := &memHistory{}
	svc, id := newEstimates(t, history)
	ctx := context.Background()

	out, err := svc.Duration(ctx, owner, DurationRequest{VehicleID: id, EnergyKWh: 14, RateKW: 7, SoCStart: 20, SoCEnd: 55})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out.Hours, 1e-9)
	assert.True(t, out.Recorded)
	assert.NotEmpty(t, out.RecordID)

	records, err := svc.History(ctx, owner, "Nissan Leaf")
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, time.Date(2024, 1, 2, 22, 15, 0, 0, time.UTC), rec.RecordedAt)
	assert.Equal(t, 2.0, rec.PredictedHours)
	assert.InDelta(t, 35.0, rec.Derived["total_charge_gained"], 1e-9)
	assert.Equal(t, 40.0, rec.BatteryKWh)

	none, err := svc.History(ctx, owner, "BMW i3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEstimateDurationSurvivesHistoryFailure(t *testing.T) {
	svc, id := newEstimates(t, &memHistory{failing: true})

	out, err := svc.Duration(context.Background(), owner, DurationRequest{VehicleID: id, EnergyKWh: 7, RateKW: 7, SoCStart: 10, SoCEnd: 30})
	require.NoError(t, err)
	assert.False(t, out.Recorded)
	assert.InDelta(t, 1.0, out.Hours, 1e-9)
}
