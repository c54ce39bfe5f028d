package pattern

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evcast/backend/services/scheduling-service/internal/models"
)

func at(hour int) models.ChargingSession {
	return models.ChargingSession{Timestamp: time.Date(2024, 1, 1, hour, 15, 0, 0, time.UTC)}
}

func TestAnalyzeEmpty(t *testing.T) {
	_, err := Analyze(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Analyze([]models.ChargingSession{{}, {}}, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnalyzeDefaultsTo22WithoutOffPeak(t *testing.T) {
	p, err := Analyze([]models.ChargingSession{at(9), at(12), at(7), at(20)}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptimalHour, p.OptimalHour)
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 3, p.PeakSessions)
	assert.InDelta(t, 75, p.PeakPercentage, 1e-9)
}

func TestAnalyzePicksLeastUsedOffPeakHour(t *testing.T) {
	p, err := Analyze([]models.ChargingSession{
		at(22), at(22), at(23), at(23), at(2), at(2), at(1), at(10), {},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, p.OptimalHour)
	assert.Equal(t, 8, p.Total)
	assert.Equal(t, 1, p.Discarded)
	assert.Equal(t, 2, p.Frequency[22])
}

func TestAnalyzeTieGoesToLowestHour(t *testing.T) {
	p, err := Analyze([]models.ChargingSession{at(23), at(3), at(21)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, p.OptimalHour)
}

func TestPeakPercentageBounds(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		p, err := Analyze([]models.ChargingSession{at(hour), at((hour + 5) % 24)}, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.PeakPercentage, 0.0)
		assert.LessOrEqual(t, p.PeakPercentage, 100.0)
	}
}

func TestPartition(t *testing.T) {
	assert.False(t, IsPeak(7))
	assert.False(t, IsOffPeak(7))
	assert.True(t, IsPeak(8))
	assert.True(t, IsPeak(20))
	assert.True(t, IsOffPeak(21))
	assert.True(t, IsOffPeak(0))
	assert.True(t, IsOffPeak(6))
}

func TestAnalyzeReadsHoursInZone(t *testing.T) {
	bucharest, err := time.LoadLocation("Europe/Bucharest")
	require.NoError(t, err)

	// 21:00Z and 17:00Z are 23:00 and 19:00 in Bucharest in winter.
	sessions := []models.ChargingSession{
		{Timestamp: time.Date(2024, 1, 10, 21, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)},
	}

	p, err := Analyze(sessions, bucharest)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Frequency[23])
	assert.Equal(t, 1, p.Frequency[19])
	assert.Zero(t, p.Frequency[21])
	assert.Equal(t, 23, p.OptimalHour)
	assert.InDelta(t, 50, p.PeakPercentage, 1e-9)

	utc, err := Analyze(sessions, nil)
	require.NoError(t, err)
	assert.Equal(t, 21, utc.OptimalHour)
}
