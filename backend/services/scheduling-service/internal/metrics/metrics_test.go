package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.Booking(OutcomeCreated)
	rec.Booking(OutcomeCreated)
	rec.Booking(OutcomeDuplicate)
	rec.Allocation(0.01)

	expected := `
# HELP evcast_scheduling_bookings_total Booking attempts by outcome
# TYPE evcast_scheduling_bookings_total counter
evcast_scheduling_bookings_total{outcome="created"} 2
evcast_scheduling_bookings_total{outcome="duplicate"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(rec.bookings, strings.NewReader(expected)))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.allocation))
}

func TestRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.Transition("confirmat")
	second.Transition("confirmat")
	assert.InDelta(t, 2, testutil.ToFloat64(second.transitions.WithLabelValues("confirmat")), 1e-9)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Booking(OutcomeError)
		rec.Optimize("ok")
		rec.Allocation(1)
	})
}
