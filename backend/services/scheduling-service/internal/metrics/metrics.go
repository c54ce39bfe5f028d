package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcomes used as label values.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeSlotTaken = "slot_taken"
	OutcomeError     = "error"
)

// Recorder exposes scheduling counters and latencies.
type Recorder struct {
	bookings    *prometheus.CounterVec
	transitions *prometheus.CounterVec
	optimize    *prometheus.CounterVec
	allocation  prometheus.Histogram
}

// NewRecorder registers scheduling metrics on reg. A nil reg uses the default
// registerer; collectors already registered are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	bookings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evcast",
		Subsystem: "scheduling",
		Name:      "bookings_total",
		Help:      "Booking attempts by outcome",
	}, []string{"outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evcast",
		Subsystem: "scheduling",
		Name:      "status_transitions_total",
		Help:      "Booking status changes by target status",
	}, []string{"status"})
	optimize := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evcast",
		Subsystem: "scheduling",
		Name:      "optimize_total",
		Help:      "Optimization runs by result",
	}, []string{"result"})
	allocation := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "evcast",
		Subsystem: "scheduling",
		Name:      "allocation_seconds",
		Help:      "Time spent scanning for a free slot",
		Buckets:   prometheus.DefBuckets,
	})

	var err error
	if bookings, err = register(reg, bookings); err != nil {
		return nil, err
	}
	if transitions, err = register(reg, transitions); err != nil {
		return nil, err
	}
	if optimize, err = register(reg, optimize); err != nil {
		return nil, err
	}
	if allocation, err = register(reg, allocation); err != nil {
		return nil, err
	}

	return &Recorder{
		bookings:    bookings,
		transitions: transitions,
		optimize:    optimize,
		allocation:  allocation,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Booking counts one booking attempt.
func (r *Recorder) Booking(outcome string) {
	if r == nil {
		return
	}
	r.bookings.WithLabelValues(outcome).Inc()
}

// Transition counts a status change.
func (r *Recorder) Transition(status string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(status).Inc()
}

// Optimize counts one optimization run.
func (r *Recorder) Optimize(result string) {
	if r == nil {
		return
	}
	r.optimize.WithLabelValues(result).Inc()
}

// Allocation observes allocation latency in seconds.
func (r *Recorder) Allocation(seconds float64) {
	if r == nil {
		return
	}
	r.allocation.Observe(seconds)
}
