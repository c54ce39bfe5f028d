package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"evcast/backend/services/scheduling-service/internal/costtable"
	"evcast/backend/services/scheduling-service/internal/models"
	redisstore "evcast/backend/services/scheduling-service/internal/redis"
	"evcast/backend/services/scheduling-service/internal/repository"
)

// memStore keeps bookings in memory and enforces the same exclusivity rules as the
// scheduled_charging partial unique indexes.
type memStore struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*models.Booking
	// stolen slots are reported free but fail on insert, as if another writer won the race.
	stolen map[models.Slot]bool
}

func newMemStore() *memStore {
	return &memStore{bookings: make(map[string]*models.Booking), stolen: make(map[models.Slot]bool)}
}

func (m *memStore) Create(_ context.Context, b *models.Booking) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stolen[b.Slot()] {
		return nil, repository.ErrSlotTaken
	}
	for _, existing := range m.bookings {
		if existing.Status == models.StatusScheduled && b.Status == models.StatusScheduled &&
			existing.UserEmail == b.UserEmail && existing.VehicleModel == b.VehicleModel &&
			existing.Date == b.Date && existing.Hour == b.Hour {
			return nil, repository.ErrDuplicateBooking
		}
		if existing.Status.Active() && existing.Slot() == b.Slot() {
			return nil, repository.ErrSlotTaken
		}
	}
	m.seq++
	stored := *b
	stored.ID = fmt.Sprintf("b-%d", m.seq)
	stored.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.bookings[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, from, to models.Status) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return nil, repository.ErrStatusChanged
	}
	b.Status = to
	out := *b
	return &out, nil
}

func (m *memStore) HasPending(_ context.Context, userEmail, vehicleModel, date string, hour int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Status == models.StatusScheduled && b.UserEmail == userEmail && b.VehicleModel == vehicleModel &&
			b.Date == date && b.Hour == hour {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListByOwner(_ context.Context, userEmail, vehicleModel string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserEmail == userEmail && (vehicleModel == "" || b.VehicleModel == vehicleModel) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) Bookings(_ context.Context, location, date string, hour int) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Slot() == (models.Slot{Location: location, Date: date, Hour: hour}) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) IsSlotFree(_ context.Context, location, date string, hour int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot := models.Slot{Location: location, Date: date, Hour: hour}
	for _, b := range m.bookings {
		if b.Status.Active() && b.Slot() == slot {
			return false, nil
		}
	}
	return true, nil
}

// put stores a booking as-is, bypassing the exclusivity checks.
func (m *memStore) put(b models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = &b
}

type memHistory map[string][]models.ChargingSession

func (h memHistory) ListSessions(_ context.Context, userEmail, vehicleModel string) ([]models.ChargingSession, error) {
	return h[userEmail+"|"+vehicleModel], nil
}

type staticCosts struct {
	costs map[string]float64
	err   error
}

func (c staticCosts) Load() (*costtable.Table, error) {
	if c.err != nil {
		return nil, c.err
	}
	return costtable.FromCosts(c.costs), nil
}

type recordedEvent struct {
	Type    string
	Booking models.Booking
}

type eventLog struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (l *eventLog) Publish(eventType string, b models.Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, recordedEvent{Type: eventType, Booking: b})
}

func (l *eventLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Type)
	}
	return out
}

type heldSlots struct {
	held     map[models.Slot]bool
	released int
}

func (h *heldSlots) Acquire(_ context.Context, slot models.Slot) (func(context.Context) error, error) {
	if h.held[slot] {
		return nil, redisstore.ErrSlotHeld
	}
	return func(context.Context) error {
		h.released++
		return nil
	}, nil
}
