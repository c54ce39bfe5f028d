package ws

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"evcast/backend/services/scheduling-service/internal/models"
)

// Event types pushed to front-ends.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// Event is one booking lifecycle notification.
type Event struct {
	Type    string         `json:"type"`
	Booking models.Booking `json:"booking"`
	SentAt  time.Time      `json:"sent_at"`
}

// Hub tracks user connections and fans events out per user.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]map[*Connection]struct{}
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		byUser: make(map[string]map[*Connection]struct{}),
		logger: logger,
	}
}

// Add registers a connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.byUser[conn.UserEmail()]
	if !ok {
		conns = make(map[*Connection]struct{})
		h.byUser[conn.UserEmail()] = conns
	}
	conns[conn] = struct{}{}
}

// Remove unregisters a connection.
func (h *Hub) Remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.byUser[conn.UserEmail()]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.byUser, conn.UserEmail())
	}
}

// ConnectionCount returns the number of open connections of a user.
func (h *Hub) ConnectionCount(email string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[strings.ToLower(email)])
}

// Publish sends an event to every connection of the booking owner.
func (h *Hub) Publish(eventType string, booking models.Booking) {
	data, err := json.Marshal(Event{Type: eventType, Booking: booking, SentAt: time.Now().UTC()})
	if err != nil {
		h.logger.Warn("failed to encode booking event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.byUser[strings.ToLower(booking.UserEmail)] {
		conn.Send(data)
	}
}
