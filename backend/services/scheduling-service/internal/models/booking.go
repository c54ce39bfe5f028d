package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used on the wire and in keys.
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a scheduled charging.
type Status string

// Booking statuses, stored verbatim.
const (
	StatusScheduled Status = "programata"
	StatusConfirmed Status = "confirmat"
	StatusCancelled Status = "anulata"
)

// Active reports whether the booking still occupies its station slot.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Booking is a scheduled charging owned by a (user, vehicle model) pair.
type Booking struct {
	ID           string    `db:"id" json:"id"`
	UserEmail    string    `db:"user_email" json:"user_email"`
	VehicleModel string    `db:"vehicle_model" json:"vehicle_model"`
	Date         string    `db:"slot_date" json:"date"`
	Hour         int       `db:"slot_hour" json:"hour"`
	Location     string    `db:"location" json:"location"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TimeSlot renders the hour as "HH:00".
func (b Booking) TimeSlot() string {
	return FormatTimeSlot(b.Hour)
}

// Slot returns the station slot the booking occupies.
func (b Booking) Slot() Slot {
	return Slot{Location: b.Location, Date: b.Date, Hour: b.Hour}
}

// Slot is the (location, date, hour) unit of booking exclusivity.
type Slot struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Hour     int    `json:"hour"`
}

// Key renders the slot as a path-like key.
func (s Slot) Key() string {
	return fmt.Sprintf("%s/%s/%02d", s.Location, s.Date, s.Hour)
}

// FormatTimeSlot renders an hour as "HH:00".
func FormatTimeSlot(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ParseTimeSlot accepts "22", "22:00" or "7:00" and returns the hour.
func ParseTimeSlot(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if h, m, ok := strings.Cut(raw, ":"); ok {
		if m != "00" {
			return 0, fmt.Errorf("time slot %q must be on the hour", raw)
		}
		raw = h
	}
	hour, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q", raw)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("time slot hour %d out of range", hour)
	}
	return hour, nil
}

// ParseDate validates a "YYYY-MM-DD" calendar day.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(raw))
}
