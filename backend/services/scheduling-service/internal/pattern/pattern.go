// Package pattern summarises when a user usually charges a vehicle.
package pattern

import (
	"errors"
	"time"

	"evcast/backend/services/scheduling-service/internal/models"
)

// DefaultOptimalHour is used when the history has no off-peak sessions.
const DefaultOptimalHour = 22

// ErrInsufficientData is returned when no session carries a timestamp.
var ErrInsufficientData = errors.New("pattern: insufficient charging history")

// Pattern is the hour-of-day breakdown of a charging history.
type Pattern struct {
	Frequency      [24]int `json:"frequency"`
	Total          int     `json:"total"`
	PeakSessions   int     `json:"peak_sessions"`
	PeakPercentage float64 `json:"peak_percentage"`
	OptimalHour    int     `json:"optimal_hour"`
	Discarded      int     `json:"discarded"`
}

// IsPeak reports whether hour falls in 08:00-20:59.
func IsPeak(hour int) bool {
	return hour >= 8 && hour <= 20
}

// IsOffPeak reports whether hour falls in 21:00-06:59.
// Hour 7 is neither peak nor off-peak.
func IsOffPeak(hour int) bool {
	return hour >= 21 || (hour >= 0 && hour <= 6)
}

// Analyze builds the pattern for sessions, dropping ones without a timestamp.
// Hours are read in loc, the zone bookings are made in. A nil loc means UTC.
func Analyze(sessions []models.ChargingSession, loc *time.Location) (Pattern, error) {
	if loc == nil {
		loc = time.UTC
	}
	var p Pattern
	for _, s := range sessions {
		if s.Timestamp.IsZero() {
			p.Discarded++
			continue
		}
		hour := s.Timestamp.In(loc).Hour()
		p.Frequency[hour]++
		p.Total++
		if IsPeak(hour) {
			p.PeakSessions++
		}
	}
	if p.Total == 0 {
		return Pattern{}, ErrInsufficientData
	}

	p.PeakPercentage = float64(p.PeakSessions) / float64(p.Total) * 100
	p.OptimalHour = optimalHour(p.Frequency)
	return p, nil
}

// optimalHour picks the least used off-peak hour seen in the history,
// lowest hour value on ties.
func optimalHour(freq [24]int) int {
	best, bestCount := -1, 0
	for hour := 0; hour < 24; hour++ {
		count := freq[hour]
		if count == 0 || !IsOffPeak(hour) {
			continue
		}
		if best == -1 || count < bestCount {
			best, bestCount = hour, count
		}
	}
	if best == -1 {
		return DefaultOptimalHour
	}
	return best
}
