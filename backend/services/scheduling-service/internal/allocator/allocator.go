// Package allocator finds the first free, cheapest station slot starting from an hour.
package allocator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evcast/backend/services/scheduling-service/internal/costtable"
	"evcast/backend/services/scheduling-service/internal/models"
)

// ErrNoSlotAvailable is returned when every (location, hour) pair of the day is taken.
var ErrNoSlotAvailable = errors.New("allocator: no location available at any hour")

// SlotChecker reports whether no other booking occupies a station slot.
type SlotChecker interface {
	IsSlotFree(ctx context.Context, location, date string, hour int) (bool, error)
}

// SlotCheckerFunc adapts a function to SlotChecker.
type SlotCheckerFunc func(ctx context.Context, location, date string, hour int) (bool, error)

// IsSlotFree calls f.
func (f SlotCheckerFunc) IsSlotFree(ctx context.Context, location, date string, hour int) (bool, error) {
	return f(ctx, location, date, hour)
}

// Request describes one allocation.
type Request struct {
	OptimalHour int
	Date        string
	// UserBookings are the user's non-cancelled bookings; their slots are skipped.
	UserBookings []models.Booking
	// Exclude lists slots lost to concurrent writers in earlier attempts.
	Exclude []models.Slot
}

// Result is the chosen slot.
type Result struct {
	Location string  `json:"location"`
	Date     string  `json:"date"`
	Hour     int     `json:"hour"`
	Cost     float64 `json:"cost"`
	Visited  []int   `json:"visited"`
}

// TargetDate is today when now is before hour, otherwise tomorrow.
func TargetDate(now time.Time, hour int) string {
	if now.Hour() < hour {
		return now.Format(models.DateLayout)
	}
	return now.AddDate(0, 0, 1).Format(models.DateLayout)
}

// Allocate scans 24 hours from req.OptimalHour, wrapping at midnight, and returns the
// first hour with a free location, cheapest location first.
func Allocate(ctx context.Context, req Request, table *costtable.Table, checker SlotChecker) (Result, error) {
	if req.OptimalHour < 0 || req.OptimalHour > 23 {
		return Result{}, fmt.Errorf("allocator: optimal hour %d out of range", req.OptimalHour)
	}

	skip := make(map[models.Slot]struct{}, len(req.UserBookings)+len(req.Exclude))
	for _, b := range req.UserBookings {
		if b.Date == req.Date && b.Status.Active() {
			skip[b.Slot()] = struct{}{}
		}
	}
	for _, s := range req.Exclude {
		skip[s] = struct{}{}
	}

	ranked := table.Ranked()
	visited := make([]int, 0, 24)
	for offset := 0; offset < 24; offset++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		hour := (req.OptimalHour + offset) % 24
		visited = append(visited, hour)

		for _, entry := range ranked {
			slot := models.Slot{Location: entry.Location, Date: req.Date, Hour: hour}
			if _, ok := skip[slot]; ok {
				continue
			}
			free, err := checker.IsSlotFree(ctx, entry.Location, req.Date, hour)
			if err != nil {
				return Result{}, fmt.Errorf("check slot %s: %w", slot.Key(), err)
			}
			if free {
				return Result{
					Location: entry.Location,
					Date:     req.Date,
					Hour:     hour,
					Cost:     entry.MeanCost,
					Visited:  visited,
				}, nil
			}
		}
	}
	return Result{Visited: visited}, ErrNoSlotAvailable
}
