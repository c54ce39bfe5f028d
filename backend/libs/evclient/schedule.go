package evclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Booking statuses.
const (
	StatusScheduled = "programata"
	StatusConfirmed = "confirmat"
	StatusCancelled = "anulata"
)

// Booking is a scheduled charging.
type Booking struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	VehicleModel string    `json:"vehicle_model"`
	Date         string    `json:"date"`
	Hour         int       `json:"hour"`
	Location     string    `json:"location"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TimeSlot renders the hour as "HH:00".
func (b Booking) TimeSlot() string {
	return fmt.Sprintf("%02d:00", b.Hour)
}

// Pattern summarises a user's charging hours for one vehicle.
type Pattern struct {
	Frequency      [24]int `json:"frequency"`
	Total          int     `json:"total"`
	PeakSessions   int     `json:"peak_sessions"`
	PeakPercentage float64 `json:"peak_percentage"`
	OptimalHour    int     `json:"optimal_hour"`
	Discarded      int     `json:"discarded"`
}

// Allocation is the slot the allocator settled on.
type Allocation struct {
	Location string  `json:"location"`
	Date     string  `json:"date"`
	Hour     int     `json:"hour"`
	Cost     float64 `json:"cost"`
	Visited  []int   `json:"visited"`
}

// OptimizeResult is the outcome of an automatic booking.
type OptimizeResult struct {
	Booking    *Booking   `json:"booking"`
	Pattern    Pattern    `json:"pattern"`
	Allocation Allocation `json:"allocation"`
	Attempts   int        `json:"attempts"`
}

// CostEntry is one row of the location cost table.
type CostEntry struct {
	Location string  `json:"location"`
	MeanCost float64 `json:"mean_cost"`
	Sessions int     `json:"sessions"`
}

// Slot identifies a station slot.
type Slot struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Hour     int    `json:"hour"`
}

// StationView lists active bookings for a station slot.
type StationView struct {
	Slot     Slot      `json:"slot"`
	TimeSlot string    `json:"time_slot"`
	Free     bool      `json:"free"`
	Bookings []Booking `json:"bookings"`
}

// ScheduleRequest books an explicit slot.
type ScheduleRequest struct {
	VehicleModel string `json:"vehicle_model"`
	Date         string `json:"date"`
	Hour         int    `json:"hour"`
	Location     string `json:"location"`
}

// Optimize books the cheapest free slot from the vehicle's optimal hour onwards.
func (c *Client) Optimize(ctx context.Context, vehicleModel string) (*OptimizeResult, error) {
	var res OptimizeResult
	err := c.authorized(ctx, http.MethodPost, "/api/schedule/optimize", map[string]string{"vehicle_model": vehicleModel}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Schedule books the given slot.
func (c *Client) Schedule(ctx context.Context, req ScheduleRequest) (*Booking, error) {
	var b Booking
	if err := c.authorized(ctx, http.MethodPost, "/api/schedule/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Bookings lists the caller's bookings, optionally for one vehicle model.
func (c *Client) Bookings(ctx context.Context, vehicleModel string) ([]Booking, error) {
	var res struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/schedule/bookings"+modelQuery(vehicleModel), nil, &res); err != nil {
		return nil, err
	}
	return res.Bookings, nil
}

// Confirm moves a scheduled booking to confirmed.
func (c *Client) Confirm(ctx context.Context, id string) (*Booking, error) {
	return c.transition(ctx, id, "confirm")
}

// Cancel cancels a booking and frees its slot.
func (c *Client) Cancel(ctx context.Context, id string) (*Booking, error) {
	return c.transition(ctx, id, "cancel")
}

func (c *Client) transition(ctx context.Context, id, action string) (*Booking, error) {
	var b Booking
	path := "/api/schedule/bookings/" + url.PathEscape(id) + "/" + action
	if err := c.authorized(ctx, http.MethodPost, path, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Pattern returns the charging-hour pattern for a vehicle model.
func (c *Client) Pattern(ctx context.Context, vehicleModel string) (*Pattern, error) {
	var p Pattern
	if err := c.authorized(ctx, http.MethodGet, "/api/schedule/pattern"+modelQuery(vehicleModel), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Costs returns the location cost table, cheapest first.
func (c *Client) Costs(ctx context.Context) ([]CostEntry, error) {
	var res struct {
		Locations []CostEntry `json:"locations"`
	}
	if err := c.authorized(ctx, http.MethodGet, "/api/schedule/costs", nil, &res); err != nil {
		return nil, err
	}
	return res.Locations, nil
}

// StationSlot reports whether a station slot is free and who holds it.
func (c *Client) StationSlot(ctx context.Context, location, date string, hour int) (*StationView, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("hour", strconv.Itoa(hour))
	path := "/api/schedule/stations/" + url.PathEscape(location) + "/slots?" + q.Encode()

	var view StationView
	if err := c.authorized(ctx, http.MethodGet, path, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func modelQuery(vehicleModel string) string {
	if vehicleModel == "" {
		return ""
	}
	return "?" + url.Values{"vehicle_model": {vehicleModel}}.Encode()
}
