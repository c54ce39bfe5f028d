package models

import "time"

// ChargingSession is one historical charging record of a user's vehicle.
// A zero Timestamp means the stored timestamp was missing or unparseable.
type ChargingSession struct {
	ID             string    `db:"id" json:"id"`
	UserEmail      string    `db:"user_email" json:"user_email"`
	VehicleModel   string    `db:"vehicle_model" json:"vehicle_model"`
	Timestamp      time.Time `db:"recorded_at" json:"timestamp"`
	EnergyKWh      float64   `db:"energy_kwh" json:"energy_kwh"`
	ChargingRateKW float64   `db:"charging_rate_kw" json:"charging_rate_kw"`
	CostUSD        float64   `db:"cost_usd" json:"cost_usd"`
	SoCStart       float64   `db:"soc_start" json:"soc_start"`
	SoCEnd         float64   `db:"soc_end" json:"soc_end"`
	DistanceKM     float64   `db:"distance_km" json:"distance_km"`
}
