package models

import "time"

// ChargingRecord is one recorded charging estimate in a user's history.
type ChargingRecord struct {
	ID             string             `db:"id" json:"id"`
	UserEmail      string             `db:"user_email" json:"user_email"`
	VehicleModel   string             `db:"vehicle_model" json:"vehicle_model"`
	RecordedAt     time.Time          `db:"recorded_at" json:"recorded_at"`
	EnergyKWh      float64            `db:"energy_kwh" json:"energy_kwh"`
	ChargingRateKW float64            `db:"charging_rate_kw" json:"charging_rate_kw"`
	CostUSD        float64            `db:"cost_usd" json:"cost_usd"`
	SoCStart       float64            `db:"soc_start" json:"soc_start"`
	SoCEnd         float64            `db:"soc_end" json:"soc_end"`
	DistanceKm     float64            `db:"distance_km" json:"distance_km"`
	TemperatureC   float64            `db:"temperature_c" json:"temperature_c"`
	BatteryKWh     float64            `db:"battery_kwh" json:"battery_kwh"`
	VehicleAge     float64            `db:"vehicle_age_years" json:"vehicle_age_years"`
	PredictedHours float64            `db:"predicted_hours" json:"predicted_hours"`
	Derived        map[string]float64 `db:"derived" json:"derived"`
}
