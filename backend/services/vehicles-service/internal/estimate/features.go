package estimate

import (
	"math"

	"evcast/backend/libs/dataset"
)

// Model input column names, as in the charging-patterns dataset.
const (
	ColBatteryKWh    = "Battery Capacity (kWh)"
	ColEnergyKWh     = "Energy Consumed (kWh)"
	ColRateKW        = "Charging Rate (kW)"
	ColDurationHours = "Charging Duration (hours)"
	ColCostUSD       = "Charging Cost (USD)"
	ColTimeOfDay     = "Time of Day"
	ColDayOfWeek     = "Day of Week"
	ColSoCStart      = "State of Charge (Start %)"
	ColSoCEnd        = "State of Charge (End %)"
	ColDistanceKm    = "Distance Driven (since last charge) (km)"
	ColTemperatureC  = "Temperature (°C)"
	ColVehicleAge    = "Vehicle Age (years)"

	ColChargingEfficiency = "Charging Efficiency (kWh/h)"
	ColEnergyPerCharge    = "Energy per Charge %"
	ColDistancePerKWh     = "Distance per kWh"
	ColTotalChargeGained  = "Total Charge Gained"
	ColChargerEfficiency  = "Charger Efficiency"
	ColTempAdjConsumption = "Temperature Adjusted Consumption"
)

// minChargeDelta replaces a zero state-of-charge delta.
const minChargeDelta = 1e-6

// DefaultColumns is the column order the charging models were trained on.
var DefaultColumns = []string{
	ColBatteryKWh, ColEnergyKWh, ColRateKW, ColDurationHours, ColTimeOfDay, ColDayOfWeek,
	ColSoCStart, ColSoCEnd, ColDistanceKm, ColTemperatureC, ColVehicleAge,
	dataset.PrefixVehicleModel + "BMW i3", dataset.PrefixVehicleModel + "Chevy Bolt",
	dataset.PrefixVehicleModel + "Hyundai Kona", dataset.PrefixVehicleModel + "Nissan Leaf",
	dataset.PrefixVehicleModel + "Tesla Model 3",
	dataset.PrefixLocation + "Chicago", dataset.PrefixLocation + "Houston",
	dataset.PrefixLocation + "Los Angeles", dataset.PrefixLocation + "New York",
	dataset.PrefixLocation + "San Francisco",
	dataset.PrefixUserType + "Casual Driver", dataset.PrefixUserType + "Commuter",
	dataset.PrefixUserType + "Long-Distance Traveler",
	dataset.PrefixChargerType + "DC Fast Charger", dataset.PrefixChargerType + "Level 1",
	dataset.PrefixChargerType + "Level 2",
	ColChargingEfficiency, ColEnergyPerCharge, ColDistancePerKWh,
	ColTotalChargeGained, ColChargerEfficiency, ColTempAdjConsumption,
}

// Derived holds the engineered features computed from a session.
type Derived struct {
	ChargingEfficiency      float64 `json:"charging_efficiency"`
	EnergyPerCharge         float64 `json:"energy_per_charge"`
	DistancePerKWh          float64 `json:"distance_per_kwh"`
	TotalChargeGained       float64 `json:"total_charge_gained"`
	ChargerEfficiency       float64 `json:"charger_efficiency"`
	TempAdjustedConsumption float64 `json:"temperature_adjusted_consumption"`
}

// Map returns the derived features keyed by their JSON names.
func (d Derived) Map() map[string]float64 {
	return map[string]float64{
		"charging_efficiency":              d.ChargingEfficiency,
		"energy_per_charge":                d.EnergyPerCharge,
		"distance_per_kwh":                 d.DistancePerKWh,
		"total_charge_gained":              d.TotalChargeGained,
		"charger_efficiency":               d.ChargerEfficiency,
		"temperature_adjusted_consumption": d.TempAdjustedConsumption,
	}
}

// Features is one model input row before encoding.
type Features struct {
	BatteryKWh     float64
	EnergyKWh      float64
	ChargingRateKW float64
	DurationHours  float64
	CostUSD        float64
	TimeOfDay      float64
	DayOfWeek      float64
	SoCStart       float64
	SoCEnd         float64
	DistanceKm     float64
	TemperatureC   float64
	VehicleAge     float64

	VehicleModel string
	UserType     string
	ChargerType  string
	Location     string
}

// Derive computes the engineered features. A zero SoC delta counts as 1e-6.
func (f Features) Derive() Derived {
	delta := f.SoCEnd - f.SoCStart
	if delta == 0 {
		delta = minChargeDelta
	}
	d := Derived{
		EnergyPerCharge:         f.EnergyKWh / delta,
		TotalChargeGained:       delta,
		ChargerEfficiency:       f.ChargingRateKW / delta,
		TempAdjustedConsumption: f.EnergyKWh * (1 + math.Abs(f.TemperatureC-20)/20),
	}
	if f.ChargingRateKW != 0 {
		d.ChargingEfficiency = f.EnergyKWh / f.ChargingRateKW
	}
	if f.EnergyKWh != 0 {
		d.DistancePerKWh = f.DistanceKm / f.EnergyKWh
	}
	return d
}

// Vector encodes the features in the given column order. Categorical values become
// one-hot columns; columns the features do not know are zero.
func (f Features) Vector(columns []string) []float64 {
	values := f.values()
	oneHot := map[string]bool{
		dataset.PrefixVehicleModel + f.VehicleModel: f.VehicleModel != "",
		dataset.PrefixUserType + f.UserType:         f.UserType != "",
		dataset.PrefixChargerType + f.ChargerType:   f.ChargerType != "",
		dataset.PrefixLocation + f.Location:         f.Location != "",
	}

	out := make([]float64, len(columns))
	for i, col := range columns {
		if v, ok := values[col]; ok {
			out[i] = v
			continue
		}
		if oneHot[col] {
			out[i] = 1
		}
	}
	return out
}

func (f Features) values() map[string]float64 {
	d := f.Derive()
	return map[string]float64{
		ColBatteryKWh:         f.BatteryKWh,
		ColEnergyKWh:          f.EnergyKWh,
		ColRateKW:             f.ChargingRateKW,
		ColDurationHours:      f.DurationHours,
		ColCostUSD:            f.CostUSD,
		ColTimeOfDay:          f.TimeOfDay,
		ColDayOfWeek:          f.DayOfWeek,
		ColSoCStart:           f.SoCStart,
		ColSoCEnd:             f.SoCEnd,
		ColDistanceKm:         f.DistanceKm,
		ColTemperatureC:       f.TemperatureC,
		ColVehicleAge:         f.VehicleAge,
		ColChargingEfficiency: d.ChargingEfficiency,
		ColEnergyPerCharge:    d.EnergyPerCharge,
		ColDistancePerKWh:     d.DistancePerKWh,
		ColTotalChargeGained:  d.TotalChargeGained,
		ColChargerEfficiency:  d.ChargerEfficiency,
		ColTempAdjConsumption: d.TempAdjustedConsumption,
	}
}
