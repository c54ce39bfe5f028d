package estimate

import "strings"

// Charger types known to the tariff table.
const (
	ChargerLevel1 = "Level 1"
	ChargerLevel2 = "Level 2"
	ChargerDCFast = "DC Fast Charger"
)

// DefaultPricePerKWh applies to charger types without a tariff.
const DefaultPricePerKWh = 0.30

// Tariffs maps charger types to a realistic USD/kWh price with a fallback.
type Tariffs struct {
	perCharger map[string]float64
	fallback   float64
}

// DefaultTariffs returns the public charging prices per charger type.
func DefaultTariffs() *Tariffs {
	return NewTariffs(map[string]float64{
		ChargerLevel1: 0.15,
		ChargerLevel2: 0.25,
		ChargerDCFast: 0.55,
	}, DefaultPricePerKWh)
}

// NewTariffs builds a tariff table. A non-positive fallback uses DefaultPricePerKWh.
func NewTariffs(perCharger map[string]float64, fallback float64) *Tariffs {
	if fallback <= 0 {
		fallback = DefaultPricePerKWh
	}
	t := &Tariffs{perCharger: make(map[string]float64, len(perCharger)), fallback: fallback}
	for k, v := range perCharger {
		if v > 0 {
			t.perCharger[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
	return t
}

// PricePerKWh returns the tariff for chargerType or the fallback.
func (t *Tariffs) PricePerKWh(chargerType string) float64 {
	if p, ok := t.perCharger[strings.ToLower(strings.TrimSpace(chargerType))]; ok {
		return p
	}
	return t.fallback
}
