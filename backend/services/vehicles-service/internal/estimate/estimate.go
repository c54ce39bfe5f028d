// Package estimate computes charging cost, remaining range and charging duration
// estimates for a vehicle profile.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/models"
)

// ErrInvalidInput wraps validation failures.
var ErrInvalidInput = errors.New("estimate: invalid input")

// Road types for range estimates.
const (
	RoadHighway  = "Autostrada"
	RoadCity     = "Oras"
	RoadMountain = "Munti"
)

const (
	// DefaultTemperatureC is assumed when neither the request nor the weather source
	// gives the outside temperature.
	DefaultTemperatureC = 20.0
	// DefaultLocation is the station location encoded for cost predictions.
	DefaultLocation = "Houston"

	consumptionPerKm = 0.1
)

// Prediction sources.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// Estimator computes estimates. Remote models are optional.
type Estimator struct {
	tariffs  *Tariffs
	cost     Predictor
	duration Predictor
	weather  TemperatureSource
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures Estimator.
type Option func(*Estimator)

// WithCostModel sets the predictor used for model cost estimates.
func WithCostModel(p Predictor) Option {
	return func(e *Estimator) { e.cost = p }
}

// WithDurationModel sets the predictor used for duration estimates.
func WithDurationModel(p Predictor) Option {
	return func(e *Estimator) { e.duration = p }
}

// WithTemperatureSource sets where the outside temperature comes from when a
// request omits it.
func WithTemperatureSource(src TemperatureSource) Option {
	return func(e *Estimator) { e.weather = src }
}

// WithClock overrides the time source used for time-of-day features.
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) { e.now = now }
}

// NewEstimator builds an estimator. Nil tariffs use DefaultTariffs.
func NewEstimator(tariffs *Tariffs, logger *zap.Logger, opts ...Option) *Estimator {
	if tariffs == nil {
		tariffs = DefaultTariffs()
	}
	e := &Estimator{
		tariffs: tariffs,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CostInput describes a planned charge.
type CostInput struct {
	Vehicle       models.Vehicle
	RateKW        float64
	DurationHours float64
	SoCStart      float64
	DistanceKm    float64
	TemperatureC  *float64
	Location      string
}

// CostEstimate is the result of Cost.
type CostEstimate struct {
	EnergyKWh        float64  `json:"energy_kwh"`
	SoCEnd           float64  `json:"soc_end"`
	PricePerKWh      float64  `json:"price_per_kwh"`
	RealisticCostUSD float64  `json:"realistic_cost_usd"`
	PredictedCostUSD *float64 `json:"predicted_cost_usd,omitempty"`
	Derived          Derived  `json:"derived"`
}

// Cost estimates the energy delivered and its price. The energy is capped by what the
// battery can still take.
func (e *Estimator) Cost(ctx context.Context, in CostInput) (*CostEstimate, error) {
	capacity := in.Vehicle.BatteryKWh
	switch {
	case capacity <= 0:
		return nil, fmt.Errorf("%w: battery capacity must be positive", ErrInvalidInput)
	case in.RateKW < 0 || in.DurationHours < 0:
		return nil, fmt.Errorf("%w: rate and duration must not be negative", ErrInvalidInput)
	case in.SoCStart < 0 || in.SoCStart > 100:
		return nil, fmt.Errorf("%w: state of charge must be between 0 and 100", ErrInvalidInput)
	}

	energy := math.Min(in.RateKW*in.DurationHours, (100-in.SoCStart)/100*capacity)
	socEnd := math.Min(in.SoCStart+energy/capacity*100, 100)

	location := in.Location
	if location == "" {
		location = DefaultLocation
	}
	f := e.features(in.Vehicle, e.Temperature(ctx, in.TemperatureC))
	f.EnergyKWh = energy
	f.ChargingRateKW = in.RateKW
	f.DurationHours = in.DurationHours
	f.SoCStart = in.SoCStart
	f.SoCEnd = socEnd
	f.DistanceKm = in.DistanceKm
	f.Location = location

	price := e.tariffs.PricePerKWh(in.Vehicle.ChargerType)
	out := &CostEstimate{
		EnergyKWh:        energy,
		SoCEnd:           socEnd,
		PricePerKWh:      price,
		RealisticCostUSD: energy * price,
		Derived:          f.Derive(),
	}
	if e.cost != nil {
		predicted, err := e.cost.Predict(ctx, f)
		if err != nil {
			e.logger.Warn("cost model unavailable", zap.Error(err))
		} else {
			out.PredictedCostUSD = &predicted
		}
	}
	return out, nil
}

// RangeInput describes the vehicle state for a range estimate.
type RangeInput struct {
	SoCPercent   float64
	BatteryKWh   float64
	VehicleAge   float64
	TemperatureC float64
	RoadType     string
}

// RangeEstimate is the result of Range.
type RangeEstimate struct {
	DistanceKm    float64 `json:"distance_km"`
	FullRangeKm   float64 `json:"full_range_km"`
	DurationHours float64 `json:"duration_hours"`
	DrainRateKW   float64 `json:"drain_rate_kw"`
	AvgSpeedKmh   float64 `json:"avg_speed_kmh"`
}

// Range estimates the distance left before the next charge from a 0.1 kWh/km base
// consumption adjusted for age, temperature and road type.
func (e *Estimator) Range(in RangeInput) (*RangeEstimate, error) {
	if in.BatteryKWh <= 0 {
		return nil, fmt.Errorf("%w: battery capacity must be positive", ErrInvalidInput)
	}
	if in.SoCPercent < 0 || in.SoCPercent > 100 {
		return nil, fmt.Errorf("%w: state of charge must be between 0 and 100", ErrInvalidInput)
	}

	ageFactor := 1 + in.VehicleAge*0.02
	tempFactor := 1.0
	switch {
	case in.TemperatureC < 0:
		tempFactor = 1.2
	case in.TemperatureC > 30:
		tempFactor = 1.15
	}
	roadFactor, speed := roadProfile(in.RoadType)

	perKm := consumptionPerKm * ageFactor * tempFactor * roadFactor
	energyLeft := in.SoCPercent / 100 * in.BatteryKWh
	distance := energyLeft / perKm
	duration := distance / speed

	out := &RangeEstimate{
		DistanceKm:    distance,
		FullRangeKm:   in.BatteryKWh / perKm,
		DurationHours: duration,
		AvgSpeedKmh:   speed,
	}
	if duration > 0 {
		out.DrainRateKW = energyLeft / duration
	}
	return out, nil
}

func roadProfile(road string) (factor, speedKmh float64) {
	switch road {
	case RoadHighway:
		return 0.9, 100
	case RoadCity:
		return 1.2, 50
	case RoadMountain:
		return 1.5, 40
	}
	return 1, 60
}

// DurationInput describes a charge whose duration is estimated.
type DurationInput struct {
	Vehicle      models.Vehicle
	EnergyKWh    float64
	RateKW       float64
	CostUSD      float64
	SoCStart     float64
	SoCEnd       float64
	DistanceKm   float64
	TemperatureC *float64
}

// DurationEstimate is the result of Duration.
type DurationEstimate struct {
	Hours    float64  `json:"hours"`
	Minutes  float64  `json:"minutes"`
	Source   string   `json:"source"`
	Derived  Derived  `json:"derived"`
	Features Features `json:"-"`
}

// Duration predicts charging hours with the duration model, falling back to
// energy divided by rate.
func (e *Estimator) Duration(ctx context.Context, in DurationInput) (*DurationEstimate, error) {
	if in.EnergyKWh < 0 || in.RateKW < 0 {
		return nil, fmt.Errorf("%w: energy and rate must not be negative", ErrInvalidInput)
	}
	if in.SoCStart < 0 || in.SoCEnd > 100 || in.SoCStart > in.SoCEnd {
		return nil, fmt.Errorf("%w: state of charge range is invalid", ErrInvalidInput)
	}

	f := e.features(in.Vehicle, e.Temperature(ctx, in.TemperatureC))
	f.EnergyKWh = in.EnergyKWh
	f.ChargingRateKW = in.RateKW
	f.CostUSD = in.CostUSD
	f.SoCStart = in.SoCStart
	f.SoCEnd = in.SoCEnd
	f.DistanceKm = in.DistanceKm

	out := &DurationEstimate{Source: SourceFallback, Derived: f.Derive(), Features: f}
	predicted := false
	if e.duration != nil {
		hours, err := e.duration.Predict(ctx, f)
		if err != nil {
			e.logger.Warn("duration model unavailable", zap.Error(err))
		} else {
			out.Hours = hours
			out.Source = SourceModel
			predicted = true
		}
	}
	if !predicted {
		if in.RateKW == 0 {
			return nil, fmt.Errorf("%w: charging rate must be positive", ErrInvalidInput)
		}
		out.Hours = in.EnergyKWh / in.RateKW
	}
	out.Features.DurationHours = out.Hours
	out.Minutes = out.Hours * 60
	return out, nil
}

// Temperature resolves the outside temperature: the given value, else the
// temperature source, else DefaultTemperatureC.
func (e *Estimator) Temperature(ctx context.Context, given *float64) float64 {
	if given != nil {
		return *given
	}
	if e.weather == nil {
		return DefaultTemperatureC
	}
	temp, err := e.weather.CurrentTemperature(ctx)
	if err != nil {
		e.logger.Warn("weather unavailable, using default temperature", zap.Error(err))
		return DefaultTemperatureC
	}
	return temp
}

func (e *Estimator) features(v models.Vehicle, temp float64) Features {
	now := e.now()
	return Features{
		BatteryKWh:   v.BatteryKWh,
		VehicleAge:   float64(v.AgeYears),
		TimeOfDay:    float64(now.Hour()),
		DayOfWeek:    float64((int(now.Weekday()) + 6) % 7),
		TemperatureC: temp,
		VehicleModel: v.Model,
		UserType:     v.UserType,
		ChargerType:  v.ChargerType,
	}
}
