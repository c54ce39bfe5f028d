package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"evcast/backend/services/vehicles-service/internal/estimate"
	"evcast/backend/services/vehicles-service/internal/models"
)

// HistoryStore records and lists charging history.
type HistoryStore interface {
	Create(ctx context.Context, rec *models.ChargingRecord) error
	List(ctx context.Context, user, vehicleModel string, limit int) ([]models.ChargingRecord, error)
}

// CostRequest asks for a charging cost estimate for a saved vehicle.
type CostRequest struct {
	VehicleID     string   `json:"vehicle_id"`
	RateKW        float64  `json:"charging_rate_kw"`
	DurationHours float64  `json:"duration_hours"`
	SoCStart      float64  `json:"soc_start"`
	DistanceKm    float64  `json:"distance_km"`
	TemperatureC  *float64 `json:"temperature_c,omitempty"`
	Location      string   `json:"location,omitempty"`
}

// RangeRequest asks for a remaining range estimate for a saved vehicle.
type RangeRequest struct {
	VehicleID    string   `json:"vehicle_id"`
	SoCPercent   float64  `json:"soc_percent"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	RoadType     string   `json:"road_type"`
}

// DurationRequest asks for a charging duration estimate for a saved vehicle.
type DurationRequest struct {
	VehicleID    string   `json:"vehicle_id"`
	EnergyKWh    float64  `json:"energy_kwh"`
	RateKW       float64  `json:"charging_rate_kw"`
	CostUSD      float64  `json:"cost_usd"`
	SoCStart     float64  `json:"soc_start"`
	SoCEnd       float64  `json:"soc_end"`
	DistanceKm   float64  `json:"distance_km"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
}

// DurationResult is a duration estimate and whether it was added to the history.
type DurationResult struct {
	*estimate.DurationEstimate
	Vehicle  *models.Vehicle `json:"vehicle"`
	Recorded bool            `json:"recorded"`
	RecordID string          `json:"record_id,omitempty"`
}

// EstimateService runs estimates against the caller's saved vehicles.
type EstimateService struct {
	vehicles  VehicleStore
	history   HistoryStore
	estimator *estimate.Estimator
	now       func() time.Time
	logger    *zap.Logger
}

// NewEstimateService builds service.
func NewEstimateService(vehicles VehicleStore, history HistoryStore, estimator *estimate.Estimator, logger *zap.Logger) *EstimateService {
	return &EstimateService{
		vehicles:  vehicles,
		history:   history,
		estimator: estimator,
		now:       time.Now,
		logger:    logger,
	}
}

// Cost estimates the price of a planned charge.
func (s *EstimateService) Cost(ctx context.Context, owner string, req CostRequest) (*estimate.CostEstimate, error) {
	v, err := s.vehicles.Get(ctx, owner, req.VehicleID)
	if err != nil {
		return nil, err
	}
	return s.estimator.Cost(ctx, estimate.CostInput{
		Vehicle:       *v,
		RateKW:        req.RateKW,
		DurationHours: req.DurationHours,
		SoCStart:      req.SoCStart,
		DistanceKm:    req.DistanceKm,
		TemperatureC:  req.TemperatureC,
		Location:      strings.TrimSpace(req.Location),
	})
}

// Range estimates the distance left before the next charge.
func (s *EstimateService) Range(ctx context.Context, owner string, req RangeRequest) (*estimate.RangeEstimate, error) {
	v, err := s.vehicles.Get(ctx, owner, req.VehicleID)
	if err != nil {
		return nil, err
	}
	return s.estimator.Range(estimate.RangeInput{
		SoCPercent:   req.SoCPercent,
		BatteryKWh:   v.BatteryKWh,
		VehicleAge:   float64(v.AgeYears),
		TemperatureC: s.estimator.Temperature(ctx, req.TemperatureC),
		RoadType:     req.RoadType,
	})
}

// Duration estimates charging time and records the session in the user's history.
// A failed history write is logged and reported through Recorded.
func (s *EstimateService) Duration(ctx context.Context, owner string, req DurationRequest) (*DurationResult, error) {
	v, err := s.vehicles.Get(ctx, owner, req.VehicleID)
	if err != nil {
		return nil, err
	}
	est, err := s.estimator.Duration(ctx, estimate.DurationInput{
		Vehicle:      *v,
		EnergyKWh:    req.EnergyKWh,
		RateKW:       req.RateKW,
		CostUSD:      req.CostUSD,
		SoCStart:     req.SoCStart,
		SoCEnd:       req.SoCEnd,
		DistanceKm:   req.DistanceKm,
		TemperatureC: req.TemperatureC,
	})
	if err != nil {
		return nil, err
	}

	f := est.Features
	rec := &models.ChargingRecord{
		UserEmail:      owner,
		VehicleModel:   v.Model,
		RecordedAt:     s.now().UTC(),
		EnergyKWh:      f.EnergyKWh,
		ChargingRateKW: f.ChargingRateKW,
		CostUSD:        f.CostUSD,
		SoCStart:       f.SoCStart,
		SoCEnd:         f.SoCEnd,
		DistanceKm:     f.DistanceKm,
		TemperatureC:   f.TemperatureC,
		BatteryKWh:     f.BatteryKWh,
		VehicleAge:     f.VehicleAge,
		PredictedHours: est.Hours,
		Derived:        est.Derived.Map(),
	}

	result := &DurationResult{DurationEstimate: est, Vehicle: v}
	if err := s.history.Create(ctx, rec); err != nil {
		s.logger.Warn("failed to record charging history", zap.String("email", owner), zap.Error(err))
		return result, nil
	}
	result.Recorded = true
	result.RecordID = rec.ID
	return result, nil
}

// History lists the user's recorded sessions, optionally for one vehicle model.
func (s *EstimateService) History(ctx context.Context, owner, vehicleModel string) ([]models.ChargingRecord, error) {
	return s.history.List(ctx, owner, strings.TrimSpace(vehicleModel), 0)
}
